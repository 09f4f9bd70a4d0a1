// Package sessions keeps a per-visitor record keyed by a UUID cookie.
package sessions

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/lyflibrary/catalog/pkg/auth"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

const (
	CookieName   = "catalog_session"
	CookieMaxAge = 14 * 24 * time.Hour
)

type Service struct {
	db  *bun.DB
	now func() time.Time
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// RecordVisit increments the session's visit counter and returns the session
// along with the count from before this visit. An empty or unknown id starts
// a new session.
func (svc *Service) RecordVisit(ctx context.Context, sessionID string, userID *int) (*models.Session, int, error) {
	session := &models.Session{}
	var previous int

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		now := svc.now()

		err := tx.NewSelect().Model(session).Where("s.id = ?", sessionID).Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) || sessionID == "" {
			session = &models.Session{
				ID:        uuid.NewString(),
				CreatedAt: now,
				UpdatedAt: now,
				UserID:    userID,
				NumVisits: 1,
			}
			_, err = tx.NewInsert().Model(session).Exec(ctx)
			return errors.WithStack(err)
		}
		if err != nil {
			return errors.WithStack(err)
		}

		previous = session.NumVisits
		session.NumVisits++
		session.UpdatedAt = now
		if userID != nil {
			session.UserID = userID
		}
		_, err = tx.NewUpdate().
			Model(session).
			Column("num_visits", "updated_at", "user_id").
			WherePK().
			Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, 0, err
	}

	return session, previous, nil
}

// Visit records a visit for the request's session cookie, refreshing or
// setting the cookie, and returns the visit count from before this request.
func (svc *Service) Visit(c echo.Context) (int, error) {
	var sessionID string
	if cookie, err := c.Cookie(CookieName); err == nil {
		sessionID = cookie.Value
	}

	var userID *int
	if user := auth.UserFromContext(c); user != nil {
		userID = &user.ID
	}

	session, previous, err := svc.RecordVisit(c.Request().Context(), sessionID, userID)
	if err != nil {
		return 0, err
	}

	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    session.ID,
		Path:     "/",
		MaxAge:   int(CookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.Scheme() == "https",
	})

	return previous, nil
}
