package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Session is a visitor's server-side session, keyed by the UUID stored in the
// session cookie.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID        string    `bun:",pk" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    *int      `json:"user_id"`
	NumVisits int       `bun:",notnull" json:"num_visits"`
}
