package testutils

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/lyflibrary/catalog/pkg/models"
)

type userKey struct{}

func withUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// InjectUser is a Pre middleware that copies a user placed on the request by
// Serve into the echo context, the way the auth middleware would.
func InjectUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if user, ok := c.Request().Context().Value(userKey{}).(*models.User); ok {
			c.Set("user_id", user.ID)
			c.Set("user", user)
		}
		return next(c)
	}
}
