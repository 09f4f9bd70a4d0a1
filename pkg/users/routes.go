package users

import (
	"github.com/labstack/echo/v4"
	"github.com/lyflibrary/catalog/pkg/auth"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the staff-only user lookup routes.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) *Service {
	userService := NewService(db)

	h := &handler{userService: userService}

	users := e.Group("/users")
	users.Use(authMiddleware.AuthenticateOptional)
	users.Use(authMiddleware.RequireCapability(models.CapabilityUsersRead))

	users.GET("", h.list)
	users.GET("/:id", h.retrieve)

	return userService
}
