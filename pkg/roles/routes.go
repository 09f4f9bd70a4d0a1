package roles

import (
	"github.com/labstack/echo/v4"
	"github.com/lyflibrary/catalog/pkg/auth"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the role management API. Roles are part of user
// management, so they share the users capabilities.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) *Service {
	roleService := NewService(db)

	h := &handler{roleService: roleService}

	read := authMiddleware.RequireCapability(models.CapabilityUsersRead)
	write := authMiddleware.RequireCapability(models.CapabilityUsersWrite)

	roles := e.Group("/roles")
	roles.GET("", h.list, read)
	roles.GET("/:id", h.retrieve, read)
	roles.POST("", h.create, write)
	roles.POST("/:id", h.update, write)
	roles.DELETE("/:id", h.delete, write)

	return roleService
}
