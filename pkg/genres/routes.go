package genres

import (
	"github.com/labstack/echo/v4"
	"github.com/lyflibrary/catalog/pkg/auth"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers genre routes on the /catalog group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) *Service {
	genreService := NewService(db)

	h := &handler{genreService: genreService}

	write := authMiddleware.RequireCapability(models.CapabilityCatalogWrite)

	g.GET("/genres", h.list).Name = "genres"
	g.GET("/genre/create", h.createForm, write).Name = "genre-create"
	g.POST("/genre/create", h.create, write)

	return genreService
}
