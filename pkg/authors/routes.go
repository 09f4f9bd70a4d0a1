package authors

import (
	"github.com/labstack/echo/v4"
	"github.com/lyflibrary/catalog/pkg/auth"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers author routes on the /catalog group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware, pageSize int) *Service {
	authorService := NewService(db)

	h := &handler{
		authorService: authorService,
		pageSize:      pageSize,
	}

	write := authMiddleware.RequireCapability(models.CapabilityCatalogWrite)

	g.GET("/authors", h.list).Name = "authors"
	g.GET("/author/create", h.createForm, write).Name = "author-create"
	g.POST("/author/create", h.create, write)
	g.GET("/author/:id", h.detail).Name = "author-detail"
	g.GET("/author/:id/update", h.updateForm, write).Name = "author-update"
	g.POST("/author/:id/update", h.update, write)
	g.GET("/author/:id/delete", h.deleteConfirm, write).Name = "author-delete"
	g.POST("/author/:id/delete", h.delete, write)

	return authorService
}
