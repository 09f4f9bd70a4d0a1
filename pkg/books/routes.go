package books

import (
	"github.com/labstack/echo/v4"
	"github.com/lyflibrary/catalog/pkg/auth"
	"github.com/lyflibrary/catalog/pkg/authors"
	"github.com/lyflibrary/catalog/pkg/genres"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers book routes on the /catalog group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware, pageSize int) *Service {
	bookService := NewService(db)

	h := &handler{
		bookService:   bookService,
		authorService: authors.NewService(db),
		genreService:  genres.NewService(db),
		pageSize:      pageSize,
	}

	write := authMiddleware.RequireCapability(models.CapabilityCatalogWrite)

	g.GET("/books", h.list).Name = "books"
	g.GET("/book/create", h.createForm, write).Name = "book-create"
	g.POST("/book/create", h.create, write)
	g.GET("/book/:id", h.detail).Name = "book-detail"
	g.GET("/book/:id/update", h.updateForm, write).Name = "book-update"
	g.POST("/book/:id/update", h.update, write)
	g.GET("/book/:id/delete", h.deleteConfirm, write).Name = "book-delete"
	g.POST("/book/:id/delete", h.delete, write)

	return bookService
}
