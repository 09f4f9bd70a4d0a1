package bookinstances

import (
	"github.com/labstack/echo/v4"
	"github.com/lyflibrary/catalog/pkg/auth"
	"github.com/lyflibrary/catalog/pkg/books"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the loan listings and copy management
// routes on the /catalog group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware, pageSize int) *Service {
	instanceService := NewService(db)

	h := &handler{
		instanceService: instanceService,
		bookService:     books.NewService(db),
		pageSize:        pageSize,
	}

	markReturned := authMiddleware.RequireCapability(models.CapabilityMarkReturned)
	write := authMiddleware.RequireCapability(models.CapabilityCatalogWrite)

	g.GET("/mybooks", h.myBorrowed, authMiddleware.RequireLogin).Name = "my-borrowed"
	g.GET("/borrowed", h.allBorrowed, markReturned).Name = "all-borrowed"
	g.GET("/bookinstance/create", h.createForm, write).Name = "bookinstance-create"
	g.POST("/bookinstance/create", h.create, write)
	g.POST("/bookinstance/:id/lend", h.lend, markReturned).Name = "bookinstance-lend"
	g.POST("/bookinstance/:id/return", h.markReturned, markReturned).Name = "bookinstance-return"

	return instanceService
}
