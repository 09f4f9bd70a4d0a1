package catalog

import (
	"github.com/labstack/echo/v4"
	"github.com/lyflibrary/catalog/pkg/sessions"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the landing page at the root of the
// /catalog group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) *Service {
	catalogService := NewService(db)

	h := &handler{
		catalogService: catalogService,
		sessionService: sessions.NewService(db),
	}

	g.GET("", h.index).Name = "index"

	return catalogService
}
