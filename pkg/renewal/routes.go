package renewal

import (
	"github.com/labstack/echo/v4"
	"github.com/lyflibrary/catalog/pkg/bookinstances"
	"github.com/lyflibrary/catalog/pkg/metrics"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the librarian renewal form on the
// /catalog group. The workflow does its own capability check, so the route
// carries no guard middleware.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, policy Policy, recorder metrics.RenewalRecorder) *Workflow {
	workflow := NewWorkflow(bookinstances.NewService(db), policy, recorder)

	h := &handler{workflow: workflow}

	g.GET("/book/:id/renew", h.form).Name = "renew-book-librarian"
	g.POST("/book/:id/renew", h.renew)

	return workflow
}
