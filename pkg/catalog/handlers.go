package catalog

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lyflibrary/catalog/pkg/sessions"
	"github.com/pkg/errors"
)

const IndexTemplate = "index.html"

type handler struct {
	catalogService *Service
	sessionService *sessions.Service
}

func (h *handler) index(c echo.Context) error {
	ctx := c.Request().Context()

	summary, err := h.catalogService.Summary(ctx)
	if err != nil {
		return err
	}

	numVisits, err := h.sessionService.Visit(c)
	if err != nil {
		return err
	}

	return errors.WithStack(c.Render(http.StatusOK, IndexTemplate, map[string]interface{}{
		"num_books":               summary.NumBooks,
		"num_instances":           summary.NumInstances,
		"num_instances_available": summary.NumInstancesAvailable,
		"num_authors":             summary.NumAuthors,
		"num_visits":              numVisits,
	}))
}
