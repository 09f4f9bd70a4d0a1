package renewal

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lyflibrary/catalog/pkg/auth"
	"github.com/pkg/errors"
)

const Template = "catalog/book_renew_librarian.html"

type RenewPayload struct {
	RenewalDate string `json:"renewal_date" form:"renewal_date"`
}

type handler struct {
	workflow *Workflow
}

func (h *handler) form(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.workflow.Display(ctx, auth.UserFromContext(c), c.Param("id"))
	if err != nil {
		return err
	}
	return h.render(c, result)
}

func (h *handler) renew(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.UserFromContext(c)

	// Check the capability before binding so an anonymous POST with a bad
	// body is still a 403.
	if err := h.workflow.authorize(ctx, user); err != nil {
		return err
	}

	params := RenewPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	result, err := h.workflow.Submit(ctx, user, c.Param("id"), params.RenewalDate)
	if err != nil {
		return err
	}
	if result.Committed {
		return errors.WithStack(c.Redirect(http.StatusFound, c.Echo().Reverse("all-borrowed")))
	}
	return h.render(c, result)
}

func (h *handler) render(c echo.Context, result *Result) error {
	return errors.WithStack(c.Render(http.StatusOK, Template, map[string]interface{}{
		"form":     result.Form,
		"bookinst": result.Instance,
	}))
}
