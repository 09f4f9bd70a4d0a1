package bookinstances

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lyflibrary/catalog/pkg/auth"
	"github.com/lyflibrary/catalog/pkg/books"
	"github.com/lyflibrary/catalog/pkg/errcodes"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/lyflibrary/catalog/pkg/pagination"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

const (
	BorrowedUserTemplate = "catalog/bookinstance_list_borrowed_user.html"
	BorrowedAllTemplate  = "catalog/bookinstance_list_borrowed_all.html"
	FormTemplate         = "catalog/bookinstance_form.html"
)

type handler struct {
	instanceService *Service
	bookService     *books.Service
	pageSize        int
}

func (h *handler) listOnLoan(c echo.Context, template string, borrowerID *int) error {
	ctx := c.Request().Context()

	params := pagination.Query{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	onLoan := models.LoanStatusOnLoan
	total, err := h.instanceService.CountInstances(ctx, CountInstancesOptions{Status: &onLoan, BorrowerID: borrowerID})
	if err != nil {
		return err
	}
	page := pagination.New(params.Page, h.pageSize, total)
	if err := page.Check(); err != nil {
		return err
	}

	limit, offset := page.Limit(), page.Offset()
	instances, err := h.instanceService.ListInstances(ctx, ListInstancesOptions{
		Limit:      &limit,
		Offset:     &offset,
		Status:     &onLoan,
		BorrowerID: borrowerID,
	})
	if err != nil {
		return err
	}

	return errors.WithStack(c.Render(http.StatusOK, template, map[string]interface{}{
		"bookinstance_list": instances,
		"page_obj":          page,
		"is_paginated":      page.IsPaginated(),
		"today":             models.DateOf(h.instanceService.now()),
	}))
}

// myBorrowed lists the logged-in user's loans.
func (h *handler) myBorrowed(c echo.Context) error {
	user := auth.UserFromContext(c)
	return h.listOnLoan(c, BorrowedUserTemplate, &user.ID)
}

// allBorrowed lists every loan for staff.
func (h *handler) allBorrowed(c echo.Context) error {
	return h.listOnLoan(c, BorrowedAllTemplate, nil)
}

func (h *handler) createForm(c echo.Context) error {
	return h.renderForm(c, CreateInstancePayload{BookID: bookFromQuery(c), Status: string(models.LoanStatusMaintenance)}, "")
}

func bookFromQuery(c echo.Context) int {
	book := 0
	if err := echo.QueryParamsBinder(c).Int("book", &book).BindError(); err != nil {
		return 0
	}
	return book
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateInstancePayload{}
	if err := c.Bind(&params); err != nil {
		return h.formError(c, params, err)
	}

	dueBack, err := models.ParseOptionalDate(params.DueBack)
	if err != nil {
		return h.formError(c, params, errcodes.ValidationError(`"due_back" is not a valid date`))
	}

	instance := &models.BookInstance{
		BookID:  params.BookID,
		Imprint: params.Imprint,
		DueBack: dueBack,
		Status:  models.LoanStatus(params.Status),
	}
	if err := h.instanceService.CreateInstance(ctx, instance); err != nil {
		return h.formError(c, params, err)
	}

	logger.FromContext(ctx).Info("book instance created", logger.Data{"instance_id": instance.ID, "book_id": instance.BookID})

	return errors.WithStack(c.Redirect(http.StatusFound, c.Echo().Reverse("book-detail", instance.BookID)))
}

func (h *handler) lend(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	params := LendPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	dueBack, err := models.ParseDate(params.DueBack)
	if err != nil {
		return errcodes.ValidationError(`"due_back" is not a valid date`)
	}

	instance, err := h.instanceService.Lend(ctx, id, params.BorrowerID, dueBack)
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("book instance lent", logger.Data{
		"instance_id": instance.ID,
		"borrower_id": params.BorrowerID,
		"due_back":    params.DueBack,
	})

	return errors.WithStack(c.Redirect(http.StatusFound, c.Echo().Reverse("all-borrowed")))
}

func (h *handler) markReturned(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	instance, err := h.instanceService.Return(ctx, id)
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("book instance returned", logger.Data{"instance_id": instance.ID})

	return errors.WithStack(c.Redirect(http.StatusFound, c.Echo().Reverse("all-borrowed")))
}

func (h *handler) formError(c echo.Context, params CreateInstancePayload, err error) error {
	msg, ok := errcodes.ValidationMessage(err)
	if !ok {
		return errors.WithStack(err)
	}
	return h.renderForm(c, params, msg)
}

func (h *handler) renderForm(c echo.Context, form CreateInstancePayload, errMsg string) error {
	ctx := c.Request().Context()

	bookChoices, err := h.bookService.ListBooks(ctx, books.ListBooksOptions{})
	if err != nil {
		return err
	}

	return errors.WithStack(c.Render(http.StatusOK, FormTemplate, map[string]interface{}{
		"form":     form,
		"error":    errMsg,
		"books":    bookChoices,
		"statuses": models.LoanStatuses,
		"help_text": map[string]string{
			"id":     models.BookInstanceIDHelpText,
			"status": models.BookInstanceStatusHelp,
		},
		"max_imprint": models.BookInstanceImprintMaxLength,
	}))
}
