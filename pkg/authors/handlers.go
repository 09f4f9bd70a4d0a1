package authors

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/lyflibrary/catalog/pkg/errcodes"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/lyflibrary/catalog/pkg/pagination"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

const (
	ListTemplate          = "catalog/author_list.html"
	DetailTemplate        = "catalog/author_detail.html"
	FormTemplate          = "catalog/author_form.html"
	ConfirmDeleteTemplate = "catalog/author_confirm_delete.html"
)

type handler struct {
	authorService *Service
	pageSize      int
}

func authorID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, errcodes.NotFound("Author")
	}
	return id, nil
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := pagination.Query{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	total, err := h.authorService.CountAuthors(ctx)
	if err != nil {
		return err
	}
	page := pagination.New(params.Page, h.pageSize, total)
	if err := page.Check(); err != nil {
		return err
	}

	limit, offset := page.Limit(), page.Offset()
	authors, err := h.authorService.ListAuthors(ctx, ListAuthorsOptions{Limit: &limit, Offset: &offset})
	if err != nil {
		return err
	}

	return errors.WithStack(c.Render(http.StatusOK, ListTemplate, map[string]interface{}{
		"author_list":  authors,
		"page_obj":     page,
		"is_paginated": page.IsPaginated(),
	}))
}

func (h *handler) detail(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := authorID(c)
	if err != nil {
		return err
	}

	author, err := h.authorService.RetrieveAuthor(ctx, RetrieveAuthorOptions{ID: &id, WithBooks: true})
	if err != nil {
		return err
	}

	return errors.WithStack(c.Render(http.StatusOK, DetailTemplate, map[string]interface{}{
		"author": author,
	}))
}

func (h *handler) createForm(c echo.Context) error {
	return errors.WithStack(c.Render(http.StatusOK, FormTemplate, formContext(nil, AuthorPayload{}, "")))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := AuthorPayload{}
	if err := c.Bind(&params); err != nil {
		return h.formError(c, nil, params, err)
	}

	author := &models.Author{}
	if err := params.apply(author); err != nil {
		return h.formError(c, nil, params, err)
	}
	if err := h.authorService.CreateAuthor(ctx, author); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("author created", logger.Data{"author_id": author.ID})

	return errors.WithStack(c.Redirect(http.StatusFound, c.Echo().Reverse("author-detail", author.ID)))
}

func (h *handler) updateForm(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := authorID(c)
	if err != nil {
		return err
	}

	author, err := h.authorService.RetrieveAuthor(ctx, RetrieveAuthorOptions{ID: &id})
	if err != nil {
		return err
	}

	return errors.WithStack(c.Render(http.StatusOK, FormTemplate, formContext(author, payloadFromAuthor(author), "")))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := authorID(c)
	if err != nil {
		return err
	}

	author, err := h.authorService.RetrieveAuthor(ctx, RetrieveAuthorOptions{ID: &id})
	if err != nil {
		return err
	}

	params := AuthorPayload{}
	if err := c.Bind(&params); err != nil {
		return h.formError(c, author, params, err)
	}
	if err := params.apply(author); err != nil {
		return h.formError(c, author, params, err)
	}

	err = h.authorService.UpdateAuthor(ctx, author, UpdateAuthorOptions{
		Columns: []string{"first_name", "last_name", "date_of_birth", "date_of_death"},
	})
	if err != nil {
		return err
	}

	return errors.WithStack(c.Redirect(http.StatusFound, c.Echo().Reverse("author-detail", author.ID)))
}

func (h *handler) deleteConfirm(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := authorID(c)
	if err != nil {
		return err
	}

	author, err := h.authorService.RetrieveAuthor(ctx, RetrieveAuthorOptions{ID: &id, WithBooks: true})
	if err != nil {
		return err
	}

	return errors.WithStack(c.Render(http.StatusOK, ConfirmDeleteTemplate, map[string]interface{}{
		"author": author,
	}))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := authorID(c)
	if err != nil {
		return err
	}

	if err := h.authorService.DeleteAuthor(ctx, id); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("author deleted", logger.Data{"author_id": id})

	return errors.WithStack(c.Redirect(http.StatusFound, c.Echo().Reverse("authors")))
}

// formError re-renders the form for validation failures and passes anything
// else to the error handler.
func (h *handler) formError(c echo.Context, author *models.Author, params AuthorPayload, err error) error {
	msg, ok := errcodes.ValidationMessage(err)
	if !ok {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.Render(http.StatusOK, FormTemplate, formContext(author, params, msg)))
}

func formContext(author *models.Author, form AuthorPayload, errMsg string) map[string]interface{} {
	return map[string]interface{}{
		"author": author,
		"form":   form,
		"error":  errMsg,
		"labels": map[string]string{
			"first_name":    models.AuthorFirstNameLabel,
			"last_name":     models.AuthorLastNameLabel,
			"date_of_birth": models.AuthorDateOfBirthLabel,
			"date_of_death": models.AuthorDateOfDeathLabel,
		},
		"max_lengths": map[string]int{
			"first_name": models.AuthorFirstNameMaxLength,
			"last_name":  models.AuthorLastNameMaxLength,
		},
	}
}
