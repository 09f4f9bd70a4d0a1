package books

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/lyflibrary/catalog/pkg/authors"
	"github.com/lyflibrary/catalog/pkg/errcodes"
	"github.com/lyflibrary/catalog/pkg/genres"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/lyflibrary/catalog/pkg/pagination"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

const (
	ListTemplate          = "catalog/book_list.html"
	DetailTemplate        = "catalog/book_detail.html"
	FormTemplate          = "catalog/book_form.html"
	ConfirmDeleteTemplate = "catalog/book_confirm_delete.html"
)

type handler struct {
	bookService   *Service
	authorService *authors.Service
	genreService  *genres.Service
	pageSize      int
}

func bookID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, errcodes.NotFound("Book")
	}
	return id, nil
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := pagination.Query{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	total, err := h.bookService.CountBooks(ctx)
	if err != nil {
		return err
	}
	page := pagination.New(params.Page, h.pageSize, total)
	if err := page.Check(); err != nil {
		return err
	}

	limit, offset := page.Limit(), page.Offset()
	books, err := h.bookService.ListBooks(ctx, ListBooksOptions{Limit: &limit, Offset: &offset})
	if err != nil {
		return err
	}

	return errors.WithStack(c.Render(http.StatusOK, ListTemplate, map[string]interface{}{
		"book_list":    books,
		"page_obj":     page,
		"is_paginated": page.IsPaginated(),
	}))
}

func (h *handler) detail(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := bookID(c)
	if err != nil {
		return err
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &id, WithInstances: true})
	if err != nil {
		return err
	}

	return errors.WithStack(c.Render(http.StatusOK, DetailTemplate, map[string]interface{}{
		"book": book,
	}))
}

func (h *handler) createForm(c echo.Context) error {
	return h.renderForm(c, http.StatusOK, nil, BookPayload{}, "")
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := BookPayload{}
	if err := c.Bind(&params); err != nil {
		return h.formError(c, nil, params, err)
	}

	book := &models.Book{}
	params.apply(book)
	if err := h.bookService.CreateBook(ctx, book, params.Genre); err != nil {
		return h.formError(c, nil, params, err)
	}

	logger.FromContext(ctx).Info("book created", logger.Data{"book_id": book.ID})

	return errors.WithStack(c.Redirect(http.StatusFound, c.Echo().Reverse("book-detail", book.ID)))
}

func (h *handler) updateForm(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := bookID(c)
	if err != nil {
		return err
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if err != nil {
		return err
	}

	return h.renderForm(c, http.StatusOK, book, payloadFromBook(book), "")
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := bookID(c)
	if err != nil {
		return err
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if err != nil {
		return err
	}

	params := BookPayload{}
	if err := c.Bind(&params); err != nil {
		return h.formError(c, book, params, err)
	}

	params.apply(book)
	genreIDs := params.Genre
	if genreIDs == nil {
		genreIDs = []int{}
	}
	err = h.bookService.UpdateBook(ctx, book, UpdateBookOptions{
		Columns:  []string{"title", "author_id", "summary", "isbn"},
		GenreIDs: &genreIDs,
	})
	if err != nil {
		return h.formError(c, book, params, err)
	}

	return errors.WithStack(c.Redirect(http.StatusFound, c.Echo().Reverse("book-detail", book.ID)))
}

func (h *handler) deleteConfirm(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := bookID(c)
	if err != nil {
		return err
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &id, WithInstances: true})
	if err != nil {
		return err
	}

	return errors.WithStack(c.Render(http.StatusOK, ConfirmDeleteTemplate, map[string]interface{}{
		"book": book,
	}))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := bookID(c)
	if err != nil {
		return err
	}

	if err := h.bookService.DeleteBook(ctx, id); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("book deleted", logger.Data{"book_id": id})

	return errors.WithStack(c.Redirect(http.StatusFound, c.Echo().Reverse("books")))
}

func (h *handler) formError(c echo.Context, book *models.Book, params BookPayload, err error) error {
	msg, ok := errcodes.ValidationMessage(err)
	if !ok {
		return errors.WithStack(err)
	}
	return h.renderForm(c, http.StatusOK, book, params, msg)
}

// renderForm renders the book form with the author and genre choices.
func (h *handler) renderForm(c echo.Context, code int, book *models.Book, form BookPayload, errMsg string) error {
	ctx := c.Request().Context()

	authorChoices, err := h.authorService.ListAuthors(ctx, authors.ListAuthorsOptions{})
	if err != nil {
		return err
	}
	genreChoices, err := h.genreService.ListGenres(ctx, genres.ListGenresOptions{})
	if err != nil {
		return err
	}
	selected := make(map[int]bool, len(form.Genre))
	for _, id := range form.Genre {
		selected[id] = true
	}

	return errors.WithStack(c.Render(code, FormTemplate, map[string]interface{}{
		"book":            book,
		"form":            form,
		"error":           errMsg,
		"authors":         authorChoices,
		"genres":          genreChoices,
		"selected_genres": selected,
		"help_text": map[string]string{
			"summary": models.BookSummaryHelpText,
			"isbn":    models.BookISBNHelpText,
			"genre":   models.BookGenreHelpText,
		},
		"max_lengths": map[string]int{
			"title":   models.BookTitleMaxLength,
			"summary": models.BookSummaryMaxLength,
			"isbn":    models.BookISBNLength,
		},
	}))
}
