package books

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/lyflibrary/catalog/pkg/auth"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/lyflibrary/catalog/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type fixture struct {
	db        *bun.DB
	e         *echo.Echo
	r         *testutils.Renderer
	svc       *Service
	librarian *models.User
	author    *models.Author
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := testutils.NewDB(t)

	e, r := testutils.NewEcho(t)
	e.Pre(testutils.InjectUser)
	svc := RegisterRoutesWithGroup(e.Group("/catalog"), db, auth.NewMiddleware(auth.NewService(db, "test-secret")), 5)

	return &fixture{
		db:        db,
		e:         e,
		r:         r,
		svc:       svc,
		librarian: testutils.CreateUser(ctx, t, db, "lib", models.RoleLibrarian),
		author:    testutils.CreateAuthor(ctx, t, db, "Frank", "Herbert"),
	}
}

func TestList_PageSizeFive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := setup(t)

	for i := 0; i < 6; i++ {
		testutils.CreateBook(ctx, t, f.db, "Book "+strconv.Itoa(i), f.author)
	}

	rec := testutils.Serve(f.e, testutils.Request{Target: "/catalog/books"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ListTemplate, f.r.Name)
	assert.Len(t, f.r.Data["book_list"], 5)

	rec = testutils.Serve(f.e, testutils.Request{Target: "/catalog/books?page=2"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, f.r.Data["book_list"], 1)
}

func TestDetail_NotFound(t *testing.T) {
	t.Parallel()
	f := setup(t)

	rec := testutils.Serve(f.e, testutils.Request{Target: "/catalog/book/12345"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreate_RedirectsToDetail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := setup(t)
	genre := testutils.CreateGenre(ctx, t, f.db, "Science Fiction")

	form := url.Values{
		"title":   {"Dune"},
		"author":  {strconv.Itoa(f.author.ID)},
		"summary": {"Spice."},
		"isbn":    {"9780441172719"},
		"genre":   {strconv.Itoa(genre.ID)},
	}
	rec := testutils.Serve(f.e, testutils.Request{Method: http.MethodPost, Target: "/catalog/book/create", Form: form, User: f.librarian})
	require.Equal(t, http.StatusFound, rec.Code)

	books, err := f.svc.ListBooks(ctx, ListBooksOptions{})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, books[0].AbsoluteURL(), rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, "Science Fiction", books[0].DisplayGenre())

	rec = testutils.Serve(f.e, testutils.Request{Target: books[0].AbsoluteURL()})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, DetailTemplate, f.r.Name)
}

func TestCreate_BadISBNRerenders(t *testing.T) {
	t.Parallel()
	f := setup(t)

	form := url.Values{"title": {"Dune"}, "author": {strconv.Itoa(f.author.ID)}, "isbn": {"123"}}
	rec := testutils.Serve(f.e, testutils.Request{Method: http.MethodPost, Target: "/catalog/book/create", Form: form, User: f.librarian})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, FormTemplate, f.r.Name)
	assert.Equal(t, `"isbn" length must be exactly 13 characters`, f.r.Data["error"])
	assert.Len(t, f.r.Data["authors"], 1)
}

func TestUpdateAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := setup(t)
	book := testutils.CreateBook(ctx, t, f.db, "Dune", f.author)

	form := url.Values{"title": {"Dune Messiah"}, "author": {strconv.Itoa(f.author.ID)}, "isbn": {"9780441172696"}}
	rec := testutils.Serve(f.e, testutils.Request{Method: http.MethodPost, Target: book.AbsoluteURL() + "/update", Form: form, User: f.librarian})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, book.AbsoluteURL(), rec.Header().Get(echo.HeaderLocation))

	got, err := f.svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", got.Title)

	rec = testutils.Serve(f.e, testutils.Request{Method: http.MethodPost, Target: book.AbsoluteURL() + "/delete", Form: url.Values{}, User: f.librarian})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/catalog/books", rec.Header().Get(echo.HeaderLocation))

	rec = testutils.Serve(f.e, testutils.Request{Method: http.MethodPost, Target: book.AbsoluteURL() + "/delete", Form: url.Values{}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
