package renewal

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lyflibrary/catalog/pkg/bookinstances"
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
	librarian *models.User
	patron    *models.User
	instance  *models.BookInstance
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := testutils.NewDB(t)

	e, r := testutils.NewEcho(t)
	e.Pre(testutils.InjectUser)
	g := e.Group("/catalog")
	workflow := RegisterRoutesWithGroup(g, db, DefaultPolicy, nil)
	workflow.now = testutils.Clock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	// The redirect target must exist for Reverse.
	g.GET("/borrowed", func(c echo.Context) error { return nil }).Name = "all-borrowed"

	patron := testutils.CreateUser(ctx, t, db, "pat", models.RolePatron)
	book := testutils.CreateBook(ctx, t, db, "Dune", testutils.CreateAuthor(ctx, t, db, "Frank", "Herbert"))
	due := testutils.Date(t, "2023-12-28")

	return &fixture{
		db:        db,
		e:         e,
		r:         r,
		librarian: testutils.CreateUser(ctx, t, db, "lib", models.RoleLibrarian),
		patron:    patron,
		instance:  testutils.CreateInstance(ctx, t, db, book, models.LoanStatusOnLoan, &due, patron),
	}
}

func (f *fixture) dueBack(t *testing.T) string {
	t.Helper()
	got, err := bookinstances.NewService(f.db).RetrieveInstance(context.Background(), bookinstances.RetrieveInstanceOptions{ID: &f.instance.ID})
	require.NoError(t, err)
	return models.FormatDate(got.DueBack)
}

func (f *fixture) target() string {
	return "/catalog/book/" + f.instance.ID + "/renew"
}

func TestRenew_GetShowsDefaultDate(t *testing.T) {
	t.Parallel()
	f := setup(t)

	rec := testutils.Serve(f.e, testutils.Request{Target: f.target(), User: f.librarian})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, Template, f.r.Name)

	form := f.r.Data["form"].(Form)
	assert.Equal(t, "2024-01-22", form.RenewalDate)
	assert.Equal(t, f.instance.ID, f.r.Data["bookinst"].(*models.BookInstance).ID)
}

func TestRenew_ForbiddenWithoutCapability(t *testing.T) {
	t.Parallel()
	f := setup(t)
	form := url.Values{"renewal_date": {"2024-01-10"}}

	for _, user := range []*models.User{nil, f.patron} {
		rec := testutils.Serve(f.e, testutils.Request{Target: f.target(), User: user})
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = testutils.Serve(f.e, testutils.Request{Method: http.MethodPost, Target: f.target(), Form: form, User: user})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	}
	assert.Equal(t, "2023-12-28", f.dueBack(t))
}

func TestRenew_UnknownInstance(t *testing.T) {
	t.Parallel()
	f := setup(t)

	rec := testutils.Serve(f.e, testutils.Request{Target: "/catalog/book/missing/renew", User: f.librarian})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRenew_InvalidDateRerendersForm(t *testing.T) {
	t.Parallel()
	f := setup(t)

	form := url.Values{"renewal_date": {"2023-12-31"}}
	rec := testutils.Serve(f.e, testutils.Request{Method: http.MethodPost, Target: f.target(), Form: form, User: f.librarian})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, Template, f.r.Name)
	assert.Equal(t, []string{"Invalid date - renewal in past"}, f.r.Data["form"].(Form).Errors)

	form = url.Values{"renewal_date": {"2024-01-30"}}
	rec = testutils.Serve(f.e, testutils.Request{Method: http.MethodPost, Target: f.target(), Form: form, User: f.librarian})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Invalid date - renewal more than 4 weeks ahead"}, f.r.Data["form"].(Form).Errors)

	assert.Equal(t, "2023-12-28", f.dueBack(t))
}

func TestRenew_ValidDateRedirects(t *testing.T) {
	t.Parallel()
	f := setup(t)

	form := url.Values{"renewal_date": {"2024-01-29"}}
	rec := testutils.Serve(f.e, testutils.Request{Method: http.MethodPost, Target: f.target(), Form: form, User: f.librarian})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/catalog/borrowed", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, "2024-01-29", f.dueBack(t))
}
