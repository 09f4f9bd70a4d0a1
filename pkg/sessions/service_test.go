package sessions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/lyflibrary/catalog/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordVisit_CountsFromZero(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := NewService(testutils.NewDB(t))

	session, previous, err := svc.RecordVisit(ctx, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, previous)
	assert.Equal(t, 1, session.NumVisits)
	assert.Len(t, session.ID, 36)

	again, previous, err := svc.RecordVisit(ctx, session.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, session.ID, again.ID)
	assert.Equal(t, 1, previous)
	assert.Equal(t, 2, again.NumVisits)
}

func TestRecordVisit_UnknownIDStartsOver(t *testing.T) {
	t.Parallel()
	svc := NewService(testutils.NewDB(t))

	session, previous, err := svc.RecordVisit(context.Background(), "stale-cookie", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, previous)
	assert.NotEqual(t, "stale-cookie", session.ID)
}

func TestVisit_SetsCookie(t *testing.T) {
	t.Parallel()
	svc := NewService(testutils.NewDB(t))
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/catalog/", nil), rec)
	previous, err := svc.Visit(c)
	require.NoError(t, err)
	assert.Equal(t, 0, previous)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/catalog/", nil)
	req.AddCookie(cookies[0])
	c = e.NewContext(req, httptest.NewRecorder())
	previous, err = svc.Visit(c)
	require.NoError(t, err)
	assert.Equal(t, 1, previous)
}
