package roles

import (
	"context"
	"net/http"
	"testing"

	"github.com/lyflibrary/catalog/pkg/auth"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/lyflibrary/catalog/pkg/testutils"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	e, _ := testutils.NewEcho(t)
	e.Pre(testutils.InjectUser)
	RegisterRoutes(e, db, auth.NewMiddleware(auth.NewService(db, "test-secret")))

	librarian := testutils.CreateUser(ctx, t, db, "lib", models.RoleLibrarian)
	patron := testutils.CreateUser(ctx, t, db, "pat", models.RolePatron)

	rec := testutils.Serve(e, testutils.Request{Target: "/roles", User: patron})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = testutils.Serve(e, testutils.Request{
		Method: http.MethodPost,
		Target: "/roles",
		JSON:   `{"name":"volunteer","capabilities":["catalog:read","bookinstances:mark_returned"]}`,
		User:   librarian,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created RoleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "volunteer", created.Name)
	assert.ElementsMatch(t, []string{"catalog:read", "bookinstances:mark_returned"}, created.Capabilities)

	rec = testutils.Serve(e, testutils.Request{Target: "/roles", User: librarian})
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Roles []RoleResponse `json:"roles"`
		Total int            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 3, list.Total)

	rec = testutils.Serve(e, testutils.Request{Target: "/roles/abc", User: librarian})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
