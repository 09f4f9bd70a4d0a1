package users

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/lyflibrary/catalog/pkg/auth"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/lyflibrary/catalog/pkg/testutils"
	"github.com/stretchr/testify/assert"
)

func TestRoutes_RequireUsersRead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	librarian := testutils.CreateUser(ctx, t, db, "lib", models.RoleLibrarian)
	patron := testutils.CreateUser(ctx, t, db, "pat", models.RolePatron)

	e, _ := testutils.NewEcho(t)
	e.Pre(testutils.InjectUser)
	RegisterRoutes(e, db, auth.NewMiddleware(auth.NewService(db, "test-secret")))

	rec := testutils.Serve(e, testutils.Request{Target: "/users?role=patron", User: librarian})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"pat"`)
	assert.NotContains(t, rec.Body.String(), `"password_hash"`)

	rec = testutils.Serve(e, testutils.Request{Target: "/users/" + strconv.Itoa(patron.ID), User: librarian})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = testutils.Serve(e, testutils.Request{Target: "/users/abc", User: librarian})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = testutils.Serve(e, testutils.Request{Target: "/users", User: patron})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
