package roles

import (
	"context"
	"testing"

	"github.com/lyflibrary/catalog/pkg/errcodes"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/lyflibrary/catalog/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_GrantsCapabilities(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := NewService(testutils.NewDB(t))

	role, err := svc.Create(ctx, "volunteer", []string{models.CapabilityCatalogRead, models.CapabilityMarkReturned, models.CapabilityCatalogRead})
	require.NoError(t, err)
	assert.False(t, role.IsSystem)
	assert.Len(t, role.Permissions, 2)
	assert.True(t, role.HasCapability(models.CapabilityMarkReturned))
	assert.False(t, role.HasCapability(models.CapabilityCatalogWrite))
}

func TestCreate_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := NewService(testutils.NewDB(t))

	_, err := svc.Create(ctx, "volunteer", []string{"catalog:delete"})
	msg, ok := errcodes.ValidationMessage(err)
	require.True(t, ok)
	assert.Equal(t, "Unknown capability catalog:delete", msg)

	_, err = svc.Create(ctx, "Librarian", nil)
	msg, ok = errcodes.ValidationMessage(err)
	require.True(t, ok)
	assert.Equal(t, "Role name already exists", msg)

	_, total, err := svc.List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, total, "failed creates leave nothing behind")
}

func TestUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)

	role, err := svc.Create(ctx, "volunteer", []string{models.CapabilityCatalogRead})
	require.NoError(t, err)

	name := "helper"
	caps := []string{models.CapabilityMarkReturned}
	role, err = svc.Update(ctx, role.ID, &name, &caps)
	require.NoError(t, err)
	assert.Equal(t, "helper", role.Name)
	require.Len(t, role.Permissions, 1)
	assert.Equal(t, models.CapabilityMarkReturned, role.Permissions[0].Capability())

	roles, _, err := svc.List(ctx, ListOptions{})
	require.NoError(t, err)
	var librarianID int
	for _, r := range roles {
		if r.Name == models.RoleLibrarian {
			librarianID = r.ID
		}
	}
	rename := "staff"
	_, err = svc.Update(ctx, librarianID, &rename, nil)
	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, 403, codeErr.HTTPCode)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)

	role, err := svc.Create(ctx, "volunteer", []string{models.CapabilityCatalogRead})
	require.NoError(t, err)
	user := testutils.CreateUser(ctx, t, db, "vol", "volunteer")

	err = svc.Delete(ctx, role.ID)
	msg, ok := errcodes.ValidationMessage(err)
	require.True(t, ok)
	assert.Equal(t, "Role can't be deleted while it has users.", msg)

	_, err = db.NewDelete().Model(user).WherePK().Exec(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, role.ID))

	_, err = svc.Retrieve(ctx, role.ID)
	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, 404, codeErr.HTTPCode)
}
