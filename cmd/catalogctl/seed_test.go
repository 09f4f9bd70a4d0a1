package main

import (
	"context"
	"testing"

	"github.com/lyflibrary/catalog/pkg/bookinstances"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/lyflibrary/catalog/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_WithBorrower(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	patron := testutils.CreateUser(ctx, t, db, "pat", models.RolePatron)

	result, err := seed(ctx, db, patron)
	require.NoError(t, err)
	assert.Equal(t, &seedResult{authors: 3, genres: 4, books: 4, instances: 8}, result)

	onLoan := models.LoanStatusOnLoan
	instances, err := bookinstances.NewService(db).ListInstances(ctx, bookinstances.ListInstancesOptions{
		Status:     &onLoan,
		BorrowerID: &patron.ID,
	})
	require.NoError(t, err)
	require.Len(t, instances, 3)
	assert.True(t, instances[0].IsOverdue(models.DateOf(instances[0].CreatedAt)))
}

func TestSeed_WithoutBorrower(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)

	_, err := seed(ctx, db, nil)
	require.NoError(t, err)

	counts, err := bookinstances.NewService(db).CountByStatus(ctx)
	require.NoError(t, err)
	assert.Zero(t, counts[models.LoanStatusOnLoan])
	assert.Equal(t, 6, counts[models.LoanStatusAvailable])
}
