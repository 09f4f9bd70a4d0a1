package catalog

import (
	"context"
	"testing"

	"github.com/lyflibrary/catalog/pkg/metrics"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/lyflibrary/catalog/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ metrics.Collector = (*Service)(nil)

func TestCountOverdue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)

	book := testutils.CreateBook(ctx, t, db, "Dune", testutils.CreateAuthor(ctx, t, db, "Frank", "Herbert"))
	patron := testutils.CreateUser(ctx, t, db, "pat", models.RolePatron)
	yesterday := testutils.Date(t, "2023-12-31")
	today := testutils.Date(t, "2024-01-01")
	testutils.CreateInstance(ctx, t, db, book, models.LoanStatusOnLoan, &yesterday, patron)
	testutils.CreateInstance(ctx, t, db, book, models.LoanStatusOnLoan, &today, patron)
	testutils.CreateInstance(ctx, t, db, book, models.LoanStatusReserved, &yesterday, nil)

	n, err := svc.CountOverdue(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
