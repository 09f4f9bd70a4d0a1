package bookinstances

import (
	"context"
	"testing"

	"github.com/lyflibrary/catalog/pkg/errcodes"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/lyflibrary/catalog/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInstance_DefaultsToMaintenance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)
	book := testutils.CreateBook(ctx, t, db, "Dune", testutils.CreateAuthor(ctx, t, db, "Frank", "Herbert"))

	instance := &models.BookInstance{BookID: book.ID, Imprint: "Chilton, 1965"}
	require.NoError(t, svc.CreateInstance(ctx, instance))

	assert.Len(t, instance.ID, 36)
	assert.Equal(t, models.LoanStatusMaintenance, instance.Status)

	got, err := svc.RetrieveInstance(ctx, RetrieveInstanceOptions{ID: &instance.ID})
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Book.Title)
	assert.Equal(t, instance.ID+" (Dune)", got.String())
}

func TestCreateInstance_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)
	book := testutils.CreateBook(ctx, t, db, "Dune", testutils.CreateAuthor(ctx, t, db, "Frank", "Herbert"))

	err := svc.CreateInstance(ctx, &models.BookInstance{BookID: book.ID, Imprint: "x", Status: "z"})
	_, ok := errcodes.ValidationMessage(err)
	assert.True(t, ok)

	err = svc.CreateInstance(ctx, &models.BookInstance{BookID: book.ID + 100, Imprint: "x"})
	msg, ok := errcodes.ValidationMessage(err)
	assert.True(t, ok)
	assert.Contains(t, msg, "book")
}

func TestRetrieveInstance_NotFound(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	svc := NewService(db)

	id := "00000000-0000-0000-0000-000000000000"
	_, err := svc.RetrieveInstance(context.Background(), RetrieveInstanceOptions{ID: &id})
	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, 404, codeErr.HTTPCode)
}

func TestListInstances_OnLoanOrderedByDueDate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)
	book := testutils.CreateBook(ctx, t, db, "Dune", testutils.CreateAuthor(ctx, t, db, "Frank", "Herbert"))
	patron := testutils.CreateUser(ctx, t, db, "pat", models.RolePatron)

	late := testutils.Date(t, "2024-03-01")
	early := testutils.Date(t, "2024-01-15")
	second := testutils.CreateInstance(ctx, t, db, book, models.LoanStatusOnLoan, &late, patron)
	first := testutils.CreateInstance(ctx, t, db, book, models.LoanStatusOnLoan, &early, patron)
	testutils.CreateInstance(ctx, t, db, book, models.LoanStatusAvailable, nil, nil)

	onLoan := models.LoanStatusOnLoan
	instances, total, err := svc.ListInstancesWithTotal(ctx, ListInstancesOptions{Status: &onLoan})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, instances, 2)
	assert.Equal(t, first.ID, instances[0].ID)
	assert.Equal(t, second.ID, instances[1].ID)
	assert.Equal(t, "pat", instances[0].Borrower.Username)
}

func TestCountInstances(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)
	book := testutils.CreateBook(ctx, t, db, "Dune", testutils.CreateAuthor(ctx, t, db, "Frank", "Herbert"))
	patron := testutils.CreateUser(ctx, t, db, "pat", models.RolePatron)

	past := testutils.Date(t, "2023-12-01")
	future := testutils.Date(t, "2024-02-01")
	testutils.CreateInstance(ctx, t, db, book, models.LoanStatusOnLoan, &past, patron)
	testutils.CreateInstance(ctx, t, db, book, models.LoanStatusOnLoan, &future, patron)
	testutils.CreateInstance(ctx, t, db, book, models.LoanStatusAvailable, nil, nil)

	available := models.LoanStatusAvailable
	n, err := svc.CountInstances(ctx, CountInstancesOptions{Status: &available})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	today := testutils.Date(t, "2024-01-01")
	n, err = svc.CountInstances(ctx, CountInstancesOptions{DueBefore: &today})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	counts, err := svc.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[models.LoanStatus]int{
		models.LoanStatusMaintenance: 0,
		models.LoanStatusOnLoan:      2,
		models.LoanStatusAvailable:   1,
		models.LoanStatusReserved:    0,
	}, counts)
}

func TestLendAndReturn(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)
	book := testutils.CreateBook(ctx, t, db, "Dune", testutils.CreateAuthor(ctx, t, db, "Frank", "Herbert"))
	patron := testutils.CreateUser(ctx, t, db, "pat", models.RolePatron)
	instance := testutils.CreateInstance(ctx, t, db, book, models.LoanStatusAvailable, nil, nil)

	due := testutils.Date(t, "2024-01-22")
	lent, err := svc.Lend(ctx, instance.ID, patron.ID, due)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusOnLoan, lent.Status)
	require.NotNil(t, lent.BorrowerID)
	assert.Equal(t, patron.ID, *lent.BorrowerID)
	assert.Equal(t, "2024-01-22", models.FormatDate(lent.DueBack))

	_, err = svc.Lend(ctx, instance.ID, patron.ID, due)
	_, ok := errcodes.ValidationMessage(err)
	assert.True(t, ok, "a copy on loan can't be lent again")

	returned, err := svc.Return(ctx, instance.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusAvailable, returned.Status)
	assert.Nil(t, returned.BorrowerID)
	assert.Nil(t, returned.DueBack)

	_, err = svc.Return(ctx, instance.ID)
	_, ok = errcodes.ValidationMessage(err)
	assert.True(t, ok)
}

func TestReturn_UnknownInstance(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	svc := NewService(db)

	_, err := svc.Return(context.Background(), "missing")
	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, 404, codeErr.HTTPCode)
}

func TestUpdateInstance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)
	book := testutils.CreateBook(ctx, t, db, "Dune", testutils.CreateAuthor(ctx, t, db, "Frank", "Herbert"))
	instance := testutils.CreateInstance(ctx, t, db, book, models.LoanStatusAvailable, nil, nil)

	columns := make([]string, 1, 4)
	columns[0] = "imprint"
	instance.Imprint = "Ace, 1990"
	require.NoError(t, svc.UpdateInstance(ctx, instance, UpdateInstanceOptions{Columns: columns}))
	assert.Equal(t, []string{"imprint", ""}, columns[:2], "the caller's backing array is not written to")

	got, err := svc.RetrieveInstance(ctx, RetrieveInstanceOptions{ID: &instance.ID})
	require.NoError(t, err)
	assert.Equal(t, "Ace, 1990", got.Imprint)

	missing := *instance
	missing.ID = "00000000-0000-0000-0000-000000000000"
	err = svc.UpdateInstance(ctx, &missing, UpdateInstanceOptions{Columns: []string{"imprint"}})
	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, 404, codeErr.HTTPCode)
}
