package authors

import (
	"context"
	"testing"

	"github.com/lyflibrary/catalog/pkg/errcodes"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/lyflibrary/catalog/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int {
	return &i
}

func TestListAuthors_OrderedByName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)

	testutils.CreateAuthor(ctx, t, db, "Terry", "Pratchett")
	testutils.CreateAuthor(ctx, t, db, "Iain", "Banks")
	testutils.CreateAuthor(ctx, t, db, "Anne", "Banks")

	authors, total, err := svc.ListAuthorsWithTotal(ctx, ListAuthorsOptions{Limit: intPtr(2), Offset: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, authors, 2)
	assert.Equal(t, "Banks, Anne", authors[0].String())
	assert.Equal(t, "Banks, Iain", authors[1].String())

	count, err := svc.CountAuthors(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRetrieveAuthor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)

	author := testutils.CreateAuthor(ctx, t, db, "Ursula", "Le Guin")
	testutils.CreateBook(ctx, t, db, "Tehanu", author)
	testutils.CreateBook(ctx, t, db, "Lavinia", author)

	got, err := svc.RetrieveAuthor(ctx, RetrieveAuthorOptions{ID: &author.ID, WithBooks: true})
	require.NoError(t, err)
	require.Len(t, got.Books, 2)
	assert.Equal(t, "Lavinia", got.Books[0].Title)

	_, err = svc.RetrieveAuthor(ctx, RetrieveAuthorOptions{ID: intPtr(999)})
	assert.ErrorIs(t, err, errcodes.NotFound("Author"))
}

func TestUpdateAuthor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)

	author := testutils.CreateAuthor(ctx, t, db, "Ursula", "LeGuin")
	author.LastName = "Le Guin"
	death := testutils.Date(t, "2018-01-22")
	author.DateOfDeath = &death
	require.NoError(t, svc.UpdateAuthor(ctx, author, UpdateAuthorOptions{Columns: []string{"last_name", "date_of_death"}}))

	got, err := svc.RetrieveAuthor(ctx, RetrieveAuthorOptions{ID: &author.ID})
	require.NoError(t, err)
	assert.Equal(t, "Le Guin", got.LastName)
	require.NotNil(t, got.DateOfDeath)
	assert.Equal(t, "2018-01-22", models.FormatDate(got.DateOfDeath))

	missing := &models.Author{ID: 999}
	err = svc.UpdateAuthor(ctx, missing, UpdateAuthorOptions{Columns: []string{"last_name"}})
	assert.ErrorIs(t, err, errcodes.NotFound("Author"))
}

func TestDeleteAuthor_BlockedWhileBooksExist(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)

	author := testutils.CreateAuthor(ctx, t, db, "Frank", "Herbert")
	testutils.CreateBook(ctx, t, db, "Dune", author)

	err := svc.DeleteAuthor(ctx, author.ID)
	assert.ErrorIs(t, err, errcodes.InUse("Author", "books"))
	_, err = svc.RetrieveAuthor(ctx, RetrieveAuthorOptions{ID: &author.ID})
	require.NoError(t, err)

	lonely := testutils.CreateAuthor(ctx, t, db, "No", "Books")
	require.NoError(t, svc.DeleteAuthor(ctx, lonely.ID))
	_, err = svc.RetrieveAuthor(ctx, RetrieveAuthorOptions{ID: &lonely.ID})
	assert.ErrorIs(t, err, errcodes.NotFound("Author"))

	assert.ErrorIs(t, svc.DeleteAuthor(ctx, lonely.ID), errcodes.NotFound("Author"))
}
