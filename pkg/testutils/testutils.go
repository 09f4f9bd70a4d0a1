// Package testutils provides an in-memory database and catalog fixtures for
// package tests.
package testutils

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lyflibrary/catalog/pkg/migrations"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"golang.org/x/crypto/bcrypt"
)

// Password is the plaintext password of every fixture user.
const Password = "correct-horse"

// NewDB returns a migrated in-memory database that is closed when the test
// ends. The pool is capped at one connection so every query sees the same
// in-memory database.
func NewDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// Date parses a YYYY-MM-DD string, failing the test on error.
func Date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

// Clock returns a clock frozen at the given instant.
func Clock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}

// CreateUser inserts an active user with the named role and loads its
// permissions.
func CreateUser(ctx context.Context, t *testing.T, db *bun.DB, username, roleName string) *models.User {
	t.Helper()

	role := new(models.Role)
	err := db.NewSelect().Model(role).Where("name = ?", roleName).Scan(ctx)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		RoleID:       role.ID,
		IsActive:     true,
	}
	_, err = db.NewInsert().Model(user).Exec(ctx)
	require.NoError(t, err)

	err = db.NewSelect().
		Model(user).
		Relation("Role").
		Relation("Role.Permissions").
		WherePK().
		Scan(ctx)
	require.NoError(t, err)

	return user
}

func CreateAuthor(ctx context.Context, t *testing.T, db *bun.DB, first, last string) *models.Author {
	t.Helper()

	author := &models.Author{FirstName: first, LastName: last}
	_, err := db.NewInsert().Model(author).Exec(ctx)
	require.NoError(t, err)
	return author
}

func CreateGenre(ctx context.Context, t *testing.T, db *bun.DB, name string) *models.Genre {
	t.Helper()

	genre := &models.Genre{Name: name}
	_, err := db.NewInsert().Model(genre).Exec(ctx)
	require.NoError(t, err)
	return genre
}

// CreateBook inserts a book by the author and attaches the genres in order.
func CreateBook(ctx context.Context, t *testing.T, db *bun.DB, title string, author *models.Author, genres ...*models.Genre) *models.Book {
	t.Helper()

	book := &models.Book{
		Title:     title,
		SortTitle: title,
		Summary:   "Summary of " + title,
		ISBN:      "9780000000000",
		AuthorID:  author.ID,
	}
	_, err := db.NewInsert().Model(book).Exec(ctx)
	require.NoError(t, err)

	for _, g := range genres {
		bg := &models.BookGenre{BookID: book.ID, GenreID: g.ID}
		_, err = db.NewInsert().Model(bg).Exec(ctx)
		require.NoError(t, err)
		book.BookGenres = append(book.BookGenres, &models.BookGenre{ID: bg.ID, BookID: book.ID, GenreID: g.ID, Genre: g})
	}
	book.Author = author

	return book
}

// CreateInstance inserts a copy of the book. dueBack may be nil.
func CreateInstance(ctx context.Context, t *testing.T, db *bun.DB, book *models.Book, status models.LoanStatus, dueBack *time.Time, borrower *models.User) *models.BookInstance {
	t.Helper()

	instance := &models.BookInstance{
		ID:      uuid.NewString(),
		BookID:  book.ID,
		Imprint: "Test Imprint, 2024",
		DueBack: dueBack,
		Status:  status,
	}
	if borrower != nil {
		instance.BorrowerID = &borrower.ID
	}
	_, err := db.NewInsert().Model(instance).Exec(ctx)
	require.NoError(t, err)
	instance.Book = book

	return instance
}
