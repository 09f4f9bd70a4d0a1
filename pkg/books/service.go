package books

import (
	"context"
	"database/sql"
	"time"

	"github.com/lyflibrary/catalog/pkg/errcodes"
	"github.com/lyflibrary/catalog/pkg/htmlutil"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/lyflibrary/catalog/pkg/sortname"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveBookOptions struct {
	ID *int
	// WithInstances loads the copies of the book.
	WithInstances bool
}

type ListBooksOptions struct {
	Limit    *int
	Offset   *int
	GenreID  *int
	AuthorID *int

	includeTotal bool
}

type UpdateBookOptions struct {
	Columns []string
	// GenreIDs replaces the book's genres when non-nil.
	GenreIDs *[]int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// normalize derives the sort title and strips markup from the summary.
func normalize(book *models.Book) error {
	book.SortTitle = sortname.ForTitle(book.Title)
	book.Summary = htmlutil.StripTags(book.Summary)
	if len([]rune(book.Summary)) > models.BookSummaryMaxLength {
		return errcodes.ValidationError(`"summary" length must be less than or equal to 1000 characters`)
	}
	return nil
}

func checkAuthor(ctx context.Context, db bun.IDB, authorID int) error {
	exists, err := db.NewSelect().
		Model((*models.Author)(nil)).
		Where("id = ?", authorID).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.ValidationError(`"author" must be an existing author`)
	}
	return nil
}

func checkGenres(ctx context.Context, db bun.IDB, genreIDs []int) ([]int, error) {
	unique := make([]int, 0, len(genreIDs))
	seen := make(map[int]bool, len(genreIDs))
	for _, id := range genreIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return unique, nil
	}
	count, err := db.NewSelect().
		Model((*models.Genre)(nil)).
		Where("id IN (?)", bun.In(unique)).
		Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if count != len(unique) {
		return nil, errcodes.ValidationError(`"genre" contains an unknown genre`)
	}
	return unique, nil
}

// setGenres replaces the book's genre links, preserving the given order.
func setGenres(ctx context.Context, tx bun.Tx, bookID int, genreIDs []int) error {
	_, err := tx.NewDelete().
		Model((*models.BookGenre)(nil)).
		Where("book_id = ?", bookID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	for _, genreID := range genreIDs {
		_, err = tx.NewInsert().
			Model(&models.BookGenre{BookID: bookID, GenreID: genreID}).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// CreateBook inserts the book and links its genres in the given order.
func (svc *Service) CreateBook(ctx context.Context, book *models.Book, genreIDs []int) error {
	if err := normalize(book); err != nil {
		return err
	}

	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = book.CreatedAt

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := checkAuthor(ctx, tx, book.AuthorID); err != nil {
			return err
		}
		ids, err := checkGenres(ctx, tx, genreIDs)
		if err != nil {
			return err
		}

		_, err = tx.NewInsert().
			Model(book).
			Returning("*").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		return setGenres(ctx, tx, book.ID, ids)
	})
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := svc.db.
		NewSelect().
		Model(book).
		Relation("Author").
		Relation("BookGenres", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.Order("bg.id ASC")
		}).
		Relation("BookGenres.Genre")

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}
	if opts.WithInstances {
		q = q.Relation("Instances", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.Order("bi.due_back ASC", "bi.id ASC")
		})
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, error) {
	b, _, err := svc.listBooksWithTotal(ctx, opts)
	return b, errors.WithStack(err)
}

func (svc *Service) ListBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	opts.includeTotal = true
	return svc.listBooksWithTotal(ctx, opts)
}

func (svc *Service) listBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	var books []*models.Book
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&books).
		Relation("Author").
		Relation("BookGenres", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.Order("bg.id ASC")
		}).
		Relation("BookGenres.Genre").
		Order("b.sort_title ASC", "b.id ASC")

	if opts.GenreID != nil {
		q = q.Where("b.id IN (SELECT book_id FROM book_genres WHERE genre_id = ?)", *opts.GenreID)
	}
	if opts.AuthorID != nil {
		q = q.Where("b.author_id = ?", *opts.AuthorID)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return books, total, nil
}

func (svc *Service) CountBooks(ctx context.Context) (int, error) {
	count, err := svc.db.NewSelect().Model((*models.Book)(nil)).Count(ctx)
	return count, errors.WithStack(err)
}

func (svc *Service) UpdateBook(ctx context.Context, book *models.Book, opts UpdateBookOptions) error {
	if len(opts.Columns) == 0 && opts.GenreIDs == nil {
		return nil
	}
	if err := normalize(book); err != nil {
		return err
	}

	book.UpdatedAt = time.Now()
	columns := append(opts.Columns, "sort_title", "updated_at")

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := checkAuthor(ctx, tx, book.AuthorID); err != nil {
			return err
		}

		res, err := tx.
			NewUpdate().
			Model(book).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return errors.WithStack(err)
		}
		if n == 0 {
			return errcodes.NotFound("Book")
		}

		if opts.GenreIDs == nil {
			return nil
		}
		ids, err := checkGenres(ctx, tx, *opts.GenreIDs)
		if err != nil {
			return err
		}
		return setGenres(ctx, tx, book.ID, ids)
	})
}

// DeleteBook removes the book together with its genre links and copies.
func (svc *Service) DeleteBook(ctx context.Context, bookID int) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*models.BookInstance)(nil)).
			Where("book_id = ?", bookID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewDelete().
			Model((*models.BookGenre)(nil)).
			Where("book_id = ?", bookID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		res, err := tx.NewDelete().
			Model((*models.Book)(nil)).
			Where("id = ?", bookID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return errors.WithStack(err)
		}
		if n == 0 {
			return errcodes.NotFound("Book")
		}
		return nil
	})
}
