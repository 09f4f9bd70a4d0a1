package main

import (
	"context"
	"time"

	"github.com/lyflibrary/catalog/pkg/authors"
	"github.com/lyflibrary/catalog/pkg/bookinstances"
	"github.com/lyflibrary/catalog/pkg/books"
	"github.com/lyflibrary/catalog/pkg/genres"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/uptrace/bun"
)

type seedBook struct {
	title   string
	summary string
	isbn    string
	genres  []string
	copies  []models.LoanStatus
}

type seedAuthor struct {
	first, last string
	born, died  string
	books       []seedBook
}

var demoCatalog = []seedAuthor{
	{
		first: "Ursula", last: "Le Guin", born: "1929-10-21", died: "2018-01-22",
		books: []seedBook{
			{
				title:   "The Dispossessed",
				summary: "A physicist travels from an anarchist moon to its capitalist parent planet.",
				isbn:    "9780061054884",
				genres:  []string{"Science Fiction"},
				copies:  []models.LoanStatus{models.LoanStatusAvailable, models.LoanStatusOnLoan},
			},
			{
				title:   "A Wizard of Earthsea",
				summary: "A young mage unleashes a shadow and must hunt it across the archipelago.",
				isbn:    "9780547773742",
				genres:  []string{"Fantasy"},
				copies:  []models.LoanStatus{models.LoanStatusOnLoan, models.LoanStatusMaintenance},
			},
		},
	},
	{
		first: "Frank", last: "Herbert", born: "1920-10-08", died: "1986-02-11",
		books: []seedBook{
			{
				title:   "Dune",
				summary: "A noble family takes stewardship of the desert planet Arrakis.",
				isbn:    "9780441172719",
				genres:  []string{"Science Fiction", "Adventure"},
				copies:  []models.LoanStatus{models.LoanStatusAvailable, models.LoanStatusReserved, models.LoanStatusOnLoan},
			},
		},
	},
	{
		first: "Mary", last: "Shelley", born: "1797-08-30", died: "1851-02-01",
		books: []seedBook{
			{
				title:   "Frankenstein",
				summary: "A scientist creates a living being and abandons it.",
				isbn:    "9780141439471",
				genres:  []string{"Horror", "Science Fiction"},
				copies:  []models.LoanStatus{models.LoanStatusAvailable},
			},
		},
	},
}

type seedResult struct {
	authors, genres, books, instances int
}

// seed loads demoCatalog. On-loan copies need a borrower; without one they
// are stored as available instead. Loans are spread so that one of them is
// already overdue.
func seed(ctx context.Context, db *bun.DB, borrower *models.User) (*seedResult, error) {
	authorService := authors.NewService(db)
	genreService := genres.NewService(db)
	bookService := books.NewService(db)
	instanceService := bookinstances.NewService(db)

	result := &seedResult{}
	seenGenres := map[string]int{}
	today := models.DateOf(time.Now())
	loans := 0

	for _, sa := range demoCatalog {
		born, err := models.ParseOptionalDate(sa.born)
		if err != nil {
			return nil, err
		}
		died, err := models.ParseOptionalDate(sa.died)
		if err != nil {
			return nil, err
		}
		author := &models.Author{FirstName: sa.first, LastName: sa.last, DateOfBirth: born, DateOfDeath: died}
		if err := authorService.CreateAuthor(ctx, author); err != nil {
			return nil, err
		}
		result.authors++

		for _, sb := range sa.books {
			genreIDs := make([]int, 0, len(sb.genres))
			for _, name := range sb.genres {
				id, ok := seenGenres[name]
				if !ok {
					genre, err := genreService.FindOrCreateGenre(ctx, name)
					if err != nil {
						return nil, err
					}
					id = genre.ID
					seenGenres[name] = id
				}
				genreIDs = append(genreIDs, id)
			}

			book := &models.Book{Title: sb.title, Summary: sb.summary, ISBN: sb.isbn, AuthorID: author.ID}
			if err := bookService.CreateBook(ctx, book, genreIDs); err != nil {
				return nil, err
			}
			result.books++

			for _, status := range sb.copies {
				instance := &models.BookInstance{BookID: book.ID, Imprint: "Demo Press, 2024", Status: status}
				if status == models.LoanStatusOnLoan {
					if borrower == nil {
						instance.Status = models.LoanStatusAvailable
					} else {
						due := today.AddDate(0, 0, 7*loans-3)
						instance.DueBack = &due
						instance.BorrowerID = &borrower.ID
						loans++
					}
				}
				if err := instanceService.CreateInstance(ctx, instance); err != nil {
					return nil, err
				}
				result.instances++
			}
		}
	}
	result.genres = len(seenGenres)

	return result, nil
}
