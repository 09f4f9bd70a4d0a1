package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// displayGenreLimit caps how many genre names DisplayGenre includes.
const displayGenreLimit = 3

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID         int             `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Title      string          `bun:",nullzero" json:"title"`
	SortTitle  string          `bun:",notnull" json:"sort_title"`
	Summary    string          `bun:",notnull" json:"summary"`
	ISBN       string          `bun:"isbn,notnull" json:"isbn"`
	AuthorID   int             `bun:",nullzero" json:"author_id"`
	Author     *Author         `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
	BookGenres []*BookGenre    `bun:"rel:has-many,join:id=book_id" json:"book_genres,omitempty"`
	Instances  []*BookInstance `bun:"rel:has-many,join:id=book_id" json:"instances,omitempty"`
}

func (b *Book) String() string {
	return b.Title
}

func (b *Book) AbsoluteURL() string {
	return "/catalog/book/" + strconv.Itoa(b.ID)
}

// Genres returns the loaded genres in stored order.
func (b *Book) Genres() []*Genre {
	genres := make([]*Genre, 0, len(b.BookGenres))
	for _, bg := range b.BookGenres {
		if bg.Genre != nil {
			genres = append(genres, bg.Genre)
		}
	}
	return genres
}

// DisplayGenre joins the names of the first three genres with ", ".
func (b *Book) DisplayGenre() string {
	genres := b.Genres()
	if len(genres) > displayGenreLimit {
		genres = genres[:displayGenreLimit]
	}
	names := make([]string, len(genres))
	for i, g := range genres {
		names[i] = g.Name
	}
	return strings.Join(names, ", ")
}
