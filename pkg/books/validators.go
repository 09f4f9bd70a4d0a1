package books

import (
	"github.com/lyflibrary/catalog/pkg/models"
)

// BookPayload is the create and update form. Genre holds genre ids in the
// order they should be displayed.
type BookPayload struct {
	Title    string `json:"title" form:"title" mod:"trim" validate:"required,max=200"`
	AuthorID int    `json:"author" form:"author" validate:"required,min=1"`
	Summary  string `json:"summary" form:"summary" mod:"trim" validate:"max=1000"`
	ISBN     string `json:"isbn" form:"isbn" mod:"trim,isbn" validate:"required,len=13"`
	Genre    []int  `json:"genre" form:"genre" validate:"dive,min=1"`
}

func payloadFromBook(b *models.Book) BookPayload {
	p := BookPayload{
		Title:    b.Title,
		AuthorID: b.AuthorID,
		Summary:  b.Summary,
		ISBN:     b.ISBN,
	}
	for _, g := range b.Genres() {
		p.Genre = append(p.Genre, g.ID)
	}
	return p
}

func (p BookPayload) apply(b *models.Book) {
	b.Title = p.Title
	b.AuthorID = p.AuthorID
	b.Summary = p.Summary
	b.ISBN = p.ISBN
}
