// Package pagination turns a requested page number into limit/offset and the
// page metadata templates use for previous/next links.
package pagination

import (
	"github.com/lyflibrary/catalog/pkg/errcodes"
)

// Query is embedded in list query params.
type Query struct {
	Page int `query:"page" default:"1" validate:"min=1"`
}

type Page struct {
	Number   int `json:"number"`
	Size     int `json:"size"`
	Total    int `json:"total"`
	NumPages int `json:"num_pages"`
}

// New builds page metadata. Size must be positive.
func New(number, size, total int) Page {
	if number < 1 {
		number = 1
	}
	numPages := (total + size - 1) / size
	if numPages < 1 {
		numPages = 1
	}
	return Page{Number: number, Size: size, Total: total, NumPages: numPages}
}

func (p Page) Limit() int {
	return p.Size
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Check rejects pages past the end. The first page always exists, even for an
// empty list.
func (p Page) Check() error {
	if p.Number > p.NumPages {
		return errcodes.NotFound("Page")
	}
	return nil
}

func (p Page) IsPaginated() bool {
	return p.NumPages > 1
}

func (p Page) HasPrevious() bool {
	return p.Number > 1
}

func (p Page) HasNext() bool {
	return p.Number < p.NumPages
}

func (p Page) PreviousNumber() int {
	return p.Number - 1
}

func (p Page) NextNumber() int {
	return p.Number + 1
}
