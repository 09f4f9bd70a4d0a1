package authors

import (
	"github.com/lyflibrary/catalog/pkg/errcodes"
	"github.com/lyflibrary/catalog/pkg/models"
)

// AuthorPayload is the create and update form. Dates are YYYY-MM-DD or empty.
type AuthorPayload struct {
	FirstName   string `json:"first_name" form:"first_name" mod:"trim" validate:"required,max=100"`
	LastName    string `json:"last_name" form:"last_name" mod:"trim" validate:"required,max=100"`
	DateOfBirth string `json:"date_of_birth" form:"date_of_birth" mod:"trim" validate:"date"`
	DateOfDeath string `json:"date_of_death" form:"date_of_death" mod:"trim" validate:"date"`
}

func payloadFromAuthor(a *models.Author) AuthorPayload {
	return AuthorPayload{
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		DateOfBirth: models.FormatDate(a.DateOfBirth),
		DateOfDeath: models.FormatDate(a.DateOfDeath),
	}
}

// apply copies the payload onto the author. A death date before the birth date
// is stored as given.
func (p AuthorPayload) apply(a *models.Author) error {
	birth, err := models.ParseOptionalDate(p.DateOfBirth)
	if err != nil {
		return errcodes.ValidationError(`"date_of_birth" is not a valid date`)
	}
	death, err := models.ParseOptionalDate(p.DateOfDeath)
	if err != nil {
		return errcodes.ValidationError(`"date_of_death" is not a valid date`)
	}
	a.FirstName = p.FirstName
	a.LastName = p.LastName
	a.DateOfBirth = birth
	a.DateOfDeath = death
	return nil
}
