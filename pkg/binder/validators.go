package binder

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/lyflibrary/catalog/pkg/models"
)

var (
	dateRE = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])$`)
)

// dateValidator accepts YYYY-MM-DD or the empty string. The empty string clears
// optional dates; pair it with `required` when the value must be set.
func dateValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return dateRE.MatchString(value)
}

// loanStatusValidator accepts the single-character loan status codes.
func loanStatusValidator(fl validator.FieldLevel) bool {
	return models.LoanStatus(fl.Field().String()).Valid()
}
