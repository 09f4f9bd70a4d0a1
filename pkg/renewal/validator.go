package renewal

import (
	"fmt"
	"strings"
	"time"

	"github.com/lyflibrary/catalog/pkg/models"
)

const (
	FieldName = "renewal_date"

	MessageRequired    = "This field is required."
	MessageInvalidDate = "Enter a valid date."
)

// FieldError is a validation failure attached to the renewal date field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// Policy bounds the renewal window. Dates from today up to and including
// MaxWeeks ahead are accepted.
type Policy struct {
	DefaultWeeks int
	MaxWeeks     int
}

// DefaultPolicy suggests three weeks and allows up to four.
var DefaultPolicy = Policy{DefaultWeeks: 3, MaxWeeks: 4}

// Default is the date the form is pre-filled with.
func (p Policy) Default(today time.Time) time.Time {
	return models.DateOf(today).AddDate(0, 0, 7*p.DefaultWeeks)
}

// Latest is the last date a renewal may be set to.
func (p Policy) Latest(today time.Time) time.Time {
	return models.DateOf(today).AddDate(0, 0, 7*p.MaxWeeks)
}

func (p Policy) HelpText() string {
	return fmt.Sprintf("Enter a date between now and %d weeks (default %d).", p.MaxWeeks, p.DefaultWeeks)
}

func (p Policy) tooFarMessage() string {
	return fmt.Sprintf("Invalid date - renewal more than %d weeks ahead", p.MaxWeeks)
}

// Validate parses a submitted YYYY-MM-DD date and checks it against the
// window starting at today. Both ends are inclusive.
func (p Policy) Validate(raw string, today time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, &FieldError{Field: FieldName, Message: MessageRequired}
	}
	date, err := models.ParseDate(raw)
	if err != nil {
		return time.Time{}, &FieldError{Field: FieldName, Message: MessageInvalidDate}
	}

	today = models.DateOf(today)
	if date.Before(today) {
		return time.Time{}, &FieldError{Field: FieldName, Message: "Invalid date - renewal in past"}
	}
	if date.After(p.Latest(today)) {
		return time.Time{}, &FieldError{Field: FieldName, Message: p.tooFarMessage()}
	}
	return date, nil
}
