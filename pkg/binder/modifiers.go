package binder

import (
	"context"
	"reflect"

	"github.com/go-playground/mold/v4"
	"github.com/lyflibrary/catalog/pkg/isbn"
)

// isbnModifier strips separators and upgrades ISBN-10 values to ISBN-13.
func isbnModifier(_ context.Context, fl mold.FieldLevel) error {
	field := fl.Field()
	if field.Kind() != reflect.String || !field.CanSet() {
		return nil
	}
	field.SetString(isbn.Canonical(field.String()))
	return nil
}
