package renewal

import (
	"testing"
	"time"

	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_Validate(t *testing.T) {
	t.Parallel()
	today := time.Date(2024, 1, 1, 9, 45, 0, 0, time.UTC)

	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{"yesterday", "2023-12-31", "Invalid date - renewal in past"},
		{"today", "2024-01-01", ""},
		{"three weeks", "2024-01-22", ""},
		{"four weeks exactly", "2024-01-29", ""},
		{"one day past four weeks", "2024-01-30", "Invalid date - renewal more than 4 weeks ahead"},
		{"empty", "", MessageRequired},
		{"blank", "   ", MessageRequired},
		{"garbage", "next tuesday", MessageInvalidDate},
		{"impossible day", "2024-02-30", MessageInvalidDate},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			date, err := DefaultPolicy.Validate(tt.raw, today)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.raw, date.Format(models.DateLayout))
				return
			}
			var fieldErr *FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, FieldName, fieldErr.Field)
			assert.Equal(t, tt.wantErr, fieldErr.Message)
		})
	}
}

func TestPolicy_Default(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC), DefaultPolicy.Default(today))
	assert.Equal(t, "Enter a date between now and 4 weeks (default 3).", DefaultPolicy.HelpText())
}

func TestPolicy_DefaultAlwaysValid(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)
	_, err := DefaultPolicy.Validate(DefaultPolicy.Default(today).Format(models.DateLayout), today)
	assert.NoError(t, err)
}
