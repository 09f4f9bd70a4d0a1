package isbn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "9780316769488", Normalize("978-0-316-76948-8"))
	assert.Equal(t, "080442957X", Normalize("ISBN: 0-8044-2957-x"))
	assert.Equal(t, "9780441172719", Normalize(" isbn 978 0441 172719 "))
}

func TestValid10(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value    string
		expected bool
	}{
		{"0316769487", true},
		{"080442957X", true},
		{"0441172717", true},
		{"0316769488", false},
		{"X316769487", false},
		{"031676948", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Valid10(tt.value), tt.value)
	}
}

func TestValid13(t *testing.T) {
	t.Parallel()

	assert.True(t, Valid13("9780316769488"))
	assert.True(t, Valid13("9780441172719"))
	assert.False(t, Valid13("9780316769489"))
	assert.False(t, Valid13("978031676948X"))
	assert.False(t, Valid13("978031676948"))
}

func TestCanonical(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "9780441172719", Canonical("0-441-17271-7"))
	assert.Equal(t, "9780316769488", Canonical("0316769487"))
	assert.Equal(t, "9780441172719", Canonical("978-0-441-17271-9"))
	// Invalid ISBN-10s are left alone so the length check reports them.
	assert.Equal(t, "0316769488", Canonical("0316769488"))
}
