// Package isbn normalizes and checks ISBN-10 and ISBN-13 values.
package isbn

import (
	"strings"
	"unicode"
)

// Normalize drops an "ISBN" prefix, hyphens, and spaces. A lowercase x
// check digit is upper-cased.
func Normalize(value string) string {
	value = strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(value)), "ISBN:")
	value = strings.TrimPrefix(value, "ISBN")

	var b strings.Builder
	for _, r := range value {
		if unicode.IsDigit(r) || r == 'X' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Valid10 checks an ISBN-10 checksum (mod 11, weights 10 down to 1). X is
// only allowed as the check digit.
func Valid10(isbn string) bool {
	if len(isbn) != 10 {
		return false
	}

	var sum int
	for i, r := range isbn {
		var digit int
		switch {
		case r == 'X' && i == 9:
			digit = 10
		case r >= '0' && r <= '9':
			digit = int(r - '0')
		default:
			return false
		}
		sum += digit * (10 - i)
	}
	return sum%11 == 0
}

// Valid13 checks an ISBN-13 checksum (mod 10, alternating weights 1 and 3).
func Valid13(isbn string) bool {
	if len(isbn) != 13 {
		return false
	}
	return checkDigit13(isbn[:12]) == isbn[12]
}

func checkDigit13(first12 string) byte {
	var sum int
	for i, r := range first12 {
		if r < '0' || r > '9' {
			return 0
		}
		digit := int(r - '0')
		if i%2 == 0 {
			sum += digit
		} else {
			sum += digit * 3
		}
	}
	return byte('0' + (10-sum%10)%10)
}

// To13 converts a valid ISBN-10 to its 978-prefixed ISBN-13 form. Anything
// else is returned unchanged.
func To13(isbn string) string {
	if !Valid10(isbn) {
		return isbn
	}
	first12 := "978" + isbn[:9]
	return first12 + string(checkDigit13(first12))
}

// Canonical normalizes the value and upgrades ISBN-10s to ISBN-13.
func Canonical(value string) string {
	return To13(Normalize(value))
}
