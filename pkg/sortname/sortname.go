// Package sortname builds library-style sort keys for book titles.
package sortname

import (
	"strings"
	"unicode"
)

// Articles are moved from the front of a title to the end.
var Articles = []string{"The", "A", "An"}

// ForTitle moves a leading article to the end of the title so that lists
// ordered by the result file "The Hobbit" under H.
//
//	"The Hobbit"           -> "Hobbit, The"
//	"An American Tragedy"  -> "American Tragedy, An"
//	"Lord of the Rings"    -> "Lord of the Rings"
func ForTitle(title string) string {
	title = strings.Join(strings.Fields(title), " ")
	first, rest, ok := strings.Cut(title, " ")
	if !ok || rest == "" {
		return title
	}
	for _, article := range Articles {
		if strings.EqualFold(first, article) {
			return rest + ", " + first
		}
	}
	return title
}

// Key lowercases the sort title and drops leading punctuation so that quoted
// or bracketed titles sort by their first letter.
func Key(title string) string {
	sorted := ForTitle(title)
	sorted = strings.TrimLeftFunc(sorted, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.ToLower(sorted)
}
