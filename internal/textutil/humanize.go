package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Humanize turns an identifier such as "apnea_diving" into "Apnea Diving".
// Underscores, hyphens, and dots separate words; other punctuation is dropped.
// It returns fallback when nothing printable remains.
func Humanize(value, fallback string) string {
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range value {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	out := strings.TrimSpace(cleaned.String())
	if out == "" {
		return fallback
	}
	return cases.Title(language.Und).String(out)
}
