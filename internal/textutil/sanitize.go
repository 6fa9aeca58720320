package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SanitizeToken turns a label into a lowercase ASCII token for file names:
// accents are folded ("Léman" becomes "leman"), digits and hyphens are kept,
// and every other run of characters collapses to one underscore. Empty
// results become "unknown".
func SanitizeToken(value string) string {
	folded, _, err := transform.String(accentFolder(), strings.TrimSpace(value))
	if err != nil {
		folded = value
	}

	var b strings.Builder
	pendingSep := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
		case r >= 'A' && r <= 'Z':
			r = unicode.ToLower(r)
		default:
			pendingSep = true
			continue
		}
		if pendingSep && b.Len() > 0 {
			b.WriteByte('_')
		}
		pendingSep = false
		b.WriteRune(r)
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "unknown"
	}
	return out
}

func accentFolder() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
