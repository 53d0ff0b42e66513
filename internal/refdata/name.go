package refdata

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var lower = cases.Lower(language.Und)

// FormatName turns an ingredient name into its storage key: NFC
// normalized, lowercased, every space and hyphen replaced by an
// underscore. Accents are kept, so "Hallertauer Mittelfrüh" maps to
// the file hallertauer_mittelfrüh.json.
func FormatName(name string) string {
	key := lower.String(norm.NFC.String(strings.TrimSpace(name)))
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return '_'
		}
		return r
	}, key)
}
