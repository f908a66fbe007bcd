package sentiment

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize produces the exact string fed to the model: accents stripped, only ASCII letters,
// digits and whitespace kept, lowercased, trimmed and with whitespace runs collapsed.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	unaccented, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.M))), raw)
	if err != nil {
		// transform only fails on invalid state; decompose without mark removal instead
		unaccented = norm.NFD.String(raw)
	}

	var b strings.Builder
	b.Grow(len(unaccented))
	for i := 0; i < len(unaccented); i++ {
		c := unaccented[i]
		if isASCIIAlnum(c) || isASCIISpace(c) {
			b.WriteByte(c)
		}
	}

	return strings.Join(strings.Fields(strings.ToLower(b.String())), " ")
}

func isASCIIAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isASCIISpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
