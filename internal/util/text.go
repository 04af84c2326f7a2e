package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reSpaces     = regexp.MustCompile(`\s+`)
	stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// FoldSearch lowercases, strips accents and collapses whitespace so that
// "Café  con Leche" and "cafe con leche" compare equal.
func FoldSearch(input string) string {
	s := strings.ToLower(input)
	if folded, _, err := transform.String(stripAccents, s); err == nil {
		s = folded
	}
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Tokenize splits folded input into words of at least two runes.
func Tokenize(input string) []string {
	parts := strings.Split(FoldSearch(input), " ")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if len([]rune(p)) >= 2 {
			out = append(out, p)
		}
	}
	return out
}
