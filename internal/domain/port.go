package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Represents a known port position used by the proximity estimator.
// Aliases are alternative spellings that resolve to the same anchor.
type PortAnchor struct {
	Name        string      `json:"name" yaml:"name"`
	Aliases     []string    `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Region      string      `json:"region,omitempty" yaml:"region,omitempty"`
	Coordinates Coordinates `json:"coordinates" yaml:",inline"`
}

// NormalizeName folds a free-text port or cargo name for comparison: accents are
// stripped, case is lowered, punctuation becomes a space and runs of spaces
// collapse. "  Paranaguá (BR) " becomes "paranagua br".
func NormalizeName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	space := true
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}
