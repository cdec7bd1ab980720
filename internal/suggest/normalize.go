package suggest

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var lowerES = cases.Lower(language.Spanish)

// fold lowercases s, strips diacritics and collapses every non-alphanumeric run
// into a single space. The result is padded with spaces so phrase lookups can
// match on word boundaries with a plain substring search.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, lowerES.String(s))
	if err != nil {
		stripped = strings.ToLower(s)
	}

	var b strings.Builder
	b.Grow(len(stripped) + 2)
	b.WriteByte(' ')
	space := true
	for _, r := range stripped {
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
	if !space {
		b.WriteByte(' ')
	}
	return b.String()
}

// hasPhrase reports whether the folded text contains phrase as whole words.
func hasPhrase(folded, phrase string) bool {
	return strings.Contains(folded, fold(phrase))
}

// matchPhrases returns the phrases found in folded, dropping any match that is
// part of a longer matched phrase ("mañana" inside "pasado mañana").
func matchPhrases(folded string, phrases []string) []string {
	var hits []string
	for _, p := range phrases {
		if hasPhrase(folded, p) {
			hits = append(hits, p)
		}
	}
	var out []string
	for _, h := range hits {
		shadowed := false
		for _, other := range hits {
			if other != h && strings.Contains(fold(other), fold(h)) {
				shadowed = true
				break
			}
		}
		if !shadowed {
			out = append(out, h)
		}
	}
	return out
}

func joinText(title, description string) string {
	if description == "" {
		return title
	}
	return title + " " + description
}
