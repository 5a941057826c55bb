// Package dedupe merges point datasets from multiple providers, dropping
// secondary records that duplicate a nearby primary record with a matching
// name.
package dedupe

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agext/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName lowercases a venue name, strips diacritics, and collapses
// runs of whitespace, so that "Café  MÜLLER" and "cafe muller" compare equal.
func NormalizeName(name string) string {
	out, _, err := transform.String(stripMarks, name)
	if err != nil {
		out = name
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// ratioParams costs a substitution as a delete plus an insert, so the
// distance counts only indels of the optimal alignment.
var ratioParams = levenshtein.NewParams().SubCost(2)

// NameSimilarity scores two venue names on a 0-100 scale after
// normalization, as the indel ratio 100*(lenA+lenB-d)/(lenA+lenB). An
// appended word shortens the score far less than plain edit distance would,
// so "Joes Pizzeria" still matches "Joe's Pizza". 100 means identical.
func NameSimilarity(a, b string) float64 {
	na := NormalizeName(a)
	nb := NormalizeName(b)
	total := utf8.RuneCountInString(na) + utf8.RuneCountInString(nb)
	if total == 0 {
		return 0
	}
	d := levenshtein.Distance(na, nb, ratioParams)
	return 100 * float64(total-d) / float64(total)
}
