// Package textmatch implements the token level text comparison used by the
// document comparison engine and the directory fuzzy matcher.
package textmatch

import (
	"sort"
	"strings"
	"unicode"
)

// Tokenize lowercases s and splits it on every non alphanumeric rune. Empty
// tokens are dropped.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokenize(s) {
		set[tok] = struct{}{}
	}
	return set
}

// Similarity returns |common tokens| / |token union| as a 0-100 percentage.
// Two empty texts are considered fully similar.
func Similarity(a, b string) float64 {
	setA, setB := tokenSet(a), tokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 100
	}

	common := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			common++
		}
	}
	union := len(setA) + len(setB) - common
	return 100 * float64(common) / float64(union)
}

// Diff returns the tokens present only in b (added) and only in a (removed),
// sorted for stable output.
func Diff(a, b string) (added, removed []string) {
	setA, setB := tokenSet(a), tokenSet(b)

	for tok := range setB {
		if _, ok := setA[tok]; !ok {
			added = append(added, tok)
		}
	}
	for tok := range setA {
		if _, ok := setB[tok]; !ok {
			removed = append(removed, tok)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

// ModifiedPct is the share of the token union that changed between a and b
func ModifiedPct(a, b string) float64 {
	return 100 - Similarity(a, b)
}
