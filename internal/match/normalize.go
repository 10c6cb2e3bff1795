// Package match implements the two matching tiers of the duplicate engine:
// a cheap trigram-index candidate generator and a fine-grained 0–100
// similarity scorer. The package is pure computation; it performs no I/O and
// no logging, and every exported function is deterministic and safe for
// concurrent use.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer decomposes to NFKD, strips combining marks (so "José"
// normalizes like "Jose"), and recomposes. Transformers are stateful, so a
// fresh chain is built per call rather than shared.
func foldTransformer() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Normalize canonicalizes a free-text field for matching: diacritics are
// folded, letters lowercased, punctuation and symbols become spaces, and
// whitespace collapses to single spaces. Malformed input degrades to a
// shorter (possibly empty) string, never an error.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if folded, _, err := transform.String(foldTransformer(), s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(' ')
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// tokenSort returns the normalized string with its tokens in sorted order,
// making comparisons insensitive to word order ("smith jon" vs "jon smith").
func tokenSort(normalized string) string {
	fields := strings.Fields(normalized)
	if len(fields) < 2 {
		return normalized
	}
	insertionSort(fields)
	return strings.Join(fields, " ")
}

// insertionSort keeps the hot path allocation-free; token counts here are
// tiny (names, emails), so asymptotics are irrelevant.
func insertionSort(ss []string) {
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && ss[j] < ss[j-1]; j-- {
			ss[j], ss[j-1] = ss[j-1], ss[j]
		}
	}
}

// trigramSet returns the set of rune trigrams of the space-padded normalized
// string. Strings shorter than three runes yield their padded form as a
// single gram so very short names still index.
func trigramSet(normalized string) map[string]struct{} {
	out := make(map[string]struct{})
	if normalized == "" {
		return out
	}
	padded := []rune(" " + normalized + " ")
	if len(padded) < 3 {
		out[string(padded)] = struct{}{}
		return out
	}
	for i := 0; i+3 <= len(padded); i++ {
		out[string(padded[i:i+3])] = struct{}{}
	}
	return out
}
