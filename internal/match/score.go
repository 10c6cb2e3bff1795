package match

import (
	"math"
	"time"

	"github.com/agnivade/levenshtein"
)

// Record is the minimal projection scored and indexed by this package:
// entity id, the primary text field (full name / company name), the secondary
// text field (email / website), and the last-modified timestamp used for
// tie-breaking in callers.
type Record struct {
	ID        string
	Primary   string
	Secondary string
	UpdatedAt time.Time
}

// Weights of the primary and secondary fields when both sides carry a
// secondary value. An exact secondary match (e.g. identical email) also
// floors the score via secondaryExactFloor, so shared emails score strongly
// even when names diverge.
const (
	primaryWeight       = 0.7
	secondaryWeight     = 0.3
	secondaryExactFloor = 0.6
)

// Score rates how likely a and b describe the same real-world entity on a
// 0–100 integer scale. It is pure, deterministic, commutative, and maximal
// for self-comparison: Score(a, a) == 100 for any record with at least one
// non-empty field. Case, punctuation, diacritic, and word-order differences
// are tolerated via Normalize/tokenSort; empty or malformed fields degrade
// the score instead of failing. Two records with both fields empty carry no
// signal and score 0.
func Score(a, b Record) int {
	pa, pb := Normalize(a.Primary), Normalize(b.Primary)
	sa, sb := Normalize(a.Secondary), Normalize(b.Secondary)

	primaryAbsent := pa == "" && pb == ""
	secondaryPresent := sa != "" && sb != ""

	var s float64
	switch {
	case primaryAbsent:
		// Nothing to compare on the primary field on either side; the
		// secondary carries the full weight (0 when it is empty too).
		s = fieldSimilarity(sa, sb)
	case secondaryPresent:
		s = primaryWeight*fieldSimilarity(pa, pb) + secondaryWeight*fieldSimilarity(sa, sb)
	default:
		s = fieldSimilarity(pa, pb)
	}

	// Identical non-empty secondaries are near-conclusive for people and
	// organizations alike, regardless of how mangled the names are.
	if secondaryPresent && sa == sb {
		if floor := secondaryExactFloor + (1-secondaryExactFloor)*fieldSimilarity(pa, pb); floor > s {
			s = floor
		}
	}

	score := int(math.Round(s * 100))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// fieldSimilarity returns the best of the plain and token-sorted Levenshtein
// ratios of two already-normalized strings, in [0,1]. Either side empty
// yields 0: an absent field is no evidence of similarity.
func fieldSimilarity(x, y string) float64 {
	if x == "" || y == "" {
		return 0
	}
	if x == y {
		return 1
	}
	plain := levenshteinRatio(x, y)
	sorted := levenshteinRatio(tokenSort(x), tokenSort(y))
	if sorted > plain {
		return sorted
	}
	return plain
}

// levenshteinRatio converts edit distance into a symmetric similarity ratio:
// 1 - distance/maxRuneLength.
func levenshteinRatio(x, y string) float64 {
	d := levenshtein.ComputeDistance(x, y)
	n := len([]rune(x))
	if m := len([]rune(y)); m > n {
		n = m
	}
	if n == 0 {
		return 1
	}
	r := 1 - float64(d)/float64(n)
	if r < 0 {
		return 0
	}
	return r
}
