// Package distance implements the string-distance predicates used to decide
// whether a document word satisfies a subscription keyword.
package distance

import (
	"fmt"
)

// Metric selects the distance family of a subscription.
type Metric int

const (
	Exact Metric = iota
	Hamming
	Edit
)

func (m Metric) String() string {
	switch m {
	case Exact:
		return "exact"
	case Hamming:
		return "hamming"
	case Edit:
		return "edit"
	default:
		return fmt.Sprintf("Metric(%d)", int(m))
	}
}

// Valid reports whether m is one of the known metrics.
func (m Metric) Valid() bool {
	return m == Exact || m == Hamming || m == Edit
}

// Within reports whether a and b are within tolerance under metric m.
// Tolerance is ignored for Exact.
func Within(m Metric, a, b string, tolerance int) bool {
	switch m {
	case Exact:
		return a == b
	case Hamming:
		return HammingWithin(a, b, tolerance)
	case Edit:
		return EditWithin(a, b, tolerance)
	default:
		panic(fmt.Sprintf("distance: unknown metric %d", int(m)))
	}
}

// HammingWithin reports whether equal-length a and b differ in at most
// tolerance positions. Strings of unequal length never match.
func HammingWithin(a, b string, tolerance int) bool {
	ra, rb := []rune(a), []rune(b)
	if len(ra) != len(rb) {
		return false
	}
	mismatches := 0
	for i := range ra {
		if ra[i] != rb[i] {
			mismatches++
			if mismatches > tolerance {
				return false
			}
		}
	}
	return mismatches <= tolerance
}

// EditWithin reports whether the Levenshtein distance between a and b is at
// most tolerance. The DP stops as soon as a full row exceeds tolerance.
func EditWithin(a, b string, tolerance int) bool {
	if tolerance < 0 {
		return false
	}
	if a == b {
		return true
	}
	ra, rb := []rune(a), []rune(b)
	if abs(len(ra)-len(rb)) > tolerance {
		return false
	}
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		return len(rb) <= tolerance
	}

	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for i := range prev {
		prev[i] = i
	}
	for j := 1; j <= len(rb); j++ {
		curr[0] = j
		rowMin := curr[0]
		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[i] = min(curr[i-1]+1, prev[i]+1, prev[i-1]+cost)
			rowMin = min(rowMin, curr[i])
		}
		if rowMin > tolerance {
			return false
		}
		prev, curr = curr, prev
	}
	return prev[len(ra)] <= tolerance
}

// Levenshtein returns the full edit distance between a and b.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for i := range prev {
		prev[i] = i
	}
	for j := 1; j <= len(rb); j++ {
		curr[0] = j
		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[i] = min(curr[i-1]+1, prev[i]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(ra)]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
