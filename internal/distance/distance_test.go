package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExactIgnoresTolerance(t *testing.T) {
	for _, tol := range []int{0, 1, 5, 100} {
		assert.True(t, Within(Exact, "cat", "cat", tol))
		assert.False(t, Within(Exact, "cat", "bat", tol))
	}
}

func TestHammingWithin(t *testing.T) {
	tests := []struct {
		a, b string
		tol  int
		want bool
	}{
		{"bat", "cat", 1, true},
		{"bat", "cat", 0, false},
		{"karolin", "kathrin", 3, true},
		{"karolin", "kathrin", 2, false},
		{"same", "same", 0, true},
		{"", "", 0, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HammingWithin(tt.a, tt.b, tt.tol), "%q vs %q tol %d", tt.a, tt.b, tt.tol)
	}
}

func TestHammingUnequalLengthNeverMatches(t *testing.T) {
	for _, tol := range []int{0, 1, 3, 10, 1000} {
		assert.False(t, HammingWithin("color", "colour", tol))
		assert.False(t, HammingWithin("", "a", tol))
	}
}

func TestEditWithin(t *testing.T) {
	tests := []struct {
		a, b string
		tol  int
		want bool
	}{
		{"color", "colour", 1, true},
		{"color", "colour", 0, false},
		{"kitten", "sitting", 3, true},
		{"kitten", "sitting", 2, false},
		{"", "abc", 3, true},
		{"", "abc", 2, false},
		{"flaw", "lawn", 2, true},
		{"abc", "abc", 0, true},
		{"abc", "xyz", -1, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EditWithin(tt.a, tt.b, tt.tol), "%q vs %q tol %d", tt.a, tt.b, tt.tol)
		assert.Equal(t, tt.want, EditWithin(tt.b, tt.a, tt.tol), "symmetric %q vs %q", tt.b, tt.a)
	}
}

func TestEditWithinAgreesWithLevenshtein(t *testing.T) {
	words := []string{"", "a", "ab", "ba", "abc", "acb", "kitten", "sitting", "mitten", "sittin"}
	for _, a := range words {
		for _, b := range words {
			d := Levenshtein(a, b)
			for tol := 0; tol <= 7; tol++ {
				assert.Equal(t, d <= tol, EditWithin(a, b, tol), "%q vs %q tol %d (distance %d)", a, b, tol, d)
			}
		}
	}
}

func TestMetricString(t *testing.T) {
	assert.Equal(t, "exact", Exact.String())
	assert.Equal(t, "hamming", Hamming.String())
	assert.Equal(t, "edit", Edit.String())
	assert.False(t, Metric(7).Valid())
	assert.Panics(t, func() { Within(Metric(7), "a", "a", 0) })
}

func TestEvaluatorMemoizes(t *testing.T) {
	e, err := NewEvaluator(2)
	require.NoError(t, err)

	assert.True(t, e.Match(Hamming, "bat", "cat", 1))
	assert.True(t, e.Match(Hamming, "bat", "cat", 1))
	assert.Equal(t, 1, e.Len())

	assert.True(t, e.Match(Exact, "dog", "dog", 0))
	assert.Equal(t, 1, e.Len(), "exact lookups are not memoized")

	e.Match(Edit, "color", "colour", 1)
	e.Match(Edit, "kitten", "sitting", 3)
	assert.Equal(t, 2, e.Len(), "memo is bounded")

	e.Purge()
	assert.Zero(t, e.Len())
}

func TestNewEvaluatorRejectsNonPositiveSize(t *testing.T) {
	_, err := NewEvaluator(0)
	require.Error(t, err)
}
