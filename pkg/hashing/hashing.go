// Package hashing produces the 64-bit content keys used by the result caches:
// one over a document's word set and one over the ordered population of
// active subscriptions.
package hashing

import (
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"
)

const separator = 0x00

// Words hashes a word set. Order and duplicates do not affect the result.
func Words(words []string) uint64 {
	sorted := slices.Clone(words)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	return SortedWords(sorted)
}

// SortedWords hashes an already sorted, duplicate-free word list.
func SortedWords(sorted []string) uint64 {
	d := xxhash.New()
	sep := []byte{separator}
	for _, w := range sorted {
		_, _ = d.WriteString(w)
		_, _ = d.Write(sep)
	}
	return d.Sum64()
}

// Sequence hashes an ordered sequence of integers. Order is significant.
func Sequence(values []uint64) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, v := range values {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}
