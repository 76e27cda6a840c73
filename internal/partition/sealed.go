package partition

import (
	"sort"

	"github.com/bits-and-blooms/bloom/v3"
)

// Misses dominate lookups against a blocklist, so the sealed form keeps a
// bloom filter in front of the sorted slice to reject most of them without
// a binary search.
const bloomFalsePositiveRate = 0.001

// Sealed is the compacted, immutable form of a partition. It is safe for
// any number of concurrent readers.
type Sealed struct {
	name    string
	entries []string
	filter  *bloom.BloomFilter
}

func newSealed(name string, set map[string]struct{}) *Sealed {
	entries := make([]string, 0, len(set))
	for e := range set {
		entries = append(entries, e)
	}
	sort.Strings(entries)

	n := uint(len(entries))
	if n == 0 {
		n = 1
	}
	filter := bloom.NewWithEstimates(n, bloomFalsePositiveRate)
	for _, e := range entries {
		filter.AddString(e)
	}

	return &Sealed{
		name:    name,
		entries: entries,
		filter:  filter,
	}
}

// Name returns the partition's domain name.
func (s *Sealed) Name() string { return s.name }

// Len returns the number of entries.
func (s *Sealed) Len() int { return len(s.entries) }

// Contains is an exact membership test.
func (s *Sealed) Contains(entry string) bool {
	if !s.filter.TestString(entry) {
		return false
	}
	i := sort.SearchStrings(s.entries, entry)
	return i < len(s.entries) && s.entries[i] == entry
}

// Entries returns the sorted entries. Callers must not modify the slice.
func (s *Sealed) Entries() []string { return s.entries }
