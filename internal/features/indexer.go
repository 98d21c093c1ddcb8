// Package features turns integrated rows into dense feature vectors.
package features

import (
	"sort"
)

// UnseenLabel names the reserved one-hot slot for categories not seen at fit time.
const UnseenLabel = "__unseen__"

// StringIndexer maps category values to stable nonnegative indices. Labels are
// ordered by descending frequency, ties alphabetically; index len(Labels) is
// reserved for values not seen at fit time.
type StringIndexer struct {
	Column string
	Labels []string
	index  map[string]int
}

// FitStringIndexer builds an indexer from the observed values of one column.
func FitStringIndexer(column string, values []string) *StringIndexer {
	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
	}
	labels := make([]string, 0, len(counts))
	for v := range counts {
		labels = append(labels, v)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})
	return NewStringIndexer(column, labels)
}

// NewStringIndexer builds an indexer with a fixed label order.
func NewStringIndexer(column string, labels []string) *StringIndexer {
	s := &StringIndexer{Column: column, Labels: labels, index: make(map[string]int, len(labels))}
	for i, l := range labels {
		s.index[l] = i
	}
	return s
}

// Index returns the index of v. ok is false when v was not seen at fit time,
// in which case the reserved unseen index is returned.
func (s *StringIndexer) Index(v string) (int, bool) {
	if i, ok := s.index[v]; ok {
		return i, true
	}
	return s.UnseenIndex(), false
}

// Label returns the category at index i, or UnseenLabel for the reserved slot.
func (s *StringIndexer) Label(i int) string {
	if i >= 0 && i < len(s.Labels) {
		return s.Labels[i]
	}
	return UnseenLabel
}

// UnseenIndex is the reserved index for unknown categories.
func (s *StringIndexer) UnseenIndex() int {
	return len(s.Labels)
}

// Size is the one-hot dimension: every label plus the unseen slot.
func (s *StringIndexer) Size() int {
	return len(s.Labels) + 1
}

// OneHot writes a size-dimensional indicator with a single 1 at index into dst
// and returns the extended slice.
func OneHot(dst []float64, index, size int) []float64 {
	for i := 0; i < size; i++ {
		if i == index {
			dst = append(dst, 1)
		} else {
			dst = append(dst, 0)
		}
	}
	return dst
}

// DecodeOneHot returns the position of the single nonzero entry, or -1 when
// the vector is not a valid indicator.
func DecodeOneHot(vec []float64) int {
	hot := -1
	for i, v := range vec {
		switch v {
		case 0:
		case 1:
			if hot >= 0 {
				return -1
			}
			hot = i
		default:
			return -1
		}
	}
	return hot
}
