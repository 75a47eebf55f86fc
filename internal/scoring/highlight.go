package scoring

import (
	"math"
	"sort"
)

// HighlightSet holds paragraph word indices considered heard.
type HighlightSet map[int]struct{}

// Has reports whether paragraph index i is highlighted.
func (h HighlightSet) Has(i int) bool {
	_, ok := h[i]
	return ok
}

// Len returns the number of highlighted words.
func (h HighlightSet) Len() int {
	return len(h)
}

// Indices returns the highlighted indices in ascending order.
func (h HighlightSet) Indices() []int {
	out := make([]int, 0, len(h))
	for i := range h {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Highlight marks every paragraph position whose normalized word was heard.
// Both slices must already be normalized. A transcript word never displaces a
// position it already satisfied and keeps satisfying further unmatched
// positions of the same word.
func Highlight(paragraph, transcript []string) HighlightSet {
	set := HighlightSet{}
	for _, heard := range transcript {
		for i, word := range paragraph {
			if word != heard || set.Has(i) {
				continue
			}
			set[i] = struct{}{}
		}
	}
	return set
}

// LiveAccuracy returns the running accuracy percentage for a highlight set.
func LiveAccuracy(set HighlightSet, totalWords int) int {
	return Accuracy(set.Len(), totalWords)
}

// Accuracy returns round(100 * matched / total), or 0 when total is 0.
func Accuracy(matched, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(matched) / float64(total)))
}
