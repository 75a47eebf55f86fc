package scoring

import (
	"github.com/antzucaro/matchr"

	"github.com/verte-zerg/readalong/internal/model"
)

// DefaultSuggestDistance is the largest edit distance reported as a near miss.
const DefaultSuggestDistance = 2

// Suggest pairs each distinct missed word with the closest heard word within
// maxDistance edits. Ties go to the word heard first. The comparison is purely
// lexical and never changes how a word was scored.
func Suggest(missed, heard []string, maxDistance int) []model.Suggestion {
	if maxDistance <= 0 || len(missed) == 0 || len(heard) == 0 {
		return nil
	}
	var out []model.Suggestion
	seen := make(map[string]struct{}, len(missed))
	for _, word := range missed {
		if word == "" {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}

		best := ""
		bestDist := maxDistance + 1
		for _, h := range heard {
			if h == "" || h == word {
				continue
			}
			if d := matchr.Levenshtein(word, h); d < bestDist {
				best = h
				bestDist = d
			}
		}
		if best != "" {
			out = append(out, model.Suggestion{Missed: word, Heard: best, Distance: bestDist})
		}
	}
	return out
}
