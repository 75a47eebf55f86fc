package scoring

import (
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/verte-zerg/readalong/internal/model"
)

// DefaultMinChars is the shortest paragraph accepted for practice.
const DefaultMinChars = 20

var (
	// ErrEmptyParagraph is returned when a paragraph has no words.
	ErrEmptyParagraph = errors.New("paragraph has no words")
	// ErrParagraphTooShort is returned when a paragraph is below the minimum length.
	ErrParagraphTooShort = errors.New("paragraph is too short")
)

// Scorer evaluates finished readings.
type Scorer struct {
	Tokenizer Tokenizer
	// SuggestDistance bounds the edit distance for near-miss suggestions.
	// Zero disables suggestions.
	SuggestDistance int
}

// NewScorer returns a Scorer for lang with default suggestion distance.
func NewScorer(lang string) (Scorer, error) {
	tok, err := NewTokenizer(lang)
	if err != nil {
		return Scorer{}, err
	}
	return Scorer{Tokenizer: tok, SuggestDistance: DefaultSuggestDistance}, nil
}

// ValidateParagraph rejects paragraphs that cannot be scored meaningfully.
func ValidateParagraph(text string, minChars int) error {
	trimmed := strings.TrimSpace(text)
	if len(strings.Fields(trimmed)) == 0 {
		return ErrEmptyParagraph
	}
	if utf8.RuneCountInString(trimmed) < minChars {
		return ErrParagraphTooShort
	}
	return nil
}

// Evaluate classifies every paragraph word as matched or missed against the
// whole transcript. A paragraph word is matched when any transcript word
// normalizes to the same string; transcript words are not consumed.
func (s Scorer) Evaluate(paragraph, transcript string, elapsedSeconds int) (model.ScoreReport, error) {
	surface := s.Tokenizer.Tokens(paragraph)
	if len(surface) == 0 {
		return model.ScoreReport{}, ErrEmptyParagraph
	}
	words := s.Tokenizer.NormalizeAll(surface)
	heardWords := s.Tokenizer.Words(transcript)
	heard := make(map[string]struct{}, len(heardWords))
	for _, w := range heardWords {
		heard[w] = struct{}{}
	}

	matched := make([]string, 0, len(surface))
	missed := make([]string, 0)
	var missedNorm []string
	for i, word := range words {
		if _, ok := heard[word]; ok {
			matched = append(matched, surface[i])
			continue
		}
		missed = append(missed, surface[i])
		missedNorm = append(missedNorm, word)
	}

	if elapsedSeconds < 0 {
		elapsedSeconds = 0
	}
	report := model.ScoreReport{
		Accuracy:        Accuracy(len(matched), len(surface)),
		Fluency:         Fluency(len(surface), elapsedSeconds),
		ElapsedSeconds:  elapsedSeconds,
		MatchedWords:    matched,
		MissedWords:     missed,
		TotalWords:      len(surface),
		TranscriptWords: len(heardWords),
	}
	if s.SuggestDistance > 0 {
		report.Suggestions = Suggest(missedNorm, unmatchedHeard(heardWords, words), s.SuggestDistance)
	}
	return report, nil
}

// Fluency returns words per minute; elapsed time is floored at one second.
func Fluency(totalWords, elapsedSeconds int) int {
	if elapsedSeconds < 1 {
		elapsedSeconds = 1
	}
	return int(math.Round(60 * float64(totalWords) / float64(elapsedSeconds)))
}

func unmatchedHeard(heard, paragraph []string) []string {
	known := make(map[string]struct{}, len(paragraph))
	for _, w := range paragraph {
		known[w] = struct{}{}
	}
	out := make([]string, 0, len(heard))
	for _, w := range heard {
		if _, ok := known[w]; ok {
			continue
		}
		out = append(out, w)
	}
	return out
}
