package scoring

import (
	"errors"
	"reflect"
	"testing"
)

func TestEvaluateFullMatch(t *testing.T) {
	s, err := NewScorer("en")
	if err != nil {
		t.Fatalf("new scorer: %v", err)
	}
	report, err := s.Evaluate("The quick brown fox", "the quick brown fox", 4)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if report.Accuracy != 100 {
		t.Fatalf("expected 100%% accuracy, got %d", report.Accuracy)
	}
	if len(report.MatchedWords) != 4 || len(report.MissedWords) != 0 {
		t.Fatalf("unexpected classification: %+v", report)
	}
	if report.TranscriptWords != 4 || report.TotalWords != 4 {
		t.Fatalf("unexpected counts: %+v", report)
	}
}

func TestEvaluatePartialMatchKeepsOrder(t *testing.T) {
	s, _ := NewScorer("en")
	report, err := s.Evaluate("The quick brown fox", "the brown", 10)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if report.Accuracy != 50 {
		t.Fatalf("expected 50%%, got %d", report.Accuracy)
	}
	if !reflect.DeepEqual(report.MissedWords, []string{"quick", "fox"}) {
		t.Fatalf("unexpected missed words %v", report.MissedWords)
	}
	if !reflect.DeepEqual(report.MatchedWords, []string{"The", "brown"}) {
		t.Fatalf("unexpected matched words %v", report.MatchedWords)
	}
}

func TestEvaluateKeepsSurfaceForm(t *testing.T) {
	s, _ := NewScorer("en")
	report, err := s.Evaluate("Hello, World! Goodbye.", "hello", 1)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !reflect.DeepEqual(report.MatchedWords, []string{"Hello,"}) {
		t.Fatalf("unexpected matched words %v", report.MatchedWords)
	}
	if !reflect.DeepEqual(report.MissedWords, []string{"World!", "Goodbye."}) {
		t.Fatalf("unexpected missed words %v", report.MissedWords)
	}
}

func TestEvaluateRepeatedWordSatisfiedOnce(t *testing.T) {
	s, _ := NewScorer("en")
	report, err := s.Evaluate("the cat saw the dog", "the cat saw dog", 5)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if report.Accuracy != 100 || len(report.MissedWords) != 0 {
		t.Fatalf("expected repeated word to be satisfied, got %+v", report)
	}
}

func TestEvaluateCountsInvariant(t *testing.T) {
	s, _ := NewScorer("en")
	inputs := []struct {
		paragraph  string
		transcript string
	}{
		{"a b c d e", ""},
		{"a b c d e", "a c e"},
		{"One, two; three: four!", "ONE two three four five six"},
		{"x", "x x x"},
		{"... --- ...", "..."},
	}
	for _, in := range inputs {
		report, err := s.Evaluate(in.paragraph, in.transcript, 3)
		if err != nil {
			t.Fatalf("evaluate %q: %v", in.paragraph, err)
		}
		if len(report.MatchedWords)+len(report.MissedWords) != report.TotalWords {
			t.Fatalf("classification does not cover paragraph %q: %+v", in.paragraph, report)
		}
		if report.TotalWords != len(s.Tokenizer.Tokens(in.paragraph)) {
			t.Fatalf("unexpected total words for %q", in.paragraph)
		}
	}
}

func TestEvaluateEmptyParagraph(t *testing.T) {
	s, _ := NewScorer("en")
	report, err := s.Evaluate("   ", "anything", 3)
	if !errors.Is(err, ErrEmptyParagraph) {
		t.Fatalf("expected ErrEmptyParagraph, got %v", err)
	}
	if report.Accuracy != 0 {
		t.Fatalf("expected zero accuracy, got %d", report.Accuracy)
	}
}

func TestFluency(t *testing.T) {
	if got := Fluency(10, 30); got != 20 {
		t.Fatalf("expected 20 wpm, got %d", got)
	}
	if Fluency(10, 0) != Fluency(10, 1) {
		t.Fatalf("expected zero elapsed to floor to one second")
	}
	if got := Fluency(7, 9); got != 47 {
		t.Fatalf("expected 47 wpm, got %d", got)
	}
}

func TestEvaluateZeroElapsed(t *testing.T) {
	s, _ := NewScorer("en")
	report, err := s.Evaluate("one two", "one two", 0)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if report.Fluency != 120 || report.ElapsedSeconds != 0 {
		t.Fatalf("unexpected fluency report %+v", report)
	}
}

func TestValidateParagraph(t *testing.T) {
	if err := ValidateParagraph("", DefaultMinChars); !errors.Is(err, ErrEmptyParagraph) {
		t.Fatalf("expected ErrEmptyParagraph, got %v", err)
	}
	if err := ValidateParagraph("  too short  ", DefaultMinChars); !errors.Is(err, ErrParagraphTooShort) {
		t.Fatalf("expected ErrParagraphTooShort, got %v", err)
	}
	if err := ValidateParagraph("This sentence is long enough.", DefaultMinChars); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEvaluateSuggestions(t *testing.T) {
	s, _ := NewScorer("en")
	report, err := s.Evaluate("The cat sat on the mat", "the cat sad on the mad", 5)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !reflect.DeepEqual(report.MissedWords, []string{"sat", "mat"}) {
		t.Fatalf("unexpected missed words %v", report.MissedWords)
	}
	if len(report.Suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %+v", report.Suggestions)
	}
	if report.Suggestions[0].Missed != "sat" || report.Suggestions[0].Heard != "sad" || report.Suggestions[0].Distance != 1 {
		t.Fatalf("unexpected first suggestion %+v", report.Suggestions[0])
	}
	if report.Suggestions[1].Heard != "mad" {
		t.Fatalf("unexpected second suggestion %+v", report.Suggestions[1])
	}

	s.SuggestDistance = 0
	report, err = s.Evaluate("The cat sat on the mat", "the cat sad on the mad", 5)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if report.Suggestions != nil {
		t.Fatalf("expected suggestions disabled, got %+v", report.Suggestions)
	}
}
