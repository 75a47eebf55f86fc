// Package model defines shared data structures.
package model

import "time"

// Paragraph sources.
const (
	SourceBuiltin = "builtin"
	SourceLibrary = "library"
	SourceCustom  = "custom"
)

// Config defines practice settings.
type Config struct {
	Lang           string
	MinChars       int
	SpeechCmd      string
	SpeechScript   string
	ScriptInterval time.Duration
	CatalogPath    string
	LogLevel       string
}

// Paragraph is the reference text read aloud during a session.
type Paragraph struct {
	Title            string
	Text             string
	Difficulty       string
	WordCount        int
	EstimatedMinutes int
	Emoji            string
	Source           string
}

// ScoreReport is the result of evaluating one reading session.
type ScoreReport struct {
	Accuracy        int
	Fluency         int
	ElapsedSeconds  int
	MatchedWords    []string
	MissedWords     []string
	TotalWords      int
	TranscriptWords int
	Suggestions     []Suggestion
}

// Suggestion pairs a missed paragraph word with the closest heard word.
type Suggestion struct {
	Missed   string
	Heard    string
	Distance int
}

// LibraryEntry is a custom paragraph saved for later practice.
type LibraryEntry struct {
	ID         int64
	Title      string
	Text       string
	Difficulty string
	AddedAt    time.Time
}
