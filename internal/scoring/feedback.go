package scoring

// Band groups a score for colouring and feedback.
type Band int

// Score bands.
const (
	BandWeak Band = iota
	BandFair
	BandStrong
)

// PracticeWordLimit is how many missed words are listed before collapsing.
const PracticeWordLimit = 15

// BandFor returns the band of a percentage or words-per-minute score.
func BandFor(score int) Band {
	switch {
	case score >= 80:
		return BandStrong
	case score >= 60:
		return BandFair
	default:
		return BandWeak
	}
}

// Message returns the encouragement shown for an accuracy band.
func (b Band) Message() string {
	switch b {
	case BandStrong:
		return "Excellent! You read with great accuracy. Keep practicing to improve your fluency!"
	case BandFair:
		return "Good effort! Focus on the missed words and try again to improve your accuracy."
	default:
		return "Keep practicing! Try reading more slowly and focus on pronunciation."
	}
}

// String implements fmt.Stringer.
func (b Band) String() string {
	switch b {
	case BandStrong:
		return "strong"
	case BandFair:
		return "fair"
	default:
		return "weak"
	}
}

// PracticeWords returns at most limit missed words and how many were left out.
func PracticeWords(missed []string, limit int) ([]string, int) {
	if limit <= 0 || len(missed) <= limit {
		return missed, 0
	}
	return missed[:limit], len(missed) - limit
}
