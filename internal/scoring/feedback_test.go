package scoring

import "testing"

func TestBandFor(t *testing.T) {
	cases := map[int]Band{100: BandStrong, 80: BandStrong, 79: BandFair, 60: BandFair, 59: BandWeak, 0: BandWeak}
	for score, want := range cases {
		if got := BandFor(score); got != want {
			t.Fatalf("BandFor(%d): expected %s, got %s", score, want, got)
		}
	}
	if BandStrong.Message() == BandWeak.Message() {
		t.Fatalf("expected distinct messages per band")
	}
}

func TestPracticeWords(t *testing.T) {
	missed := make([]string, 20)
	for i := range missed {
		missed[i] = string(rune('a' + i))
	}
	shown, more := PracticeWords(missed, PracticeWordLimit)
	if len(shown) != 15 || more != 5 {
		t.Fatalf("expected 15 shown and 5 more, got %d and %d", len(shown), more)
	}
	shown, more = PracticeWords(missed[:3], PracticeWordLimit)
	if len(shown) != 3 || more != 0 {
		t.Fatalf("expected all words shown, got %d and %d", len(shown), more)
	}
}
