// Package scoring aligns a spoken transcript with a reference paragraph and
// scores the reading.
//
// Two matching policies share one tokenizer. The live highlighter marks
// paragraph positions as transcript words arrive; the final evaluator
// reclassifies every paragraph word against the whole transcript. Both are
// existence based, so a single heard "the" satisfies every "the" in the
// paragraph.
package scoring

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// punctCutset is stripped from both ends of a token before matching.
const punctCutset = ".,!?;:"

// Tokenizer splits text into words and normalizes them for matching.
type Tokenizer struct {
	lang language.Tag
}

// NewTokenizer returns a Tokenizer that lowercases with the rules of lang.
// An empty lang selects English.
func NewTokenizer(lang string) (Tokenizer, error) {
	if strings.TrimSpace(lang) == "" {
		return Tokenizer{lang: language.English}, nil
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return Tokenizer{}, fmt.Errorf("invalid language %q: %w", lang, err)
	}
	return Tokenizer{lang: tag}, nil
}

// Tokens splits text on runs of whitespace, keeping the surface form.
func (t Tokenizer) Tokens(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return []string{}
	}
	return fields
}

// Normalize strips leading and trailing punctuation and lowercases token.
func (t Tokenizer) Normalize(token string) string {
	return cases.Lower(t.tag()).String(strings.Trim(token, punctCutset))
}

// NormalizeAll normalizes every token, preserving order.
func (t Tokenizer) NormalizeAll(tokens []string) []string {
	caser := cases.Lower(t.tag())
	out := make([]string, len(tokens))
	for i, token := range tokens {
		out[i] = caser.String(strings.Trim(token, punctCutset))
	}
	return out
}

// Words tokenizes and normalizes text in one step.
func (t Tokenizer) Words(text string) []string {
	return t.NormalizeAll(t.Tokens(text))
}

func (t Tokenizer) tag() language.Tag {
	if t.lang == language.Und {
		return language.English
	}
	return t.lang
}
