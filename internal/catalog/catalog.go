// Package catalog provides the paragraphs offered for practice.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/readalong/internal/model"
)

// ReadingWPM is the pace used to estimate reading time.
const ReadingWPM = 130

//go:embed levels.yaml
var builtinLevels []byte

// ErrNoSuchLevel is returned for a level number outside the catalog.
var ErrNoSuchLevel = errors.New("no such level")

type file struct {
	Levels []entry `yaml:"levels"`
}

type entry struct {
	Title            string `yaml:"title"`
	Text             string `yaml:"text"`
	Difficulty       string `yaml:"difficulty"`
	Emoji            string `yaml:"emoji"`
	WordCount        int    `yaml:"word_count"`
	EstimatedMinutes int    `yaml:"estimated_minutes"`
}

// Catalog is an ordered list of practice levels.
type Catalog struct {
	levels []model.Paragraph
}

// Builtin returns the catalog shipped with the binary.
func Builtin() (*Catalog, error) {
	return Parse(bytes.NewReader(builtinLevels))
}

// Load reads a catalog file. An empty path selects the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Builtin()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close for read-only catalog.
			_ = cerr
		}
	}()
	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %q: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML catalog. Unknown keys are rejected and missing
// metadata is derived from the text.
func Parse(r io.Reader) (*Catalog, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if len(f.Levels) == 0 {
		return nil, fmt.Errorf("catalog has no levels")
	}
	levels := make([]model.Paragraph, 0, len(f.Levels))
	for i, e := range f.Levels {
		text := strings.Join(strings.Fields(e.Text), " ")
		if text == "" {
			return nil, fmt.Errorf("level %d has no text", i+1)
		}
		p := model.Paragraph{
			Title:            e.Title,
			Text:             text,
			Difficulty:       e.Difficulty,
			Emoji:            e.Emoji,
			WordCount:        e.WordCount,
			EstimatedMinutes: e.EstimatedMinutes,
			Source:           model.SourceBuiltin,
		}
		if p.Title == "" {
			p.Title = fmt.Sprintf("Level %d", i+1)
		}
		fillMetadata(&p)
		levels = append(levels, p)
	}
	return &Catalog{levels: levels}, nil
}

// Len returns the number of levels.
func (c *Catalog) Len() int {
	return len(c.levels)
}

// Levels returns a copy of all levels in order.
func (c *Catalog) Levels() []model.Paragraph {
	out := make([]model.Paragraph, len(c.levels))
	copy(out, c.levels)
	return out
}

// Level returns level n, counting from 1.
func (c *Catalog) Level(n int) (model.Paragraph, error) {
	if n < 1 || n > len(c.levels) {
		return model.Paragraph{}, fmt.Errorf("%w: %d (have 1-%d)", ErrNoSuchLevel, n, len(c.levels))
	}
	return c.levels[n-1], nil
}

// Custom wraps user supplied text as a paragraph.
func Custom(text string) model.Paragraph {
	p := model.Paragraph{
		Title:      "Custom",
		Text:       strings.TrimSpace(text),
		Difficulty: "Custom",
		Source:     model.SourceCustom,
	}
	fillMetadata(&p)
	return p
}

// FromLibrary converts a saved library entry into a paragraph.
func FromLibrary(e model.LibraryEntry) model.Paragraph {
	p := model.Paragraph{
		Title:      e.Title,
		Text:       e.Text,
		Difficulty: e.Difficulty,
		Source:     model.SourceLibrary,
	}
	if p.Difficulty == "" {
		p.Difficulty = "Custom"
	}
	fillMetadata(&p)
	return p
}

// EstimateMinutes returns the whole minutes needed to read words aloud.
func EstimateMinutes(words int) int {
	if words <= 0 {
		return 1
	}
	minutes := (words + ReadingWPM - 1) / ReadingWPM
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

func fillMetadata(p *model.Paragraph) {
	if p.WordCount <= 0 {
		p.WordCount = len(strings.Fields(p.Text))
	}
	if p.EstimatedMinutes <= 0 {
		p.EstimatedMinutes = EstimateMinutes(p.WordCount)
	}
}
