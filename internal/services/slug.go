package services

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/dboots/bg-broadcast/internal/domain"
)

const slugWordCount = 3

//go:embed slug_words.csv
var defaultSlugWords string

type Slug struct {
	Slug  string   `json:"slug"`
	Words []string `json:"words"`
}

// SlugGenerator builds session slugs like "brave-red-otter" from a word list.
type SlugGenerator struct {
	words []string
	intN  func(n int) int
}

func NewSlugGenerator(words []string) (*SlugGenerator, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("slug word list is empty: %w", domain.ErrInvalidInput)
	}
	return &SlugGenerator{words: words, intN: rand.IntN}, nil
}

// LoadSlugGenerator reads a comma separated word list from path, or uses
// the built-in list when path is empty.
func LoadSlugGenerator(path string) (*SlugGenerator, error) {
	content := defaultSlugWords
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read slug words: %w", err)
		}
		content = string(data)
	}
	return NewSlugGenerator(ParseWordList(content))
}

// ParseWordList splits comma separated words, dropping blanks.
func ParseWordList(content string) []string {
	var words []string
	for _, word := range strings.Split(content, ",") {
		if word = strings.TrimSpace(word); word != "" {
			words = append(words, word)
		}
	}
	return words
}

// Generate picks words independently, so the same word may repeat.
func (g *SlugGenerator) Generate() Slug {
	picked := make([]string, slugWordCount)
	for i := range picked {
		picked[i] = g.words[g.intN(len(g.words))]
	}
	return Slug{Slug: strings.Join(picked, "-"), Words: picked}
}
