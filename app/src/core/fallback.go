package core

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultQuotes is served whenever the backend cannot be used.
var defaultQuotes = []string{
	"Simplicity is prerequisite for reliability. - Edsger W. Dijkstra",
	"Premature optimization is the root of all evil. - Donald Knuth",
	"Talk is cheap. Show me the code. - Linus Torvalds",
	"Programs must be written for people to read, and only incidentally for machines to execute. - Harold Abelson",
	"Any fool can write code that a computer can understand. Good programmers write code that humans can understand. - Martin Fowler",
	"The most disastrous thing that you can ever learn is your first programming language. - Alan Kay",
	"First, solve the problem. Then, write the code. - John Johnson",
	"Clear is better than clever. - Rob Pike",
	"Don't communicate by sharing memory, share memory by communicating. - Rob Pike",
	"A little copying is better than a little dependency. - Rob Pike",
}

// DefaultQuotes returns a copy of the built-in fallback list.
func DefaultQuotes() []string {
	return append([]string(nil), defaultQuotes...)
}

type quotesFile struct {
	Quotes []string `yaml:"quotes"`
}

// LoadFallbackQuotes reads a YAML document of the form
//
//	quotes:
//	  - "first"
//	  - "second"
//
// Blank entries are dropped; a file without any quote is an error.
func LoadFallbackQuotes(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fallback quotes: %w", err)
	}

	var doc quotesFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("fallback quotes: parse %s: %w", path, err)
	}

	quotes := make([]string, 0, len(doc.Quotes))
	for _, q := range doc.Quotes {
		if q = strings.TrimSpace(q); q != "" {
			quotes = append(quotes, q)
		}
	}
	if len(quotes) == 0 {
		return nil, errors.New("fallback quotes: " + path + " contains no quotes")
	}
	return quotes, nil
}

// ResolveFallbackQuotes returns the quotes from path, or the built-in list when
// path is empty.
func ResolveFallbackQuotes(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultQuotes(), nil
	}
	return LoadFallbackQuotes(path)
}
