// Package synonym provides property-name synonym lookup for the mutation
// stage. The pipeline consumes the Provider interface; the default
// implementation is a YAML-backed lexicon, so the vocabulary ships with
// the deployment instead of requiring a corpus download at runtime.
package synonym

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Provider returns candidate synonyms for a single lowercase word.
// An empty slice means no synonym is known; callers must treat that as
// "skip", never as an error.
type Provider interface {
	SynonymsFor(word string) []string
}

// Lexicon is a static word→synonyms table. Lookups are case-insensitive;
// returned synonyms preserve their lexicon spelling.
type Lexicon map[string][]string

// LoadLexicon reads a YAML thesaurus file mapping words to synonym lists.
func LoadLexicon(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon file: %w", err)
	}
	return ParseLexicon(data)
}

// ParseLexicon parses YAML lexicon content. Keys are normalized to
// lowercase and synonym lists are sorted for deterministic indexing
// under a seeded random source.
func ParseLexicon(data []byte) (Lexicon, error) {
	raw := map[string][]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	lex := make(Lexicon, len(raw))
	for word, syns := range raw {
		cleaned := make([]string, 0, len(syns))
		for _, s := range syns {
			s = strings.TrimSpace(s)
			if s != "" && !strings.EqualFold(s, word) {
				cleaned = append(cleaned, s)
			}
		}
		sort.Strings(cleaned)
		lex[strings.ToLower(word)] = cleaned
	}
	return lex, nil
}

// SynonymsFor implements Provider.
func (l Lexicon) SynonymsFor(word string) []string {
	return l[strings.ToLower(word)]
}

// Empty is a Provider with no vocabulary. The mutation stage degrades to
// a no-op when configured with it.
type Empty struct{}

// SynonymsFor implements Provider.
func (Empty) SynonymsFor(string) []string { return nil }
