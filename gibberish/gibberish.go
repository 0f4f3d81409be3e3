// Package gibberish detects leaf values that are unusable for training,
// typically free-text sentences or keyboard-mash placeholders emitted by
// example generators. Detection is heuristic and pluggable: the pipeline
// consumes a Predicate and never depends on a concrete matcher.
package gibberish

import "regexp"

// Predicate reports whether a scalar value (in string form) is gibberish
// and should be cleared during canonicalization.
type Predicate func(value string) bool

// A value is flagged as a sentence when it is more than a single token
// but is not one of the structured shapes below.
var (
	sentencePattern = regexp.MustCompile(`^\w+[\s\S]+$`)

	// Structured shapes that look sentence-like but are legitimate values.
	singleWordPattern = regexp.MustCompile(`^\w+$`)
	hyphenatedPattern = regexp.MustCompile(`^\w+-\w+$`)
	uriLikePattern    = regexp.MustCompile(`^\w+:\S+$`)
	decimalPattern    = regexp.MustCompile(`^\d+.\d+$`)
)

// Sentence is the default Predicate. It flags multi-token free text while
// letting through single words, hyphenated identifiers, URI-shaped values
// and decimal numbers.
func Sentence(value string) bool {
	if !sentencePattern.MatchString(value) {
		return false
	}
	if singleWordPattern.MatchString(value) ||
		hyphenatedPattern.MatchString(value) ||
		uriLikePattern.MatchString(value) ||
		decimalPattern.MatchString(value) {
		return false
	}
	return true
}

// None is a Predicate that never flags a value. Useful for disabling the
// cleanup pass in tests and dry runs.
func None(string) bool { return false }
