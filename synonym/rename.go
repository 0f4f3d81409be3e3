package synonym

import (
	"math/rand"
	"strings"
	"unicode"
)

// Replace builds a replacement for a camelCase property name by swapping
// each component word for a randomly chosen synonym, where one exists.
// The result keeps lowerCamel casing. Returns ok=false when no component
// had a synonym, i.e. the name would be unchanged.
func Replace(p Provider, rng *rand.Rand, name string) (string, bool) {
	words := SplitCamel(name)
	if len(words) == 0 {
		return "", false
	}

	changed := false
	parts := make([]string, len(words))
	for i, w := range words {
		syns := p.SynonymsFor(w)
		if len(syns) == 0 {
			parts[i] = w
			continue
		}
		parts[i] = syns[rng.Intn(len(syns))]
		changed = true
	}
	if !changed {
		return "", false
	}

	for i, w := range parts {
		w = strings.ReplaceAll(w, "_", "")
		if i == 0 {
			parts[i] = lowerFirst(w)
		} else {
			parts[i] = upperFirst(w)
		}
	}
	return strings.Join(parts, ""), true
}

// SplitCamel splits a camelCase or PascalCase identifier into lowercase
// words. Digits stick to the preceding word; acronym runs stay together
// ("HTTPStatus" → ["http", "status"]).
func SplitCamel(s string) []string {
	if s == "" {
		return nil
	}
	runes := []rune(s)
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		boundary := false
		switch {
		case unicode.IsLower(prev) && unicode.IsUpper(cur):
			boundary = true
		case unicode.IsUpper(prev) && unicode.IsUpper(cur) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			// End of an acronym run: "HTTPStatus" splits before "Status".
			boundary = true
		}
		if boundary {
			words = append(words, strings.ToLower(string(runes[start:i])))
			start = i
		}
	}
	words = append(words, strings.ToLower(string(runes[start:])))
	return words
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
