package gen

import (
	"regexp"
	"strings"

	"github.com/c360studio/tripleforge/tree"
)

var (
	camelBoundaryRe = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	lowerUpperRe    = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// Reformat converts every property name at every depth between
// camelCase and snake_case. Values and nesting are untouched; a key
// already in the target case passes through unchanged.
func Reformat(t tree.Tree, toSnake bool) tree.Tree {
	conv := snakeToCamel
	if toSnake {
		conv = camelToSnake
	}
	return tree.Tree(reformatValue(map[string]any(t), conv).(map[string]any))
}

func reformatValue(v any, conv func(string) string) any {
	switch val := v.(type) {
	case tree.Tree:
		return reformatValue(map[string]any(val), conv)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[conv(k)] = reformatValue(child, conv)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = reformatValue(elem, conv)
		}
		return out
	default:
		return v
	}
}

func camelToSnake(s string) string {
	s = camelBoundaryRe.ReplaceAllString(s, "${1}_${2}")
	s = lowerUpperRe.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(s)
}

func snakeToCamel(s string) string {
	parts := strings.Split(s, "_")
	if len(parts) == 1 {
		return s
	}
	var b strings.Builder
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == 0 {
			b.WriteString(part)
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
