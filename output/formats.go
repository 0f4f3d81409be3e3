// Package output persists generated triples. The dispatcher writes each
// job's batch through a Sink; sinks include newline-delimited JSON files
// and an optional NATS publisher for pipelines that consume training
// data from a stream.
package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/tripleforge/catalog"
)

// FormatInfo provides metadata about an output format.
type FormatInfo struct {
	// Name is the format identifier.
	Name catalog.Format

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[catalog.Format]FormatInfo{
	catalog.FormatNormalized: {
		Name:        catalog.FormatNormalized,
		Extension:   ".jsonl",
		Description: "Triples seeded from normalized (property-object) samples",
	},
	catalog.FormatKeyValues: {
		Name:        catalog.FormatKeyValues,
		Extension:   ".jsonl",
		Description: "Triples seeded from key-values samples",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format catalog.Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat validates a format name.
func ParseFormat(s string) (catalog.Format, error) {
	format := catalog.Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := FormatRegistry[format]; !ok {
		return "", fmt.Errorf("unknown format %q (supported: %s)", s, strings.Join(SupportedFormats(), ", "))
	}
	return format, nil
}

// SupportedFormats lists registered format names, sorted.
func SupportedFormats() []string {
	names := make([]string, 0, len(FormatRegistry))
	for f := range FormatRegistry {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// FileName returns the per-job output file name,
// {subject}_{schema}_{format}.jsonl.
func FileName(ref catalog.Ref, format catalog.Format) string {
	info := FormatRegistry[format]
	ext := info.Extension
	if ext == "" {
		ext = ".jsonl"
	}
	return fmt.Sprintf("%s_%s_%s%s", ref.Subject, ref.Name, format, ext)
}
