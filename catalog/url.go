package catalog

import (
	"fmt"
	"strings"
)

const (
	schemaURLPrefix = "https://raw.githubusercontent.com/smart-data-models/"
	schemaURLSuffix = "/schema.json"
	schemaURLBranch = "/master/"
)

// SchemaURL returns the canonical raw schema URL for a subject and
// schema name. The URL is carried as sample metadata; providers do not
// fetch it.
func SchemaURL(subject, name string) string {
	return schemaURLPrefix + subject + schemaURLBranch + name + schemaURLSuffix
}

// ParseSchemaURL extracts subject and schema name from a canonical
// schema URL.
func ParseSchemaURL(url string) (subject, name string, err error) {
	s := strings.TrimPrefix(url, schemaURLPrefix)
	s = strings.TrimSuffix(s, schemaURLSuffix)
	if s == url || !strings.Contains(s, schemaURLBranch) {
		return "", "", fmt.Errorf("not a schema URL: %s", url)
	}
	parts := strings.SplitN(s, schemaURLBranch, 2)
	if parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("not a schema URL: %s", url)
	}
	return parts[0], parts[1], nil
}
