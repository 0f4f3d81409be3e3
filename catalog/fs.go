package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/tripleforge/tree"
)

// File layout of a catalog checkout, one directory per subject:
//
//	<root>/<subject>/subject.yaml                       (optional domain tags)
//	<root>/<subject>/<schema>/schema.json               (property definitions)
//	<root>/<subject>/<schema>/examples/example.json     (keyvalues sample)
//	<root>/<subject>/<schema>/examples/example-normalized.json
const (
	schemaFileName      = "schema.json"
	subjectMetaFileName = "subject.yaml"
	schemaGlobPattern   = "*/*/schema.json"
)

var exampleFiles = map[Format]string{
	FormatKeyValues:  "examples/example.json",
	FormatNormalized: "examples/example-normalized.json",
}

// FSCatalog serves a local checkout of the data-model repositories.
// Shared-property sets are computed on first use and cached; the cache
// is the only mutable state and is guarded for concurrent jobs.
type FSCatalog struct {
	fsys   fs.FS
	logger *slog.Logger

	mu          sync.Mutex
	sharedCache map[string]PropertySet
	propsCache  map[Ref]PropertySet
}

// NewFSCatalog opens a catalog rooted at dir.
func NewFSCatalog(dir string, logger *slog.Logger) (*FSCatalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat catalog root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("catalog root is not a directory: %s", dir)
	}
	return &FSCatalog{
		fsys:        os.DirFS(dir),
		logger:      logger,
		sharedCache: map[string]PropertySet{},
		propsCache:  map[Ref]PropertySet{},
	}, nil
}

// subjectMeta is the optional per-subject metadata file.
type subjectMeta struct {
	Domains []string `yaml:"domains"`
}

// CanonicalSample implements Provider.
func (c *FSCatalog) CanonicalSample(_ context.Context, ref Ref, format Format) (tree.Tree, error) {
	rel, ok := exampleFiles[format]
	if !ok {
		return nil, fmt.Errorf("unknown sample format: %q", format)
	}
	p := path.Join(ref.Subject, ref.Name, rel)
	data, err := fs.ReadFile(c.fsys, p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s %s: %w", format, ref, ErrSchemaNotFound)
		}
		return nil, fmt.Errorf("read sample %s: %w", p, err)
	}

	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, &InvalidSampleError{Ref: ref, Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return nil, &InvalidSampleError{Ref: ref, Reason: fmt.Sprintf("sample root is %T, not an object", root)}
	}
	return tree.Tree(obj), nil
}

// SharedProperties implements Provider.
func (c *FSCatalog) SharedProperties(ctx context.Context, subject string) (PropertySet, error) {
	c.mu.Lock()
	cached, ok := c.sharedCache[subject]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	refs, err := c.ListSchemas(ctx, subject)
	if err != nil {
		return nil, err
	}

	var shared PropertySet
	for _, ref := range refs {
		props, err := c.schemaProperties(ref)
		if err != nil {
			return nil, err
		}
		if shared == nil {
			shared = props
		} else {
			shared = shared.Intersect(props)
		}
	}
	if shared == nil {
		shared = PropertySet{}
	}

	c.logger.Debug("Computed shared properties",
		"subject", subject,
		"schemas", len(refs),
		"shared", len(shared))

	c.mu.Lock()
	c.sharedCache[subject] = shared
	c.mu.Unlock()
	return shared, nil
}

// ListSchemas implements Provider.
func (c *FSCatalog) ListSchemas(_ context.Context, subject string) ([]Ref, error) {
	matches, err := doublestar.Glob(c.fsys, path.Join(subject, "*", schemaFileName))
	if err != nil {
		return nil, fmt.Errorf("scan subject %s: %w", subject, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("subject %s: %w", subject, ErrSubjectNotFound)
	}

	domain := c.subjectDomain(subject)
	refs := make([]Ref, 0, len(matches))
	for _, m := range matches {
		parts := strings.Split(m, "/")
		refs = append(refs, Ref{Domain: domain, Subject: subject, Name: parts[len(parts)-2]})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// ListSubjects implements Provider.
func (c *FSCatalog) ListSubjects(_ context.Context, domain string) ([]string, error) {
	matches, err := doublestar.Glob(c.fsys, schemaGlobPattern)
	if err != nil {
		return nil, fmt.Errorf("scan catalog: %w", err)
	}

	seen := map[string]bool{}
	var subjects []string
	for _, m := range matches {
		subject := strings.Split(m, "/")[0]
		if seen[subject] {
			continue
		}
		seen[subject] = true
		if domain != "" && !c.subjectInDomain(subject, domain) {
			continue
		}
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)
	return subjects, nil
}

// subjectDomain returns the first domain tag of a subject, or "".
func (c *FSCatalog) subjectDomain(subject string) string {
	meta := c.readSubjectMeta(subject)
	if len(meta.Domains) == 0 {
		return ""
	}
	return meta.Domains[0]
}

func (c *FSCatalog) subjectInDomain(subject, domain string) bool {
	for _, d := range c.readSubjectMeta(subject).Domains {
		if d == domain {
			return true
		}
	}
	return false
}

func (c *FSCatalog) readSubjectMeta(subject string) subjectMeta {
	var meta subjectMeta
	data, err := fs.ReadFile(c.fsys, path.Join(subject, subjectMetaFileName))
	if err != nil {
		return meta
	}
	if err := yaml.Unmarshal(data, &meta); err != nil {
		c.logger.Warn("Malformed subject metadata", "subject", subject, "error", err)
	}
	return meta
}

// schemaProperties extracts the top-level property names a schema
// defines, from its "properties" block and from every "allOf" member's
// "properties" block. Remote $ref members are skipped.
func (c *FSCatalog) schemaProperties(ref Ref) (PropertySet, error) {
	c.mu.Lock()
	cached, ok := c.propsCache[ref]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	data, err := fs.ReadFile(c.fsys, path.Join(ref.Subject, ref.Name, schemaFileName))
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", ref, err)
	}

	var schema struct {
		Properties map[string]json.RawMessage `json:"properties"`
		AllOf      []struct {
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"allOf"`
	}
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", ref, err)
	}

	props := PropertySet{}
	for name := range schema.Properties {
		props[name] = struct{}{}
	}
	for _, member := range schema.AllOf {
		for name := range member.Properties {
			props[name] = struct{}{}
		}
	}

	c.mu.Lock()
	c.propsCache[ref] = props
	c.mu.Unlock()
	return props, nil
}
