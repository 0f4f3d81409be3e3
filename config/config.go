// Package config provides configuration loading and management for
// tripleforge. Precedence is defaults, then the YAML config file, then
// the deployment's environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete tripleforge configuration.
type Config struct {
	Catalog    CatalogConfig    `yaml:"catalog"`
	Generation GenerationConfig `yaml:"generation"`
	Output     OutputConfig     `yaml:"output"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	NATS       NATSConfig       `yaml:"nats"`
}

// CatalogConfig selects the data-model catalog and the generation scope.
type CatalogConfig struct {
	// Root is the path of the local catalog checkout.
	Root string `yaml:"root"`
	// Domain scopes cross-subject negative sampling.
	Domain string `yaml:"domain"`
	// Subject is the subject to generate for (e.g. "dataModel.Battery").
	Subject string `yaml:"subject"`
	// Name optionally narrows generation to one schema of the subject.
	Name string `yaml:"name"`
}

// GenerationConfig configures the sample generation core.
type GenerationConfig struct {
	// Iterations is the number of triples produced per depth level.
	Iterations int `yaml:"iterations"`
	// Depth is the requested maximum perturbation depth.
	Depth int `yaml:"depth"`
	// DepthMaxThreshold caps Depth.
	DepthMaxThreshold int `yaml:"depth_max_threshold"`
	// SynonymRatio is the fraction of property names replaced by
	// synonyms (0 disables mutation).
	SynonymRatio float64 `yaml:"synonym_ratio"`
	// SnakeCase converts property names to snake_case after mutation.
	SnakeCase bool `yaml:"snake_case"`
	// RetainedProperties are never removed nor renamed.
	RetainedProperties []string `yaml:"retained_properties"`
	// AnyNegativeSubject draws negatives from any subject of the domain.
	AnyNegativeSubject bool `yaml:"any_negative_subject"`
	// SynonymLexicon is the path of the YAML thesaurus; empty disables
	// synonym mutation regardless of ratio.
	SynonymLexicon string `yaml:"synonym_lexicon"`
	// Seed pins the random source for reproducible runs; 0 draws fresh
	// entropy per job.
	Seed int64 `yaml:"seed"`
	// Workers bounds the dispatch pool; 0 means one per CPU.
	Workers int `yaml:"workers"`
}

// OutputConfig configures the sinks.
type OutputConfig struct {
	// Dir is the directory JSONL files are written to.
	Dir string `yaml:"dir"`
	// NormalizedEnabled generates triples from normalized samples.
	NormalizedEnabled bool `yaml:"normalized_enabled"`
	// KeyValuesEnabled generates triples from key-values samples.
	KeyValuesEnabled bool `yaml:"keyvalues_enabled"`

	// Presence of the format flags in the decoded YAML, so Merge can
	// distinguish an explicit false from an absent key.
	normalizedSet bool
	keyvaluesSet  bool
}

// UnmarshalYAML records which format flags the file actually sets.
func (o *OutputConfig) UnmarshalYAML(value *yaml.Node) error {
	var aux struct {
		Dir               *string `yaml:"dir"`
		NormalizedEnabled *bool   `yaml:"normalized_enabled"`
		KeyValuesEnabled  *bool   `yaml:"keyvalues_enabled"`
	}
	if err := value.Decode(&aux); err != nil {
		return err
	}
	if aux.Dir != nil {
		o.Dir = *aux.Dir
	}
	if aux.NormalizedEnabled != nil {
		o.NormalizedEnabled = *aux.NormalizedEnabled
		o.normalizedSet = true
	}
	if aux.KeyValuesEnabled != nil {
		o.KeyValuesEnabled = *aux.KeyValuesEnabled
		o.keyvaluesSet = true
	}
	return nil
}

// MetricsConfig configures the optional metrics listener.
type MetricsConfig struct {
	// Addr is the listen address for /metrics; empty disables it.
	Addr string `yaml:"addr"`
}

// NATSConfig configures the optional triple publisher.
type NATSConfig struct {
	// URL is the NATS server URL; empty disables publishing.
	URL string `yaml:"url"`
	// SubjectPrefix is the publish subject prefix.
	SubjectPrefix string `yaml:"subject_prefix"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Root: "./catalog",
		},
		Generation: GenerationConfig{
			Iterations:         10,
			Depth:              0,
			DepthMaxThreshold:  5,
			RetainedProperties: []string{"id", "type", "@context"},
		},
		Output: OutputConfig{
			Dir:               "./output",
			NormalizedEnabled: true,
			KeyValuesEnabled:  false,
		},
		NATS: NATSConfig{
			SubjectPrefix: "tripleforge.samples",
		},
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Catalog.Root == "" {
		return fmt.Errorf("catalog.root is required")
	}
	if c.Catalog.Subject == "" {
		return fmt.Errorf("catalog.subject is required")
	}
	if c.Generation.Iterations <= 0 {
		return fmt.Errorf("generation.iterations must be positive")
	}
	if c.Generation.Depth < 0 {
		return fmt.Errorf("generation.depth must not be negative")
	}
	if c.Generation.DepthMaxThreshold < 0 {
		return fmt.Errorf("generation.depth_max_threshold must not be negative")
	}
	if c.Generation.SynonymRatio < 0 || c.Generation.SynonymRatio > 1 {
		return fmt.Errorf("generation.synonym_ratio must be between 0 and 1")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	if !c.Output.NormalizedEnabled && !c.Output.KeyValuesEnabled {
		return fmt.Errorf("at least one output format must be enabled")
	}
	return nil
}

// Merge merges another config into this one (other takes precedence).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Catalog settings
	if other.Catalog.Root != "" {
		c.Catalog.Root = other.Catalog.Root
	}
	if other.Catalog.Domain != "" {
		c.Catalog.Domain = other.Catalog.Domain
	}
	if other.Catalog.Subject != "" {
		c.Catalog.Subject = other.Catalog.Subject
	}
	if other.Catalog.Name != "" {
		c.Catalog.Name = other.Catalog.Name
	}

	// Generation settings
	if other.Generation.Iterations != 0 {
		c.Generation.Iterations = other.Generation.Iterations
	}
	if other.Generation.Depth != 0 {
		c.Generation.Depth = other.Generation.Depth
	}
	if other.Generation.DepthMaxThreshold != 0 {
		c.Generation.DepthMaxThreshold = other.Generation.DepthMaxThreshold
	}
	if other.Generation.SynonymRatio != 0 {
		c.Generation.SynonymRatio = other.Generation.SynonymRatio
	}
	if other.Generation.SnakeCase {
		c.Generation.SnakeCase = true
	}
	if len(other.Generation.RetainedProperties) > 0 {
		c.Generation.RetainedProperties = other.Generation.RetainedProperties
	}
	if other.Generation.AnyNegativeSubject {
		c.Generation.AnyNegativeSubject = true
	}
	if other.Generation.SynonymLexicon != "" {
		c.Generation.SynonymLexicon = other.Generation.SynonymLexicon
	}
	if other.Generation.Seed != 0 {
		c.Generation.Seed = other.Generation.Seed
	}
	if other.Generation.Workers != 0 {
		c.Generation.Workers = other.Generation.Workers
	}

	// Output settings
	if other.Output.Dir != "" {
		c.Output.Dir = other.Output.Dir
	}
	if other.Output.normalizedSet {
		c.Output.NormalizedEnabled = other.Output.NormalizedEnabled
	} else if other.Output.NormalizedEnabled {
		c.Output.NormalizedEnabled = true
	}
	if other.Output.keyvaluesSet {
		c.Output.KeyValuesEnabled = other.Output.KeyValuesEnabled
	} else if other.Output.KeyValuesEnabled {
		c.Output.KeyValuesEnabled = true
	}

	// Metrics settings
	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}

	// NATS settings
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.SubjectPrefix != "" {
		c.NATS.SubjectPrefix = other.NATS.SubjectPrefix
	}
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
