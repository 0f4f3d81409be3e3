package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variable names. The hyphenated forms match the container
// deployment this service inherited; they are read via os.Getenv, which
// permits hyphens even though shells do not export them.
const (
	EnvIterations         = "GEN-ITERATIONS"
	EnvDepth              = "GEN-DEPTH"
	EnvDepthMaxThreshold  = "GEN-DEPTH-MAX-THR"
	EnvSeed               = "GEN-SEED"
	EnvWorkers            = "GEN-WORKERS"
	EnvSynonymRatio       = "SYN-BATCH-RATIO"
	EnvSynonymLexicon     = "SYNONYM-LEXICON"
	EnvSnakeCase          = "ENABLE-SNAKE-CASE"
	EnvDomain             = "SDM-DOMAIN"
	EnvSubject            = "SDM-SUBJECT"
	EnvName               = "SDM-NAME"
	EnvRetained           = "RETAINED-SHARED-PROPERTIES"
	EnvAnyNegativeSubject = "ANY-NEGATIVE-SUBJECT"
	EnvCatalogRoot        = "CATALOG-ROOT"
	EnvOutputDir          = "OUTPUT-DIR"
	EnvNormalizedEnabled  = "OUT-NORMALIZED-ENABLED"
	EnvKeyValuesEnabled   = "OUT-KEYVALUES-ENABLED"
	EnvMetricsAddr        = "METRICS-ADDR"
	EnvNATSURL            = "NATS-URL"
	EnvNATSSubjectPrefix  = "NATS-SUBJECT-PREFIX"
)

// ApplyEnv overrides config fields from environment variables. Unset
// variables leave the config untouched; malformed values are reported.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvCatalogRoot); ok {
		c.Catalog.Root = v
	}
	if v, ok := os.LookupEnv(EnvDomain); ok {
		c.Catalog.Domain = v
	}
	if v, ok := os.LookupEnv(EnvSubject); ok {
		c.Catalog.Subject = v
	}
	if v, ok := os.LookupEnv(EnvName); ok {
		c.Catalog.Name = v
	}

	if err := envInt(EnvIterations, &c.Generation.Iterations); err != nil {
		return err
	}
	if err := envInt(EnvDepth, &c.Generation.Depth); err != nil {
		return err
	}
	if err := envInt(EnvDepthMaxThreshold, &c.Generation.DepthMaxThreshold); err != nil {
		return err
	}
	if err := envInt(EnvWorkers, &c.Generation.Workers); err != nil {
		return err
	}
	if err := envInt64(EnvSeed, &c.Generation.Seed); err != nil {
		return err
	}
	if err := envFloat(EnvSynonymRatio, &c.Generation.SynonymRatio); err != nil {
		return err
	}
	if err := envBool(EnvSnakeCase, &c.Generation.SnakeCase); err != nil {
		return err
	}
	if err := envBool(EnvAnyNegativeSubject, &c.Generation.AnyNegativeSubject); err != nil {
		return err
	}
	if v, ok := os.LookupEnv(EnvSynonymLexicon); ok {
		c.Generation.SynonymLexicon = v
	}
	if v, ok := os.LookupEnv(EnvRetained); ok {
		c.Generation.RetainedProperties = splitCSV(v)
	}

	if v, ok := os.LookupEnv(EnvOutputDir); ok {
		c.Output.Dir = v
	}
	if err := envBool(EnvNormalizedEnabled, &c.Output.NormalizedEnabled); err != nil {
		return err
	}
	if err := envBool(EnvKeyValuesEnabled, &c.Output.KeyValuesEnabled); err != nil {
		return err
	}

	if v, ok := os.LookupEnv(EnvMetricsAddr); ok {
		c.Metrics.Addr = v
	}
	if v, ok := os.LookupEnv(EnvNATSURL); ok {
		c.NATS.URL = v
	}
	if v, ok := os.LookupEnv(EnvNATSSubjectPrefix); ok {
		c.NATS.SubjectPrefix = v
	}

	return nil
}

func envInt(name string, dst *int) error {
	v, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = parsed
	return nil
}

func envInt64(name string, dst *int64) error {
	v, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = parsed
	return nil
}

func envFloat(name string, dst *float64) error {
	v, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = parsed
	return nil
}

// envBool accepts strconv forms plus the capitalized "True"/"False"
// spellings older deployments use.
func envBool(name string, dst *bool) error {
	v, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = parsed
	return nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
