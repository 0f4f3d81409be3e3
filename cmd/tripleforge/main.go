// Package main provides the tripleforge binary entry point.
// Tripleforge generates target/positive/negative training triples from
// a smart-data-models catalog for schema-recognition model distillation.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/tripleforge/catalog"
	"github.com/c360studio/tripleforge/config"
	"github.com/c360studio/tripleforge/dispatch"
	"github.com/c360studio/tripleforge/gen"
	"github.com/c360studio/tripleforge/gibberish"
	"github.com/c360studio/tripleforge/metric"
	"github.com/c360studio/tripleforge/output"
	"github.com/c360studio/tripleforge/synonym"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "tripleforge"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "tripleforge",
		Short: "Training-triple generator for schema recognition",
		Long: `Tripleforge builds target/positive/negative training triples from a
smart-data-models catalog. Positives are canonicalized samples with a
controlled number of properties removed and optionally renamed through
synonyms; negatives are samples of a different schema.

Configuration is layered: defaults, then config file, then environment
variables.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(generateCmd(&configPath, &logLevel))
	cmd.AddCommand(catalogCmd(&configPath, &logLevel))

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func generateCmd(configPath, logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate training triples for the configured subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(*logLevel)
			cfg, err := loadConfig(*configPath, logger)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runGenerate(ctx, cfg, logger)
		},
	}
}

func runGenerate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	cat, err := catalog.NewFSCatalog(cfg.Catalog.Root, logger)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}

	synonyms, err := loadSynonyms(cfg, logger)
	if err != nil {
		return err
	}

	builder, err := gen.NewBuilder(cat, synonyms, gibberish.Sentence, nil, generatorOptions(cfg), logger)
	if err != nil {
		return fmt.Errorf("create builder: %w", err)
	}

	sink, closeSinks, err := buildSinks(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSinks()

	var metrics *metric.Metrics
	if cfg.Metrics.Addr != "" {
		metrics = metric.New()
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, logger); err != nil {
				logger.Error("Metrics listener failed", "error", err)
			}
		}()
	}

	jobs, err := planJobs(ctx, cfg, cat)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no generation jobs for subject %s", cfg.Catalog.Subject)
	}

	dispatcher, err := dispatch.NewDispatcher(builder, sink, cfg.Generation.Workers, metrics, logger)
	if err != nil {
		return fmt.Errorf("create dispatcher: %w", err)
	}

	summary, err := dispatcher.Run(ctx, jobs)
	if err != nil {
		return err
	}

	logger.Info("Generation finished",
		"run_id", summary.RunID,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"output_dir", cfg.Output.Dir)
	return nil
}

// generatorOptions maps the loaded config onto the builder options.
func generatorOptions(cfg *config.Config) gen.Options {
	opts := gen.DefaultOptions()
	opts.Depth = cfg.Generation.Depth
	opts.MaxDepth = cfg.Generation.DepthMaxThreshold
	opts.Iterations = cfg.Generation.Iterations
	opts.SynonymRatio = cfg.Generation.SynonymRatio
	opts.SnakeCase = cfg.Generation.SnakeCase
	opts.Retained = catalog.NewPropertySet(cfg.Generation.RetainedProperties...)
	opts.AnyNegativeSubject = cfg.Generation.AnyNegativeSubject
	opts.Domain = cfg.Catalog.Domain
	opts.Seed = cfg.Generation.Seed
	return opts
}

// planJobs expands the configured scope into the (schema × format)
// matrix. SDM-NAME narrows to one schema; otherwise every schema of the
// subject is generated.
func planJobs(ctx context.Context, cfg *config.Config, cat catalog.Provider) ([]dispatch.Job, error) {
	var refs []catalog.Ref
	if cfg.Catalog.Name != "" {
		refs = []catalog.Ref{{
			Domain:  cfg.Catalog.Domain,
			Subject: cfg.Catalog.Subject,
			Name:    cfg.Catalog.Name,
		}}
	} else {
		var err error
		refs, err = cat.ListSchemas(ctx, cfg.Catalog.Subject)
		if err != nil {
			return nil, fmt.Errorf("list schemas: %w", err)
		}
	}

	var formats []catalog.Format
	if cfg.Output.NormalizedEnabled {
		formats = append(formats, catalog.FormatNormalized)
	}
	if cfg.Output.KeyValuesEnabled {
		formats = append(formats, catalog.FormatKeyValues)
	}

	return dispatch.Jobs(refs, formats), nil
}

func loadSynonyms(cfg *config.Config, logger *slog.Logger) (synonym.Provider, error) {
	if cfg.Generation.SynonymLexicon == "" || cfg.Generation.SynonymRatio == 0 {
		return synonym.Empty{}, nil
	}
	lexicon, err := synonym.LoadLexicon(cfg.Generation.SynonymLexicon)
	if err != nil {
		return nil, fmt.Errorf("load synonym lexicon: %w", err)
	}
	logger.Info("Loaded synonym lexicon",
		"path", cfg.Generation.SynonymLexicon,
		"entries", len(lexicon))
	return lexicon, nil
}

func buildSinks(cfg *config.Config, logger *slog.Logger) (output.Sink, func(), error) {
	writer, err := output.NewJSONLWriter(cfg.Output.Dir, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("create output writer: %w", err)
	}

	if cfg.NATS.URL == "" {
		return writer, func() {}, nil
	}

	publisher, err := output.NewPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect publisher: %w", err)
	}
	return output.Multi{writer, publisher}, publisher.Close, nil
}

func catalogCmd(configPath, logLevel *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the local data-model catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "subjects [domain]",
		Short: "List subjects, optionally scoped to a domain",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(*logLevel)
			cat, err := openCatalog(*configPath, logger)
			if err != nil {
				return err
			}
			domain := ""
			if len(args) == 1 {
				domain = args[0]
			}
			subjects, err := cat.ListSubjects(cmd.Context(), domain)
			if err != nil {
				return err
			}
			for _, s := range subjects {
				fmt.Println(s)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "schemas <subject>",
		Short: "List schemas of a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(*logLevel)
			cat, err := openCatalog(*configPath, logger)
			if err != nil {
				return err
			}
			refs, err := cat.ListSchemas(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, ref := range refs {
				fmt.Printf("%s\t%s\n", ref.Name, catalog.SchemaURL(ref.Subject, ref.Name))
			}
			return nil
		},
	})

	return cmd
}

// openCatalog resolves the catalog root without requiring a full
// generation config; listing commands only need catalog.root.
func openCatalog(configPath string, logger *slog.Logger) (*catalog.FSCatalog, error) {
	cfg := config.DefaultConfig()
	if configPath != "" {
		fileCfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg.Merge(fileCfg)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cat, err := catalog.NewFSCatalog(cfg.Catalog.Root, logger)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	return cat, nil
}

func loadConfig(configPath string, logger *slog.Logger) (*config.Config, error) {
	loader := config.NewLoader(logger)
	if configPath != "" {
		return loader.LoadFile(configPath)
	}
	return loader.Load()
}

func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
