package gen

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"math/rand"
	"time"

	"github.com/c360studio/tripleforge/catalog"
	"github.com/c360studio/tripleforge/gibberish"
	"github.com/c360studio/tripleforge/synonym"
	"github.com/c360studio/tripleforge/tree"
)

// Options controls one generation batch.
type Options struct {
	// Depth is the maximum number of extra properties removed per
	// sample; levels 0..Depth are generated.
	Depth int
	// MaxDepth caps Depth. Oversized depth requests degrade to the cap
	// instead of failing.
	MaxDepth int
	// Iterations is the number of triples generated per depth level.
	Iterations int
	// SynonymRatio is the fraction of property names replaced by
	// synonyms, 0 disables the pass.
	SynonymRatio float64
	// SnakeCase converts all property names to snake_case after
	// mutation.
	SnakeCase bool
	// Retained names are never removed nor renamed, at any depth.
	Retained catalog.PropertySet
	// AnyNegativeSubject draws negatives from any subject of Domain
	// instead of the target's own subject.
	AnyNegativeSubject bool
	// Domain scopes subject enumeration for cross-subject negatives.
	Domain string
	// Seed pins the random source for reproducible batches. 0 draws
	// fresh entropy per job.
	Seed int64
}

// DefaultOptions mirrors the production defaults of the generation
// environment.
func DefaultOptions() Options {
	return Options{
		Depth:        0,
		MaxDepth:     5,
		Iterations:   10,
		SynonymRatio: 0,
		Retained:     catalog.NewPropertySet("id", "type", "@context"),
	}
}

// Validate checks option sanity before a run.
func (o Options) Validate() error {
	if o.Depth < 0 {
		return fmt.Errorf("depth must be >= 0, got %d", o.Depth)
	}
	if o.MaxDepth < 0 {
		return fmt.Errorf("depth cap must be >= 0, got %d", o.MaxDepth)
	}
	if o.Iterations <= 0 {
		return fmt.Errorf("iterations must be > 0, got %d", o.Iterations)
	}
	if o.SynonymRatio < 0 || o.SynonymRatio > 1 {
		return fmt.Errorf("synonym ratio must be in [0,1], got %g", o.SynonymRatio)
	}
	return nil
}

// effectiveDepth applies the cap.
func (o Options) effectiveDepth() int {
	if o.Depth > o.MaxDepth {
		return o.MaxDepth
	}
	return o.Depth
}

// Builder assembles labeled triples for one schema and format at a
// time. A Builder is safe for concurrent BuildBatch calls: each call
// owns its random source and every tree it touches.
type Builder struct {
	provider catalog.Provider
	synonyms synonym.Provider
	pred     gibberish.Predicate
	scorer   Scorer
	opts     Options
	logger   *slog.Logger
}

// NewBuilder creates a batch builder. synonyms may be nil when the
// mutation pass is disabled; scorer defaults to DefaultScorer.
func NewBuilder(provider catalog.Provider, synonyms synonym.Provider, pred gibberish.Predicate, scorer Scorer, opts Options, logger *slog.Logger) (*Builder, error) {
	if provider == nil {
		return nil, fmt.Errorf("catalog provider is required")
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if pred == nil {
		pred = gibberish.Sentence
	}
	if scorer == nil {
		scorer = DefaultScorer()
	}
	if opts.Retained == nil {
		opts.Retained = DefaultOptions().Retained
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		provider: provider,
		synonyms: synonyms,
		pred:     pred,
		scorer:   scorer,
		opts:     opts,
		logger:   logger,
	}, nil
}

// BuildBatch generates Iterations × (depth+1) triples for the schema in
// the given format, depth ascending, iteration ascending within a depth.
func (b *Builder) BuildBatch(ctx context.Context, ref catalog.Ref, format catalog.Format) ([]Triple, error) {
	rng := b.newRand(ref, format)
	depth := b.opts.effectiveDepth()

	shared, err := b.provider.SharedProperties(ctx, ref.Subject)
	if err != nil {
		return nil, fmt.Errorf("shared properties for %s: %w", ref.Subject, err)
	}

	raw, err := b.provider.CanonicalSample(ctx, ref, format)
	if err != nil {
		return nil, fmt.Errorf("canonical sample for %s: %w", ref, err)
	}
	canonical, canonRec, err := Canonicalize(raw, ref, shared, b.opts.Retained, b.pred)
	if err != nil {
		return nil, err
	}

	meta := catalog.NewMetadata(ref, format)
	triples := make([]Triple, 0, b.opts.Iterations*(depth+1))

	for d := 0; d <= depth; d++ {
		for i := 0; i < b.opts.Iterations; i++ {
			positive := b.buildSample(canonical, canonRec, meta, d, b.scorer.Positive(d), rng)

			negative, err := b.buildNegative(ctx, ref, format, d, rng)
			if err != nil {
				return nil, fmt.Errorf("negative for %s depth %d iteration %d: %w", ref, d, i, err)
			}

			triples = append(triples, Triple{
				Target:   canonical.Clone(),
				Positive: positive,
				Negative: *negative,
			})
		}
	}

	b.logger.Debug("Batch complete",
		"schema", ref.String(),
		"format", string(format),
		"depth", depth,
		"triples", len(triples))
	return triples, nil
}

// buildSample runs the perturbation pipeline on a canonicalized tree.
func (b *Builder) buildSample(canonical tree.Tree, canonRec Canonicalization, meta catalog.Metadata, depth int, label float64, rng *rand.Rand) Sample {
	perturbed, removed := Perturb(canonical, depth, b.opts.Retained, canonRec.Unfitting, rng)
	mutated, modified := Mutate(perturbed, b.opts.SynonymRatio, b.opts.Retained, b.synonyms, rng)
	if b.opts.SnakeCase {
		mutated = Reformat(mutated, true)
	}

	rec := newMutationRecord()
	rec.Unfitting = append(rec.Unfitting, canonRec.Unfitting...)
	rec.Excluded = append(rec.Excluded, canonRec.Excluded...)
	rec.Excluded = append(rec.Excluded, tree.Strings(removed)...)
	for orig, repl := range modified {
		rec.Modified[orig] = repl
	}

	return Sample{
		Entity:         mutated,
		MutationRecord: rec,
		Label:          label,
		Metadata:       meta,
	}
}

// buildNegative generates a sample from a different schema. Picks are
// retried across the candidate set so one broken sibling sample does
// not fail the whole batch.
func (b *Builder) buildNegative(ctx context.Context, target catalog.Ref, format catalog.Format, depth int, rng *rand.Rand) (*Sample, error) {
	subject := target.Subject
	if b.opts.AnyNegativeSubject {
		subjects, err := b.provider.ListSubjects(ctx, b.opts.Domain)
		if err != nil {
			return nil, fmt.Errorf("list subjects: %w", err)
		}
		if len(subjects) == 0 {
			return nil, fmt.Errorf("no subjects available in domain %q", b.opts.Domain)
		}
		subject = subjects[rng.Intn(len(subjects))]
	}

	refs, err := b.provider.ListSchemas(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("list schemas for %s: %w", subject, err)
	}
	candidates := make([]catalog.Ref, 0, len(refs))
	for _, r := range refs {
		if r.Subject == target.Subject && r.Name == target.Name {
			continue
		}
		candidates = append(candidates, r)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no negative candidate schema in subject %s", subject)
	}

	var lastErr error
	for _, idx := range rng.Perm(len(candidates)) {
		negRef := candidates[idx]
		sample, err := b.negativeSample(ctx, negRef, format, depth, negRef.Subject == target.Subject, rng)
		if err != nil {
			b.logger.Warn("Negative candidate failed, retrying",
				"schema", negRef.String(),
				"error", err)
			lastErr = err
			continue
		}
		return sample, nil
	}
	return nil, lastErr
}

func (b *Builder) negativeSample(ctx context.Context, ref catalog.Ref, format catalog.Format, depth int, sameSubject bool, rng *rand.Rand) (*Sample, error) {
	shared, err := b.provider.SharedProperties(ctx, ref.Subject)
	if err != nil {
		return nil, err
	}
	raw, err := b.provider.CanonicalSample(ctx, ref, format)
	if err != nil {
		return nil, err
	}
	canonical, canonRec, err := Canonicalize(raw, ref, shared, b.opts.Retained, b.pred)
	if err != nil {
		return nil, err
	}
	sample := b.buildSample(canonical, canonRec, catalog.NewMetadata(ref, format), depth, b.scorer.Negative(depth, sameSubject), rng)
	return &sample, nil
}

// newRand derives a per-batch random source. With a configured seed the
// stream is a deterministic function of (seed, schema, format); without
// one each batch draws fresh entropy.
func (b *Builder) newRand(ref catalog.Ref, format catalog.Format) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(ref.String()))
	_, _ = h.Write([]byte(format))
	mix := int64(h.Sum64())

	seed := b.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed ^ mix))
}
