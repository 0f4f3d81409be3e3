// Package dispatch fans generation jobs out over a fixed-size worker
// pool. A job is one (schema, format) pair; jobs share nothing mutable,
// so failures stay isolated: a panicking or failing job is recorded and
// its siblings keep running.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/tripleforge/catalog"
	"github.com/c360studio/tripleforge/gen"
	"github.com/c360studio/tripleforge/metric"
	"github.com/c360studio/tripleforge/output"
)

// Job is one unit of work: generate and persist a batch for a schema in
// one output format.
type Job struct {
	Ref    catalog.Ref
	Format catalog.Format
}

// String returns the job identity used in logs.
func (j Job) String() string {
	return fmt.Sprintf("%s/%s", j.Ref, j.Format)
}

// Jobs expands the (schema × format) matrix, schema-major so one
// schema's formats land next to each other in the summary.
func Jobs(refs []catalog.Ref, formats []catalog.Format) []Job {
	jobs := make([]Job, 0, len(refs)*len(formats))
	for _, ref := range refs {
		for _, f := range formats {
			jobs = append(jobs, Job{Ref: ref, Format: f})
		}
	}
	return jobs
}

// Result is one job's outcome.
type Result struct {
	Job      Job
	Triples  int
	Duration time.Duration
	Err      error
}

// Summary aggregates a run. Results keep submission order regardless of
// completion order.
type Summary struct {
	RunID     string
	Results   []Result
	Succeeded int
	Failed    int
}

// BatchBuilder produces one job's triples. *gen.Builder is the
// production implementation.
type BatchBuilder interface {
	BuildBatch(ctx context.Context, ref catalog.Ref, format catalog.Format) ([]gen.Triple, error)
}

// Dispatcher runs jobs on a bounded worker pool.
type Dispatcher struct {
	builder BatchBuilder
	sink    output.Sink
	workers int
	metrics *metric.Metrics
	logger  *slog.Logger
}

// NewDispatcher creates a dispatcher. workers <= 0 defaults to the CPU
// count; metrics may be nil.
func NewDispatcher(builder BatchBuilder, sink output.Sink, workers int, metrics *metric.Metrics, logger *slog.Logger) (*Dispatcher, error) {
	if builder == nil {
		return nil, fmt.Errorf("batch builder is required")
	}
	if sink == nil {
		return nil, fmt.Errorf("output sink is required")
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		builder: builder,
		sink:    sink,
		workers: workers,
		metrics: metrics,
		logger:  logger,
	}, nil
}

// Run executes all jobs and drains the pool. The returned error is
// non-nil only when jobs were submitted and none succeeded; individual
// failures are reported in the summary and logs.
func (d *Dispatcher) Run(ctx context.Context, jobs []Job) (Summary, error) {
	summary := Summary{
		RunID:   uuid.NewString(),
		Results: make([]Result, len(jobs)),
	}
	if len(jobs) == 0 {
		return summary, nil
	}

	workers := d.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}
	d.logger.Info("Dispatching generation jobs",
		"run_id", summary.RunID,
		"jobs", len(jobs),
		"workers", workers)

	indexCh := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexCh {
				summary.Results[idx] = d.runJob(ctx, jobs[idx])
			}
		}()
	}

	for idx := range jobs {
		indexCh <- idx
	}
	close(indexCh)
	wg.Wait()

	for _, res := range summary.Results {
		if res.Err != nil {
			summary.Failed++
			d.logger.Error("Job failed",
				"run_id", summary.RunID,
				"job", res.Job.String(),
				"error", res.Err)
		} else {
			summary.Succeeded++
		}
	}
	d.logger.Info("Run complete",
		"run_id", summary.RunID,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed)

	if summary.Succeeded == 0 {
		return summary, fmt.Errorf("all %d jobs failed", len(jobs))
	}
	return summary, nil
}

// runJob executes one job with panic containment. Each job owns its
// random source and every tree it touches; the only shared reads go
// through the provider, which is concurrency-safe.
func (d *Dispatcher) runJob(ctx context.Context, job Job) (res Result) {
	res.Job = job
	start := time.Now()
	defer func() {
		res.Duration = time.Since(start)
		if d.metrics != nil {
			d.metrics.JobDuration.Observe(res.Duration.Seconds())
			if res.Err != nil {
				d.metrics.JobsFailed.Inc()
			} else {
				d.metrics.JobsSucceeded.Inc()
				d.metrics.TriplesGenerated.WithLabelValues(string(job.Format)).Add(float64(res.Triples))
			}
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("job %s panicked: %v", job, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	triples, err := d.builder.BuildBatch(ctx, job.Ref, job.Format)
	if err != nil {
		res.Err = fmt.Errorf("build batch: %w", err)
		return res
	}
	if err := d.sink.WriteBatch(ctx, job.Ref, job.Format, triples); err != nil {
		res.Err = fmt.Errorf("persist batch: %w", err)
		return res
	}
	res.Triples = len(triples)

	d.logger.Debug("Job complete",
		"job", job.String(),
		"triples", res.Triples,
		"duration", time.Since(start))
	return res
}
