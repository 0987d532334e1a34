// Package worker runs the asynchronous analysis pipeline: jobs come off the
// queue, go through the orchestrator once, and land in the results store.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/samiksha-labs/samiksha/internal/adapters/mq/queue"
	"github.com/samiksha-labs/samiksha/internal/domain/analysis"
	"github.com/samiksha-labs/samiksha/internal/domain/model"
	"github.com/samiksha-labs/samiksha/pkg/logger"
	"github.com/samiksha-labs/samiksha/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Analyzer evaluates one document. The orchestrator satisfies this.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*model.ProcessingResult, error)
}

// Store is the slice of the results store workers write to.
type Store interface {
	SetStatus(ctx context.Context, id string, status model.DocumentStatus, message string) error
	SaveResult(ctx context.Context, res *model.ProcessingResult, elapsed time.Duration) error
}

// Tracker releases in-flight document ids once processing ends.
type Tracker interface {
	End(ctx context.Context, id string)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes analysis jobs from the queue.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing jobs.
type InMemoryWorker struct {
	queue    Queue
	analyzer Analyzer
	store    Store
	tracker  Tracker
	name     string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, analyzer Analyzer, store Store, tracker Tracker, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		analyzer: analyzer,
		store:    store,
		tracker:  tracker,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing job",
					logger.String("documentID", job.Document.ID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob runs one document through the pipeline. There are no retries;
// any failure marks the document failed with the error message.
func (w *InMemoryWorker) processJob(ctx context.Context, job queue.Job) error {
	id := job.Document.ID
	defer w.tracker.End(ctx, id)

	if err := w.store.SetStatus(ctx, id, model.StatusProcessing, ""); err != nil {
		w.logger.Warn(ctx, "status transition failed",
			logger.String("documentID", id),
			logger.Error(err),
		)
	}

	start := time.Now()
	result, err := w.analyzer.Analyze(ctx, analysis.Request{
		DocumentID:        id,
		Language:          job.Document.Language,
		DeclaredCostCrore: job.DeclaredCostCrore,
		Sector:            job.Sector,
		Evidence:          job.Evidence,
	})
	elapsed := time.Since(start)
	metrics.RecordAnalysisLatency(float64(elapsed.Microseconds()) / 1000.0)

	if err != nil {
		metrics.RecordAnalysisFailed()
		if serr := w.store.SetStatus(ctx, id, model.StatusFailed, err.Error()); serr != nil {
			w.logger.Error(ctx, "failed to record failure",
				logger.String("documentID", id),
				logger.Error(serr),
			)
		}
		return fmt.Errorf("analyze document %s: %w", id, err)
	}

	if err := w.store.SaveResult(ctx, result, elapsed); err != nil {
		metrics.RecordAnalysisFailed()
		if serr := w.store.SetStatus(ctx, id, model.StatusFailed, err.Error()); serr != nil {
			w.logger.Error(ctx, "failed to record failure",
				logger.String("documentID", id),
				logger.Error(serr),
			)
		}
		return fmt.Errorf("persist result for %s: %w", id, err)
	}

	if err := w.store.SetStatus(ctx, id, model.StatusCompleted, ""); err != nil {
		return fmt.Errorf("complete document %s: %w", id, err)
	}

	metrics.RecordAnalysisCompleted(string(result.Scores.Grade))
	metrics.ObserveRisk("cost_overrun", result.Risk.CostOverrunRisk)
	metrics.ObserveRisk("delay", result.Risk.DelayRisk)
	metrics.ObserveRisk("implementation", result.Risk.ImplementationRisk)

	w.logger.Debug(ctx, "document analyzed",
		logger.String("documentID", id),
		logger.String("grade", string(result.Scores.Grade)),
		logger.Float64("total", result.Scores.Total),
	)
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker

	// Shutdown control
	shutdown chan struct{}
	queue    Queue

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, q Queue, analyzer Analyzer, store Store, tracker Tracker) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		shutdown: make(chan struct{}),
		queue:    q,
		logger:   logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			q,
			analyzer,
			store,
			tracker,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)

	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// Close the queue first so workers drain what is already queued.
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	close(p.shutdown)

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	metrics.UpdateWorkerCount(0)

	return nil
}
