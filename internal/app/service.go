// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"

	jobqueue "github.com/samiksha-labs/samiksha/internal/adapters/mq/queue"
	workerpool "github.com/samiksha-labs/samiksha/internal/adapters/mq/worker"
	"github.com/samiksha-labs/samiksha/internal/adapters/repository"
	"github.com/samiksha-labs/samiksha/internal/config"
	"github.com/samiksha-labs/samiksha/internal/domain/analysis"
	"github.com/samiksha-labs/samiksha/internal/domain/dedupe"
	"github.com/samiksha-labs/samiksha/internal/domain/eligibility"
	"github.com/samiksha-labs/samiksha/internal/domain/model"
	"github.com/samiksha-labs/samiksha/internal/domain/recommend"
	"github.com/samiksha-labs/samiksha/internal/domain/risk"
	"github.com/samiksha-labs/samiksha/internal/domain/scoring"
	"github.com/samiksha-labs/samiksha/pkg/logger"
	"github.com/samiksha-labs/samiksha/pkg/metrics"
)

// alignmentLadder maps policy-alignment evidence strength to fractions of
// the GatiShakti ceiling when the finding is not outright satisfied.
func alignmentLadder() []scoring.AlignmentBand {
	return []scoring.AlignmentBand{
		{Min: 0.75, Fraction: 1.0},
		{Min: 0.5, Fraction: 0.6},
		{Min: 0.25, Fraction: 0.3},
	}
}

// Service implements the API dependencies for the appraisal pipeline.
type Service struct {
	mu sync.RWMutex

	// Core components
	store        repository.Store
	tracker      dedupe.Tracker
	jobQueue     jobqueue.Queue
	orchestrator *analysis.Orchestrator
	workerPool   *workerpool.Pool

	// Configuration
	cfg *config.Config

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig sets the full service configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.cfg.WorkerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.cfg.QueueSize = size
		}
	}
}

// WithTrackerSize sets the capacity of the in-flight tracker.
func WithTrackerSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.cfg.TrackerSize = size
		}
	}
}

// WithResultsPath sets the SQLite results store location.
func WithResultsPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.cfg.ResultsPath = path
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cfg:    config.New(),
		stopCh: make(chan struct{}),
		logger: nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting appraisal service...")

	store, err := repository.NewSQLiteStore(ctx,
		repository.WithPath(s.cfg.ResultsPath),
	)
	if err != nil {
		return fmt.Errorf("start appraisal service: %w", err)
	}
	s.store = store
	s.tracker = dedupe.NewInMemoryTracker(
		dedupe.WithMaxSize(s.cfg.TrackerSize),
	)
	s.jobQueue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.cfg.QueueSize),
		jobqueue.WithBufferSize(s.cfg.QueueSize),
	)
	s.orchestrator = newOrchestrator(s.cfg)

	s.workerPool = workerpool.NewPool(s.cfg.WorkerCount, s.jobQueue, s.orchestrator, s.store, s.tracker)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "appraisal service started",
		logger.Int("workers", s.cfg.WorkerCount),
		logger.Int("queueSize", s.cfg.QueueSize),
		logger.Int("trackerSize", s.cfg.TrackerSize),
		logger.String("resultsPath", s.cfg.ResultsPath),
	)

	return nil
}

// newOrchestrator assembles the scoring pipeline from configuration.
func newOrchestrator(cfg *config.Config) *analysis.Orchestrator {
	sc := cfg.Scoring
	return analysis.New(analysis.Deps{
		Completeness: scoring.NewScorer(scoring.CriterionSpec{
			Name:     analysis.CriterionCompleteness,
			MaxScore: sc.CompletenessMax,
			Checks:   sc.CompletenessChecks,
		}),
		Technical: scoring.NewScorer(scoring.CriterionSpec{
			Name:     analysis.CriterionTechnical,
			MaxScore: sc.TechnicalMax,
			Checks:   sc.TechnicalChecks,
		}),
		GatiShakti: scoring.NewAlignmentScorer(scoring.AlignmentSpec{
			Name:     analysis.CriterionGatiShakti,
			MaxScore: sc.GatiShaktiMax,
			Check:    sc.GatiShaktiCheck,
			Ladder:   alignmentLadder(),
		}),
		Impact: scoring.NewScorer(scoring.CriterionSpec{
			Name:     analysis.CriterionImpact,
			MaxScore: sc.ImpactMax,
			Checks:   sc.ImpactChecks,
		}),
		Compliance: scoring.NewScorer(scoring.CriterionSpec{
			Name:       analysis.CriterionCompliance,
			MaxScore:   sc.ComplianceMax,
			Checks:     sc.ComplianceChecks,
			Preference: model.CompliancePreference(),
		}),
		Aggregator: scoring.NewAggregator(sc.MaxTotal, scoring.GradeThresholds{
			Excellent: sc.GradeExcellent,
			Good:      sc.GradeGood,
			Fair:      sc.GradeFair,
		}),
		Predictor: risk.NewPredictor(
			risk.WithWeights(cfg.Risk.CostOverrunWeight, cfg.Risk.DelayWeight, cfg.Risk.ImplementationWeight),
			risk.WithPenalties(cfg.Risk.CostOverrunPenalty, cfg.Risk.DelayPenalty, cfg.Risk.ImplementationPenalty),
			risk.WithPenaltyChecks(cfg.Risk.OMPlanCheck, cfg.Risk.TimelineCheck, cfg.Risk.PolicyAlignmentCheck),
		),
		Checker: eligibility.NewChecker(
			eligibility.WithBudgetBand(cfg.Eligibility.BudgetMinCrore, cfg.Eligibility.BudgetMaxCrore),
			eligibility.WithNegativeSectors(cfg.Eligibility.NegativeSectors),
			eligibility.WithConsistencyChecks(cfg.Eligibility.BudgetConsistencyCheck, cfg.Eligibility.TimelineCheck),
			eligibility.WithRequiredChecks(cfg.AllChecks()),
		),
		Engine: recommend.NewEngine(
			recommend.WithThresholds(
				cfg.Recommend.DelayRiskThreshold,
				cfg.Recommend.ComplianceThreshold,
				cfg.Recommend.TechnicalQualityThreshold,
			),
		),
		ValidationChecks: cfg.AllChecks(),
	})
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping appraisal service...")

	// Close the queue first so workers drain, then stop the pool.
	if s.jobQueue != nil {
		_ = s.jobQueue.Close()
	}
	if s.workerPool != nil {
		s.workerPool.Stop()
	}
	if s.store != nil {
		_ = s.store.Close()
	}

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(ctx, "appraisal service stopped")
}

// Begin atomically marks a document id as in flight. Returns false when an
// analysis for the same id is already pending or running.
func (s *Service) Begin(ctx context.Context, id string) bool {
	return s.tracker.Begin(ctx, id)
}

// End releases an in-flight document id, allowing resubmission.
func (s *Service) End(ctx context.Context, id string) {
	s.tracker.End(ctx, id)
}

// Register persists a document in uploaded status.
func (s *Service) Register(ctx context.Context, doc model.Document) error {
	if err := s.store.RegisterDocument(ctx, doc); err != nil {
		return fmt.Errorf("register document: %w", err)
	}
	metrics.UpdateDocumentsTotal(s.store.Count(ctx))
	return nil
}

// Enqueue submits a job for asynchronous processing.
func (s *Service) Enqueue(ctx context.Context, j jobqueue.Job) bool {
	s.logger.Debug(ctx, "enqueueing analysis job",
		logger.String("documentID", j.Document.ID),
		logger.String("filename", j.Document.Filename),
		logger.Float64("declaredCostCrore", j.DeclaredCostCrore),
	)
	return s.jobQueue.Enqueue(ctx, j)
}

// Document returns the stored record for a document id.
func (s *Service) Document(ctx context.Context, id string) (repository.DocumentRecord, error) {
	rec, err := s.store.Document(ctx, id)
	if err != nil {
		return repository.DocumentRecord{}, fmt.Errorf("load document: %w", err)
	}
	return rec, nil
}

// ListDocuments returns every stored document record, newest upload first.
func (s *Service) ListDocuments(ctx context.Context) ([]repository.DocumentRecord, error) {
	recs, err := s.store.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return recs, nil
}

// Result returns the persisted analysis result for a document id.
func (s *Service) Result(ctx context.Context, id string) (*model.ProcessingResult, error) {
	res, err := s.store.Result(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load result: %w", err)
	}
	return res, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.cfg.WorkerCount,
		"queueSize":   s.cfg.QueueSize,
		"trackerSize": s.cfg.TrackerSize,
	}

	if s.started {
		queueLen := s.jobQueue.Len(ctx)
		totalDocuments := s.store.Count(ctx)

		stats["queueLength"] = queueLen
		stats["inFlight"] = s.tracker.Size()
		stats["totalDocuments"] = totalDocuments

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateDocumentsTotal(totalDocuments)
		metrics.UpdateWorkerCount(s.cfg.WorkerCount)
	}

	return stats
}

// Size returns the current number of in-flight documents.
func (s *Service) Size() int64 {
	if s.tracker == nil {
		return 0
	}
	return s.tracker.Size()
}
