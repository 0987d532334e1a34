// Package dedupe tracks in-flight analysis submissions so a document is
// never double-enqueued while a previous run is still pending. Completed
// documents may be resubmitted: results are deterministic, so a re-score
// overwrites with identical output.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Default tracker capacity.
const defaultMaxSize = 50_000

// Tracker records document ids whose analysis is pending or running.
type Tracker interface {
	// Begin atomically marks id as in flight. Returns false when id was
	// already in flight (or the tracker is at capacity) and the caller must
	// not enqueue.
	Begin(ctx context.Context, id string) bool

	// End releases id after the analysis finished, successfully or not.
	End(ctx context.Context, id string)

	// Size returns the number of ids currently in flight.
	Size() int64
}

// Option applies a configuration option to the in-memory tracker.
type Option func(*inMemoryTracker)

// WithMaxSize caps the number of simultaneously tracked ids. At the cap,
// Begin rejects new ids rather than evicting running ones.
func WithMaxSize(n int) Option {
	return func(t *inMemoryTracker) {
		if n > 0 {
			t.maxSize = n
		}
	}
}

type inMemoryTracker struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
	maxSize  int
	size     atomic.Int64
}

// NewInMemoryTracker creates an in-memory tracker with configuration options.
func NewInMemoryTracker(opts ...Option) Tracker {
	t := &inMemoryTracker{
		inFlight: make(map[string]struct{}),
		maxSize:  defaultMaxSize,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *inMemoryTracker) Begin(_ context.Context, id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.inFlight[id]; exists {
		return false
	}
	if len(t.inFlight) >= t.maxSize {
		return false
	}
	t.inFlight[id] = struct{}{}
	t.size.Add(1)
	return true
}

func (t *inMemoryTracker) End(_ context.Context, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.inFlight[id]; exists {
		delete(t.inFlight, id)
		t.size.Add(-1)
	}
}

func (t *inMemoryTracker) Size() int64 {
	return t.size.Load()
}
