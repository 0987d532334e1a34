// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/samiksha-labs/samiksha/internal/adapters/mq/queue"
	"github.com/samiksha-labs/samiksha/internal/domain/model"
	"github.com/samiksha-labs/samiksha/pkg/metrics"
)

// Default language assumed when the submission does not declare one.
const defaultLanguage = "EN"

// AnalysisDependencies defines the interface for submitting documents.
type AnalysisDependencies interface {
	Begin(ctx context.Context, id string) bool
	End(ctx context.Context, id string)
	Register(ctx context.Context, doc model.Document) error
	Enqueue(ctx context.Context, j queue.Job) bool
}

// AnalysesHandler handles document submissions.
type AnalysesHandler struct {
	deps AnalysisDependencies
}

// NewAnalysesHandler creates a new analyses handler.
func NewAnalysesHandler(deps AnalysisDependencies) *AnalysesHandler {
	return &AnalysesHandler{deps: deps}
}

// HandlePostAnalysis handles POST /analyses requests.
func (h *AnalysesHandler) HandlePostAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_analysis"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	id := req.DocumentID
	if id == "" {
		id = uuid.NewString()
	}
	language := req.Language
	if language == "" {
		language = defaultLanguage
	}

	// In-flight check. A resubmission of a finished document is allowed and
	// re-scores it; only concurrent duplicates are rejected.
	if !h.deps.Begin(r.Context(), id) {
		metrics.RecordDuplicate()
		writeJSON(w, http.StatusOK, ackResponse{DocumentID: id, Status: "duplicate", Duplicate: true})
		return
	}

	doc := model.Document{
		ID:         id,
		Filename:   req.Filename,
		Language:   language,
		UploadedAt: time.Now().UTC(),
		Status:     model.StatusUploaded,
	}
	if err := h.deps.Register(r.Context(), doc); err != nil {
		h.deps.End(r.Context(), id)
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	job := queue.Job{
		Document:          doc,
		DeclaredCostCrore: req.DeclaredCostCrore,
		Sector:            req.Sector,
		Evidence:          req.bundle(),
		EnqueuedAt:        time.Now().UTC(),
	}
	if ok := h.deps.Enqueue(r.Context(), job); !ok {
		// Roll back the in-flight mark since enqueue failed
		h.deps.End(r.Context(), id)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}

	metrics.RecordSubmission()
	writeJSON(w, http.StatusAccepted, ackResponse{DocumentID: id, Status: "accepted", Duplicate: false})
}
