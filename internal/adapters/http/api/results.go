// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/samiksha-labs/samiksha/internal/adapters/repository"
	"github.com/samiksha-labs/samiksha/internal/domain/model"
)

// ResultDependencies defines the interface for reading analyses.
type ResultDependencies interface {
	Document(ctx context.Context, id string) (repository.DocumentRecord, error)
	ListDocuments(ctx context.Context) ([]repository.DocumentRecord, error)
	Result(ctx context.Context, id string) (*model.ProcessingResult, error)
}

// ResultsHandler handles analysis status and result reads.
type ResultsHandler struct {
	deps ResultDependencies
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps ResultDependencies) *ResultsHandler {
	return &ResultsHandler{deps: deps}
}

// analysisResponse is the read shape for GET /analyses/{id}. Result is only
// populated once the document completes.
type analysisResponse struct {
	DocumentID string                  `json:"documentId"`
	Filename   string                  `json:"filename"`
	Language   string                  `json:"language"`
	UploadedAt time.Time               `json:"uploadedAt"`
	Status     model.DocumentStatus    `json:"status"`
	Error      string                  `json:"error,omitempty"`
	Result     *model.ProcessingResult `json:"result,omitempty"`
}

// listResponse is the read shape for GET /analyses: every known document
// with its lifecycle status, results omitted.
type listResponse struct {
	Analyses []analysisResponse `json:"analyses"`
	Total    int                `json:"total"`
}

// HandleListAnalyses handles GET /analyses requests.
func (h *ResultsHandler) HandleListAnalyses(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_analyses"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	recs, err := h.deps.ListDocuments(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	resp := listResponse{Analyses: make([]analysisResponse, 0, len(recs)), Total: len(recs)}
	for _, rec := range recs {
		resp.Analyses = append(resp.Analyses, analysisResponse{
			DocumentID: rec.ID,
			Filename:   rec.Filename,
			Language:   rec.Language,
			UploadedAt: rec.UploadedAt,
			Status:     rec.Status,
			Error:      rec.Error,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleGetAnalysis handles GET /analyses/{document_id} requests.
func (h *ResultsHandler) HandleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_analysis"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /analyses/
	id := strings.TrimPrefix(r.URL.Path, "/analyses/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	rec, err := h.deps.Document(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	resp := analysisResponse{
		DocumentID: rec.ID,
		Filename:   rec.Filename,
		Language:   rec.Language,
		UploadedAt: rec.UploadedAt,
		Status:     rec.Status,
		Error:      rec.Error,
	}
	if rec.Status == model.StatusCompleted {
		result, rerr := h.deps.Result(r.Context(), id)
		if rerr != nil && !errors.Is(rerr, repository.ErrNotFound) {
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, rerr))
			return
		}
		resp.Result = result
	}
	writeJSON(w, http.StatusOK, resp)
}
