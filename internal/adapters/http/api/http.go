// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/samiksha-labs/samiksha/internal/adapters/mq/queue"
	"github.com/samiksha-labs/samiksha/internal/adapters/repository"
	"github.com/samiksha-labs/samiksha/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Begin marks a document as in flight. Returns false when an analysis
	// for the same id is already running.
	Begin(ctx context.Context, id string) bool

	// End releases an in-flight document id, used to roll back after a
	// failed enqueue.
	End(ctx context.Context, id string)

	// Register persists the document in uploaded status.
	Register(ctx context.Context, doc model.Document) error

	// Enqueue pushes a job for async processing. Returns false on
	// backpressure.
	Enqueue(ctx context.Context, j queue.Job) bool

	// Read operations expose stored documents and results.
	Document(ctx context.Context, id string) (repository.DocumentRecord, error)
	ListDocuments(ctx context.Context) ([]repository.DocumentRecord, error)
	Result(ctx context.Context, id string) (*model.ProcessingResult, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	analysesHandler *AnalysesHandler
	resultsHandler  *ResultsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		analysesHandler: NewAnalysesHandler(deps),
		resultsHandler:  NewResultsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/analyses", MetricsMiddleware(s.handleAnalyses, "analyses"))
	mux.HandleFunc("/analyses/", MetricsMiddleware(s.resultsHandler.HandleGetAnalysis, "analysis"))
	mux.HandleFunc("/openapi.yaml", HandleOpenAPI)
}

// handleAnalyses dispatches the /analyses collection route: submissions via
// POST, the full listing via GET.
func (s *Server) handleAnalyses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.resultsHandler.HandleListAnalyses(w, r)
	default:
		s.analysesHandler.HandlePostAnalysis(w, r)
	}
}

// findingPayload mirrors the OpenAPI schema for one extracted finding.
type findingPayload struct {
	Satisfied bool    `json:"satisfied"`
	Score     float64 `json:"score,omitempty"`
}

// evidencePayload mirrors the OpenAPI schema for the evidence bundle: per
// check name, findings keyed by extraction method.
type evidencePayload struct {
	AvailableMethods []string                             `json:"availableMethods,omitempty"`
	Checks           map[string]map[string]findingPayload `json:"checks"`
}

// analyzeRequest mirrors the OpenAPI schema for POST /analyses.
type analyzeRequest struct {
	DocumentID        string          `json:"documentId,omitempty"`
	Filename          string          `json:"filename"`
	Language          string          `json:"language,omitempty"`
	DeclaredCostCrore float64         `json:"declaredCostCrore"`
	Sector            string          `json:"sector"`
	Evidence          evidencePayload `json:"evidence"`
}

func (a analyzeRequest) validate() error {
	switch {
	case strings.TrimSpace(a.Filename) == "":
		return errors.New("missing filename")
	case a.DeclaredCostCrore < 0:
		return errors.New("declaredCostCrore must be non-negative")
	case len(a.Evidence.Checks) == 0:
		return errors.New("missing evidence.checks")
	}
	for _, name := range a.Evidence.AvailableMethods {
		if !model.Method(name).Valid() {
			return errors.New("unknown extraction method: " + name)
		}
	}
	for check, findings := range a.Evidence.Checks {
		for method := range findings {
			if !model.Method(method).Valid() {
				return errors.New("unknown extraction method for " + check + ": " + method)
			}
		}
	}
	return nil
}

// bundle converts the wire evidence payload into the core's bundle type. A
// finding implies its method ran, so the method is marked available even
// when availableMethods omits it; otherwise the finding could never resolve
// and the check would silently score as a gap.
func (a analyzeRequest) bundle() *model.EvidenceBundle {
	b := model.NewEvidenceBundle()
	for _, name := range a.Evidence.AvailableMethods {
		b.MarkAvailable(model.Method(name))
	}
	for check, findings := range a.Evidence.Checks {
		for method, f := range findings {
			b.MarkAvailable(model.Method(method))
			b.Add(check, model.Method(method), model.Finding{
				Satisfied: f.Satisfied,
				Score:     f.Score,
			})
		}
	}
	return b
}

type ackResponse struct {
	DocumentID string `json:"documentId"`
	Status     string `json:"status"`
	Duplicate  bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
