package testdocs

import "time"

// Config holds configuration for the document test.
type Config struct {
	BaseURL      string        // Base URL of the service
	NumDocuments int           // Number of documents to generate
	Workers      int           // Number of concurrent workers
	Timeout      time.Duration // HTTP request timeout
	PollInterval time.Duration // Delay between result polls
	PollBudget   time.Duration // Total time to wait for processing
	OutputFile   string        // Output file for submissions
	LogFile      string        // Log file for test output
	Verbose      bool          // Enable verbose logging
}

// Finding mirrors the wire shape of one extracted finding.
type Finding struct {
	Satisfied bool    `json:"satisfied"`
	Score     float64 `json:"score,omitempty"`
}

// Evidence mirrors the wire shape of the evidence bundle.
type Evidence struct {
	AvailableMethods []string                      `json:"availableMethods,omitempty"`
	Checks           map[string]map[string]Finding `json:"checks"`
}

// Submission represents a document to be submitted for analysis.
type Submission struct {
	DocumentID        string   `json:"documentId"`
	Filename          string   `json:"filename"`
	Language          string   `json:"language"`
	DeclaredCostCrore float64  `json:"declaredCostCrore"`
	Sector            string   `json:"sector"`
	Evidence          Evidence `json:"evidence"`
}

// AckResponse represents the response from document submission.
type AckResponse struct {
	DocumentID string `json:"documentId"`
	Status     string `json:"status"`
	Duplicate  bool   `json:"duplicate"`
}

// Scores is the aggregate slice of the analysis result the test inspects.
type Scores struct {
	Total float64 `json:"total"`
	Grade string  `json:"grade"`
}

// Result is the subset of the processing result the test inspects.
type Result struct {
	DocumentID      string   `json:"documentId"`
	Scores          Scores   `json:"scores"`
	Recommendations []string `json:"recommendations"`
}

// AnalysisResponse represents the response from GET /analyses/{id}.
type AnalysisResponse struct {
	DocumentID string  `json:"documentId"`
	Status     string  `json:"status"`
	Error      string  `json:"error,omitempty"`
	Result     *Result `json:"result,omitempty"`
}

// Stats holds test statistics.
type Stats struct {
	DocumentsGenerated  int
	DocumentsSubmitted  int
	DocumentsSuccessful int
	DocumentsDuplicate  int
	DocumentsFailed     int
	ResultsCompleted    int
	ResultsFailed       int
	ResultsPending      int
	DeterminismChecked  int
	StartTime           time.Time
	EndTime             time.Time
	Duration            time.Duration
}
