package testdocs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitDocuments submits documents concurrently using worker pools.
func submitDocuments(ctx context.Context, cfg *Config, submissions []Submission, stats *Stats) error {
	log.Printf("submitting %d documents with %d workers...", len(submissions), cfg.Workers)

	client := newHTTPClient(cfg.Timeout)
	url := cfg.BaseURL + "/analyses"

	var (
		successful int64
		duplicate  int64
		failed     int64
		submitted  int64
	)

	subChan := make(chan Submission, cfg.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for sub := range subChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := submitSingleDocument(ctx, client, url, sub)

					atomic.AddInt64(&submitted, 1)
					switch result {
					case "success":
						atomic.AddInt64(&successful, 1)
					case "duplicate":
						atomic.AddInt64(&duplicate, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}

					if cfg.Verbose {
						log.Printf("progress: %d/%d submitted (success: %d, duplicate: %d, failed: %d)",
							atomic.LoadInt64(&submitted), len(submissions),
							atomic.LoadInt64(&successful), atomic.LoadInt64(&duplicate), atomic.LoadInt64(&failed))
					}
				}
			}
		}()
	}

	go func() {
		defer close(subChan)
		for _, sub := range submissions {
			select {
			case <-ctx.Done():
				return
			case subChan <- sub:
			}
		}
	}()

	wg.Wait()

	stats.DocumentsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.DocumentsSuccessful = int(atomic.LoadInt64(&successful))
	stats.DocumentsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.DocumentsFailed = int(atomic.LoadInt64(&failed))

	log.Printf("document submission completed: successful=%d duplicate=%d failed=%d",
		stats.DocumentsSuccessful, stats.DocumentsDuplicate, stats.DocumentsFailed)

	return nil
}

// submitSingleDocument submits one document and classifies the outcome.
func submitSingleDocument(ctx context.Context, client *HTTPClient, url string, sub Submission) string {
	resp, err := client.Post(ctx, url, sub)
	if err != nil {
		return "failed"
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case StatusAccepted:
		return "success"
	case StatusOK:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
			return "duplicate"
		}
		return "duplicate"
	default:
		return "failed"
	}
}

// fetchAnalysis retrieves status and result for one document.
func fetchAnalysis(ctx context.Context, client *HTTPClient, baseURL, id string) (AnalysisResponse, error) {
	resp, err := client.Get(ctx, baseURL+"/analyses/"+id)
	if err != nil {
		return AnalysisResponse{}, fmt.Errorf("failed to fetch analysis: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return AnalysisResponse{}, fmt.Errorf("failed to read analysis response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return AnalysisResponse{}, fmt.Errorf("analysis fetch returned status %d", resp.StatusCode)
	}

	var analysis AnalysisResponse
	if err := json.Unmarshal(body, &analysis); err != nil {
		return AnalysisResponse{}, fmt.Errorf("failed to decode analysis response: %w", err)
	}
	return analysis, nil
}
