package testdocs

import (
	"context"
	"log"
	"time"
)

// collectResults polls the service until every submitted document reaches a
// terminal status or the poll budget is exhausted. Completed results are
// returned keyed by document id.
func collectResults(ctx context.Context, cfg *Config, submissions []Submission, stats *Stats) (map[string]Result, error) {
	log.Printf("collecting results for %d documents...", len(submissions))

	client := newHTTPClient(cfg.Timeout)
	deadline := time.Now().Add(cfg.PollBudget)

	pending := make(map[string]struct{}, len(submissions))
	for _, sub := range submissions {
		pending[sub.DocumentID] = struct{}{}
	}

	results := make(map[string]Result)
	failed := 0

	for len(pending) > 0 && time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		case <-time.After(cfg.PollInterval):
		}

		for id := range pending {
			analysis, err := fetchAnalysis(ctx, client, cfg.BaseURL, id)
			if err != nil {
				continue
			}
			switch analysis.Status {
			case "completed":
				if analysis.Result != nil {
					results[id] = *analysis.Result
				}
				delete(pending, id)
			case "failed":
				failed++
				delete(pending, id)
				if cfg.Verbose {
					log.Printf("document %s failed: %s", id, analysis.Error)
				}
			}
		}
	}

	stats.ResultsCompleted = len(results)
	stats.ResultsFailed = failed
	stats.ResultsPending = len(pending)

	log.Printf("result collection completed: completed=%d failed=%d pending=%d",
		stats.ResultsCompleted, stats.ResultsFailed, stats.ResultsPending)

	return results, nil
}
