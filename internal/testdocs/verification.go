package testdocs

import (
	"context"
	"fmt"
	"log"
	"reflect"
	"time"
)

// Sample size for the determinism re-score pass.
const determinismSampleSize = 10

// verifyResults inspects completed analyses and re-scores a sample to prove
// identical submissions produce identical results.
func verifyResults(ctx context.Context, cfg *Config, submissions []Submission, results map[string]Result, stats *Stats) error {
	log.Println("verifying results...")

	if len(results) == 0 {
		return fmt.Errorf("no completed results to verify")
	}

	for id, result := range results {
		if result.Scores.Total < 0 {
			return fmt.Errorf("document %s has negative total %f", id, result.Scores.Total)
		}
		if len(result.Recommendations) == 0 {
			return fmt.Errorf("document %s has an empty recommendation list", id)
		}
	}
	log.Printf("score bounds and recommendation invariants hold for %d results", len(results))

	displayGradeDistribution(results)

	if err := verifyDeterminism(ctx, cfg, submissions, results, stats); err != nil {
		return fmt.Errorf("determinism verification failed: %w", err)
	}

	log.Println("result verification completed")
	return nil
}

// verifyDeterminism resubmits a sample of completed documents and compares
// the re-scored results against the first pass.
func verifyDeterminism(ctx context.Context, cfg *Config, submissions []Submission, results map[string]Result, stats *Stats) error {
	client := newHTTPClient(cfg.Timeout)
	url := cfg.BaseURL + "/analyses"

	checked := 0
	for _, sub := range submissions {
		if checked >= determinismSampleSize {
			break
		}
		first, ok := results[sub.DocumentID]
		if !ok {
			continue
		}

		if outcome := submitSingleDocument(ctx, client, url, sub); outcome == "failed" {
			return fmt.Errorf("resubmission of %s failed", sub.DocumentID)
		}

		second, err := awaitResult(ctx, client, cfg, sub.DocumentID)
		if err != nil {
			return fmt.Errorf("re-score of %s did not complete: %w", sub.DocumentID, err)
		}

		if !reflect.DeepEqual(first, second) {
			return fmt.Errorf("document %s re-scored differently: total %f vs %f",
				sub.DocumentID, first.Scores.Total, second.Scores.Total)
		}
		checked++
	}

	stats.DeterminismChecked = checked
	log.Printf("determinism verified on %d re-scored documents", checked)
	return nil
}

// awaitResult polls one document until it completes.
func awaitResult(ctx context.Context, client *HTTPClient, cfg *Config, id string) (Result, error) {
	deadline := time.Now().Add(cfg.PollBudget)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-time.After(cfg.PollInterval):
		}

		analysis, err := fetchAnalysis(ctx, client, cfg.BaseURL, id)
		if err != nil {
			continue
		}
		switch analysis.Status {
		case "completed":
			if analysis.Result == nil {
				return Result{}, fmt.Errorf("completed without a result payload")
			}
			return *analysis.Result, nil
		case "failed":
			return Result{}, fmt.Errorf("analysis failed: %s", analysis.Error)
		}
	}
	return Result{}, fmt.Errorf("poll budget exhausted")
}

// displayGradeDistribution summarizes grades and score statistics.
func displayGradeDistribution(results map[string]Result) {
	grades := make(map[string]int)
	var sum, maxTotal float64
	minTotal := -1.0

	for _, result := range results {
		grades[result.Scores.Grade]++
		sum += result.Scores.Total
		if result.Scores.Total > maxTotal {
			maxTotal = result.Scores.Total
		}
		if minTotal < 0 || result.Scores.Total < minTotal {
			minTotal = result.Scores.Total
		}
	}

	log.Printf("grade distribution: Excellent=%d Good=%d Fair=%d Poor=%d",
		grades["Excellent"], grades["Good"], grades["Fair"], grades["Poor"])
	log.Printf("score statistics: average=%.1f max=%.1f min=%.1f",
		sum/float64(len(results)), maxTotal, minTotal)
}
