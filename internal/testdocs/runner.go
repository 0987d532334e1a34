package testdocs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/samiksha-labs/samiksha/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete document test.
func Run(ctx context.Context, cfg *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting samiksha document test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("documents", cfg.NumDocuments),
		logger.Int("workers", cfg.Workers),
		logger.String("timeout", cfg.Timeout.String()),
		logger.String("logFile", cfg.LogFile),
		logger.Any("verbose", cfg.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, cfg); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate submissions
	submissions, err := generateSubmissions(ctx, cfg, stats)
	if err != nil {
		return fmt.Errorf("submission generation failed: %w", err)
	}

	// Step 3: Submit documents concurrently
	if err := submitDocuments(ctx, cfg, submissions, stats); err != nil {
		return fmt.Errorf("document submission failed: %w", err)
	}

	// Step 4: Poll until processing finishes
	results, err := collectResults(ctx, cfg, submissions, stats)
	if err != nil {
		return fmt.Errorf("result collection failed: %w", err)
	}

	// Step 5: Verify invariants and determinism
	if err := verifyResults(ctx, cfg, submissions, results, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 6: Save submissions to file
	if err := saveSubmissionsToFile(ctx, cfg, submissions); err != nil {
		logger.Get().Warn(ctx, "failed to save submissions to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, cfg *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(cfg.Timeout)
	url := cfg.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveSubmissionsToFile saves the generated submissions to a JSON file.
func saveSubmissionsToFile(ctx context.Context, cfg *Config, submissions []Submission) error {
	if len(submissions) == 0 {
		return fmt.Errorf("no submissions to save")
	}

	filename := cfg.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_submissions_" + timestamp + ".json"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(submissions); err != nil {
		return fmt.Errorf("failed to encode submissions: %w", err)
	}

	logger.Get().Info(ctx, "submissions saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, documentsPerSecond float64

	if stats.DocumentsSubmitted > 0 {
		successRate = float64(stats.DocumentsSuccessful) / float64(stats.DocumentsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		documentsPerSecond = float64(stats.DocumentsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("documentsGenerated", stats.DocumentsGenerated),
		logger.Int("documentsSubmitted", stats.DocumentsSubmitted),
		logger.Int("documentsSuccessful", stats.DocumentsSuccessful),
		logger.Int("documentsDuplicate", stats.DocumentsDuplicate),
		logger.Int("documentsFailed", stats.DocumentsFailed),
		logger.Int("resultsCompleted", stats.ResultsCompleted),
		logger.Int("resultsFailed", stats.ResultsFailed),
		logger.Int("resultsPending", stats.ResultsPending),
		logger.Int("determinismChecked", stats.DeterminismChecked),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("documentsPerSecond", documentsPerSecond))
}
