package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/samiksha-labs/samiksha/internal/testdocs"
)

// Default configuration constants.
const (
	defaultNumDocuments = 1000
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 30 * time.Second
	defaultTestTimeout  = 10 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numDocuments = flag.Int("documents", defaultNumDocuments, "Number of documents to generate and submit")
		workers      = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		pollInterval = flag.Duration("poll", testdocs.DefaultPollInterval, "Interval between result polls")
		pollBudget   = flag.Duration("budget", testdocs.DefaultPollBudget, "Total time to wait for processing")
		outputFile   = flag.String("output", "", "Output file for generated submissions (default: generated_submissions_TIMESTAMP.json)")
		logFile      = flag.String("log", "", "Log file for test output (default: test_log_TIMESTAMP.log)")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testdocs.ShowHelp()
		return
	}

	// Setup logging
	if err := testdocs.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	// Create test configuration
	config := &testdocs.Config{
		BaseURL:      *baseURL,
		NumDocuments: *numDocuments,
		Workers:      *workers,
		Timeout:      *timeout,
		PollInterval: *pollInterval,
		PollBudget:   *pollBudget,
		OutputFile:   *outputFile,
		LogFile:      *logFile,
		Verbose:      *verbose,
	}

	// Run the test
	if err := testdocs.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		return
	}
}
