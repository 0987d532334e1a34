package testdocs

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/samiksha-labs/samiksha/internal/config"
	"github.com/samiksha-labs/samiksha/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	profileDivisor     = 6
)

// Constants for declared cost generation, in crore.
const (
	eligibleCostMin   = 20.0
	eligibleCostRange = 480.0
	tinyCostMin       = 1.0
	tinyCostRange     = 15.0
	hugeCostMin       = 600.0
	hugeCostRange     = 1400.0
)

// Constants for document profile cases.
const (
	caseStrongProposal      = 0
	caseAverageProposal     = 1
	caseSparseProposal      = 2
	caseNonCompliant        = 3
	caseOversizedProposal   = 4
	caseIneligibleSector    = 5
	satisfiedProbabilityPct = 70
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// generateSubmissions creates the specified number of synthetic submissions.
func generateSubmissions(ctx context.Context, cfg *Config, stats *Stats) ([]Submission, error) {
	logger.Get().Info(ctx, "generating synthetic submissions", logger.Int("numDocuments", cfg.NumDocuments))

	// Check assignments come from the service's default configuration, so
	// generated bundles line up with what the scorers expect.
	checks := config.New().AllChecks()

	submissions := make([]Submission, cfg.NumDocuments)
	for i := 0; i < cfg.NumDocuments; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during generation: %w", ctx.Err())
		default:
		}
		submissions[i] = generateSingleSubmission(i, checks)
	}

	stats.DocumentsGenerated = len(submissions)
	logger.Get().Info(ctx, "generated submissions successfully", logger.Int("count", len(submissions)))

	return submissions, nil
}

// generateSingleSubmission creates one submission with a varied profile.
func generateSingleSubmission(index int, checks []string) Submission {
	profile, _ := rand.Int(rand.Reader, big.NewInt(profileDivisor))

	sub := Submission{
		DocumentID:        uuid.New().String(),
		Filename:          "dpr_" + strconv.Itoa(index) + ".pdf",
		Language:          "EN",
		DeclaredCostCrore: eligibleCostMin + getRandomFloat()*eligibleCostRange,
		Sector:            "rural roads",
		Evidence: Evidence{
			AvailableMethods: []string{"nlp", "semantic"},
			Checks:           make(map[string]map[string]Finding),
		},
	}

	switch profile.Int64() {
	case caseStrongProposal:
		// Every check satisfied through the strongest method
		for _, check := range checks {
			sub.Evidence.Checks[check] = map[string]Finding{
				"semantic": {Satisfied: true, Score: 0.8 + getRandomFloat()*0.2},
			}
		}
	case caseAverageProposal:
		// Mixed outcomes across methods
		for _, check := range checks {
			method := "nlp"
			if getRandomFloat() < 0.5 {
				method = "semantic"
			}
			satisfied := getRandomFloat()*PercentageMultiplier < satisfiedProbabilityPct
			sub.Evidence.Checks[check] = map[string]Finding{
				method: {Satisfied: satisfied, Score: getRandomFloat()},
			}
		}
	case caseSparseProposal:
		// Keyword-only extraction with every other check missing entirely
		sub.Evidence.AvailableMethods = nil
		for i, check := range checks {
			if i%2 == 1 {
				continue
			}
			sub.Evidence.Checks[check] = map[string]Finding{
				"keyword_fallback": {Satisfied: getRandomFloat() < 0.5},
			}
		}
		// Keep at least one finding per dimension so the analysis does not
		// reject the bundle outright.
		for _, check := range checks {
			if _, ok := sub.Evidence.Checks[check]; !ok {
				if !dimensionPresent(sub.Evidence.Checks, check) {
					sub.Evidence.Checks[check] = map[string]Finding{
						"keyword_fallback": {Satisfied: false},
					}
				}
			}
		}
	case caseNonCompliant:
		// Certificates all absent, the rest satisfied
		for _, check := range checks {
			satisfied := !isCertificateCheck(check)
			sub.Evidence.Checks[check] = map[string]Finding{
				"nlp": {Satisfied: satisfied},
			}
		}
	case caseOversizedProposal:
		// Outside the budget band, high or low
		if getRandomFloat() < 0.5 {
			sub.DeclaredCostCrore = hugeCostMin + getRandomFloat()*hugeCostRange
		} else {
			sub.DeclaredCostCrore = tinyCostMin + getRandomFloat()*tinyCostRange
		}
		for _, check := range checks {
			sub.Evidence.Checks[check] = map[string]Finding{
				"nlp": {Satisfied: true},
			}
		}
	case caseIneligibleSector:
		sub.Sector = "real estate"
		for _, check := range checks {
			sub.Evidence.Checks[check] = map[string]Finding{
				"nlp": {Satisfied: true},
			}
		}
	}

	return sub
}

// isCertificateCheck reports whether a check belongs to the certificates
// dimension.
func isCertificateCheck(check string) bool {
	return strings.HasPrefix(check, "certificates.")
}

// dimensionPresent reports whether any recorded check shares a dimension
// prefix with the given check name.
func dimensionPresent(recorded map[string]map[string]Finding, check string) bool {
	prefix, _, found := strings.Cut(check, ".")
	if !found {
		return false
	}
	for name := range recorded {
		if strings.HasPrefix(name, prefix+".") {
			return true
		}
	}
	return false
}
