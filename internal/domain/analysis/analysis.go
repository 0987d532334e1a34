// Package analysis sequences the scoring pipeline for one document and is
// the sole entry point consumed by the surrounding service.
package analysis

import (
	"context"
	"sort"

	"github.com/samiksha-labs/samiksha/internal/domain/eligibility"
	"github.com/samiksha-labs/samiksha/internal/domain/model"
	"github.com/samiksha-labs/samiksha/internal/domain/recommend"
	"github.com/samiksha-labs/samiksha/internal/domain/risk"
	"github.com/samiksha-labs/samiksha/internal/domain/scoring"
)

// Criterion breakdown labels.
const (
	CriterionCompleteness = "completeness"
	CriterionTechnical    = "technical_quality"
	CriterionGatiShakti   = "gatishakti_alignment"
	CriterionImpact       = "impact_sustainability"
	CriterionCompliance   = "compliance"
)

// CriterionScorer is the contract every criterion scorer satisfies.
type CriterionScorer interface {
	Name() string
	Score(bundle *model.EvidenceBundle) model.ScoringResult
}

// Request carries everything the orchestrator needs for one document. The
// evidence bundle is assembled by the external extraction pipeline; the core
// never touches raw documents.
type Request struct {
	DocumentID        string
	Language          string
	DeclaredCostCrore float64
	Sector            string
	Evidence          *model.EvidenceBundle
}

// Orchestrator runs scorers, aggregation, risk, eligibility and
// recommendation exactly once per Analyze call. It holds no mutable state;
// concurrent calls are safe and identical inputs yield identical results.
type Orchestrator struct {
	completeness CriterionScorer
	technical    CriterionScorer
	gatishakti   CriterionScorer
	impact       CriterionScorer
	compliance   CriterionScorer

	aggregator *scoring.Aggregator
	predictor  *risk.Predictor
	checker    *eligibility.Checker
	engine     *recommend.Engine

	// validationChecks is the union of all configured checks, reflected as
	// booleans in the result.
	validationChecks []string
	// preference resolves validation findings; scorers carry their own.
	preference []model.Method
}

// Deps bundles the orchestrator's collaborators, all built from
// configuration by the application layer.
type Deps struct {
	Completeness CriterionScorer
	Technical    CriterionScorer
	GatiShakti   CriterionScorer
	Impact       CriterionScorer
	Compliance   CriterionScorer

	Aggregator *scoring.Aggregator
	Predictor  *risk.Predictor
	Checker    *eligibility.Checker
	Engine     *recommend.Engine

	ValidationChecks []string
}

// New constructs the orchestrator.
func New(deps Deps) *Orchestrator {
	checks := append([]string(nil), deps.ValidationChecks...)
	sort.Strings(checks)
	return &Orchestrator{
		completeness:     deps.Completeness,
		technical:        deps.Technical,
		gatishakti:       deps.GatiShakti,
		impact:           deps.Impact,
		compliance:       deps.Compliance,
		aggregator:       deps.Aggregator,
		predictor:        deps.Predictor,
		checker:          deps.Checker,
		engine:           deps.Engine,
		validationChecks: checks,
		preference:       model.DefaultPreference(),
	}
}

// Analyze evaluates one document. It performs no retries and no I/O; a
// bundle missing an entire dimension fails with InsufficientEvidenceError
// and no partial result.
func (o *Orchestrator) Analyze(_ context.Context, req Request) (*model.ProcessingResult, error) {
	if missing := o.missingDimensions(req.Evidence); len(missing) > 0 {
		return nil, &InsufficientEvidenceError{DocumentID: req.DocumentID, Missing: missing}
	}

	completeness := o.completeness.Score(req.Evidence)
	technical := o.technical.Score(req.Evidence)
	gatishakti := o.gatishakti.Score(req.Evidence)
	impact := o.impact.Score(req.Evidence)
	compliance := o.compliance.Score(req.Evidence)

	scores := o.aggregator.Aggregate(completeness, compliance, technical, gatishakti, impact)
	riskProfile := o.predictor.Predict(req.DocumentID, req.Language, req.Evidence)
	elig, flags := o.checker.Check(req.Evidence, req.DeclaredCostCrore, req.Sector)
	recommendations := o.engine.Recommend(recommend.Input{
		Scores: scores,
		Flags:  flags,
		Risk:   riskProfile,
	})

	return &model.ProcessingResult{
		DocumentID: req.DocumentID,
		Validation: o.validation(req.Evidence),
		Scores:     scores,
		Breakdown: map[string]model.ScoringResult{
			CriterionCompleteness: completeness,
			CriterionTechnical:    technical,
			CriterionGatiShakti:   gatishakti,
			CriterionImpact:       impact,
			CriterionCompliance:   compliance,
		},
		Eligibility:     elig,
		Flags:           flags,
		Risk:            riskProfile,
		Recommendations: recommendations,
	}, nil
}

// missingDimensions returns the dimensions with no findings at all, in
// report order.
func (o *Orchestrator) missingDimensions(bundle *model.EvidenceBundle) []model.Dimension {
	var missing []model.Dimension
	for _, d := range model.AllDimensions() {
		if !bundle.DimensionCovered(d) {
			missing = append(missing, d)
		}
	}
	return missing
}

// validation reflects every configured check as a boolean: true iff the
// check resolved to a satisfied finding.
func (o *Orchestrator) validation(bundle *model.EvidenceBundle) map[string]bool {
	out := make(map[string]bool, len(o.validationChecks))
	for _, check := range o.validationChecks {
		f, _, ok := bundle.Resolve(check, o.preference)
		out[check] = ok && f.Satisfied
	}
	return out
}
