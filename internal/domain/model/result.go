package model

import "math"

// Grade is the letter tier assigned to an aggregate score.
type Grade string

const (
	GradeExcellent Grade = "Excellent"
	GradeGood      Grade = "Good"
	GradeFair      Grade = "Fair"
	GradePoor      Grade = "Poor"
)

// SectionTally is structured sub-evidence: how many checks of one section
// were found satisfied out of how many assigned. It replaces free-text
// breakdown strings that downstream consumers would otherwise re-parse.
type SectionTally struct {
	Found int `json:"found"`
	Total int `json:"total"`
}

// ScoringResult is one criterion's outcome with its evidence trail.
// Invariant: 0 <= Score <= MaxScore and Percentage is 100*Score/MaxScore
// rounded to one decimal place.
type ScoringResult struct {
	Score      float64                 `json:"score"`
	MaxScore   float64                 `json:"max_score"`
	Percentage float64                 `json:"percentage"`
	Evidence   []string                `json:"evidence"`
	MethodUsed Method                  `json:"method_used"`
	Confidence float64                 `json:"confidence,omitempty"`
	Sections   map[string]SectionTally `json:"sections,omitempty"`
}

// Round1 rounds to one decimal place; the fixed rounding rule for
// percentages across the scoring pipeline.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// Scores is the aggregate of the weighted criterion sub-scores.
// Total is clamped into [0, configured max total].
type Scores struct {
	Completeness         float64 `json:"completeness"`
	Compliance           float64 `json:"compliance"`
	TechnicalQuality     float64 `json:"technicalQuality"`
	ImpactSustainability float64 `json:"impactSustainability"`
	Total                float64 `json:"total"`
	Grade                Grade   `json:"grade"`
}

// Eligibility is the hard business gate, independent of the numeric score.
// OutOfRange is always the negation of SizeCheckOk; use NewEligibility so
// the two can never diverge.
type Eligibility struct {
	SizeCheckOk  bool `json:"sizeCheckOk"`
	OutOfRange   bool `json:"outOfRange"`
	NegativeList bool `json:"negativeList"`
}

// NewEligibility derives OutOfRange from sizeCheckOk.
func NewEligibility(sizeCheckOk, negativeList bool) Eligibility {
	return Eligibility{
		SizeCheckOk:  sizeCheckOk,
		OutOfRange:   !sizeCheckOk,
		NegativeList: negativeList,
	}
}

// ConsistencyFlags are independent booleans, each derived from a single
// evidence signal. A document can score highly and still carry flags.
// IneligibleSector mirrors Eligibility.NegativeList only when true; absence
// means "not flagged".
type ConsistencyFlags struct {
	BudgetMismatch   bool `json:"budgetMismatch"`
	TimelineIssues   bool `json:"timelineIssues"`
	MissingData      bool `json:"missingData"`
	IneligibleSector bool `json:"ineligibleSector,omitempty"`
}

// RiskPrediction carries three independent risk probabilities in [0,1].
// Values stay numeric end to end; presentation layers format them.
type RiskPrediction struct {
	CostOverrunRisk    float64 `json:"costOverrunRisk"`
	DelayRisk          float64 `json:"delayRisk"`
	ImplementationRisk float64 `json:"implementationRisk"`
}

// ProcessingResult is the orchestrator's sole output, created once per
// document and immutable thereafter. It carries no timestamps so identical
// inputs produce bit-identical results.
type ProcessingResult struct {
	DocumentID      string                   `json:"documentId"`
	Validation      map[string]bool          `json:"validation"`
	Scores          Scores                   `json:"scores"`
	Breakdown       map[string]ScoringResult `json:"breakdown"`
	Eligibility     Eligibility              `json:"eligibility"`
	Flags           ConsistencyFlags         `json:"flags"`
	Risk            RiskPrediction           `json:"risk"`
	Recommendations []string                 `json:"recommendations"`
}
