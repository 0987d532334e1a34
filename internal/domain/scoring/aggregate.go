package scoring

import (
	"github.com/samiksha-labs/samiksha/internal/domain/model"
)

// GradeThresholds are inclusive lower-bound breakpoints over the percentage
// of the maximum total, e.g. {90, 75, 60}: a total at exactly the Excellent
// breakpoint grades Excellent.
type GradeThresholds struct {
	Excellent float64
	Good      float64
	Fair      float64
}

// Aggregator combines criterion sub-scores into the weighted total and
// letter grade. MaxTotal may intentionally be smaller than the sum of the
// criterion ceilings; the raw sum is clamped into [0, MaxTotal].
type Aggregator struct {
	maxTotal   float64
	thresholds GradeThresholds
}

// NewAggregator builds an aggregator from externally supplied configuration.
func NewAggregator(maxTotal float64, thresholds GradeThresholds) *Aggregator {
	return &Aggregator{maxTotal: maxTotal, thresholds: thresholds}
}

// Aggregate sums the sub-scores into the four reported columns. GatiShakti
// alignment folds into the technical quality column; the per-criterion
// breakdown retains it separately.
func (a *Aggregator) Aggregate(completeness, compliance, technical, gatishakti, impact model.ScoringResult) model.Scores {
	technicalTotal := technical.Score + gatishakti.Score
	total := completeness.Score + compliance.Score + technicalTotal + impact.Score
	total = clamp(total, 0, a.maxTotal)

	return model.Scores{
		Completeness:         completeness.Score,
		Compliance:           compliance.Score,
		TechnicalQuality:     technicalTotal,
		ImpactSustainability: impact.Score,
		Total:                total,
		Grade:                a.grade(total),
	}
}

// grade maps a clamped total to its tier via percentage breakpoints.
func (a *Aggregator) grade(total float64) model.Grade {
	pct := 100 * total / a.maxTotal
	switch {
	case pct >= a.thresholds.Excellent:
		return model.GradeExcellent
	case pct >= a.thresholds.Good:
		return model.GradeGood
	case pct >= a.thresholds.Fair:
		return model.GradeFair
	default:
		return model.GradePoor
	}
}
