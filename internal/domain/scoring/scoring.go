// Package scoring implements the per-criterion scorers and the score
// aggregator of the evaluation pipeline.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/samiksha-labs/samiksha/internal/domain/model"
)

// CriterionSpec configures one boolean-evidence criterion scorer. All values
// come from configuration; scorer logic holds no literals.
type CriterionSpec struct {
	// Name labels the criterion in breakdowns, e.g. "completeness".
	Name string
	// MaxScore is the criterion ceiling.
	MaxScore float64
	// Checks are the evidence check names assigned to this criterion. Their
	// count is the denominator of the scoring formula.
	Checks []string
	// Preference is the method fallback order, strongest first.
	Preference []model.Method
}

// Scorer computes a bounded sub-score from boolean evidence:
// score = round(max * found/total). A check missing from the bundle counts
// false and is recorded as an explicit gap in the evidence trail.
type Scorer struct {
	spec CriterionSpec
}

// NewScorer builds a scorer for one criterion.
func NewScorer(spec CriterionSpec) *Scorer {
	if len(spec.Preference) == 0 {
		spec.Preference = model.DefaultPreference()
	}
	return &Scorer{spec: spec}
}

// Name returns the criterion label.
func (s *Scorer) Name() string { return s.spec.Name }

// Score evaluates the assigned checks against the bundle. The strongest
// available method serves each check; a weaker fallback is visible in
// MethodUsed, never disguised as the preferred method.
func (s *Scorer) Score(bundle *model.EvidenceBundle) model.ScoringResult {
	total := len(s.spec.Checks)
	if total == 0 {
		// Nothing configured for this dimension; never divide by zero.
		return model.ScoringResult{
			Score:      0,
			MaxScore:   s.spec.MaxScore,
			Percentage: 0,
			Evidence:   []string{"no evidence available"},
			MethodUsed: model.MethodKeywordFallback,
		}
	}

	var (
		found    int
		resolved int
		evidence = make([]string, 0, total)
		sections = make(map[string]model.SectionTally)
		methods  = make(map[model.Method]int)
	)
	for _, check := range s.spec.Checks {
		section := sectionOf(check)
		tally := sections[section]
		tally.Total++

		f, m, ok := bundle.Resolve(check, s.spec.Preference)
		switch {
		case !ok:
			evidence = append(evidence, fmt.Sprintf("%s: no evidence available", check))
		case f.Satisfied:
			found++
			resolved++
			tally.Found++
			methods[m]++
			evidence = append(evidence, fmt.Sprintf("%s: satisfied (%s)", check, m))
		default:
			resolved++
			methods[m]++
			evidence = append(evidence, fmt.Sprintf("%s: not found (%s)", check, m))
		}
		sections[section] = tally
	}

	score := math.Round(s.spec.MaxScore * float64(found) / float64(total))
	score = clamp(score, 0, s.spec.MaxScore)

	return model.ScoringResult{
		Score:      score,
		MaxScore:   s.spec.MaxScore,
		Percentage: model.Round1(100 * score / s.spec.MaxScore),
		Evidence:   evidence,
		MethodUsed: methodUsed(methods),
		Confidence: model.Round1(float64(resolved)/float64(total)*100) / 100,
		Sections:   sections,
	}
}

// methodUsed collapses the per-check methods into a single tag: the sole
// method when uniform, hybrid when mixed, keyword fallback when nothing
// resolved at all.
func methodUsed(methods map[model.Method]int) model.Method {
	switch len(methods) {
	case 0:
		return model.MethodKeywordFallback
	case 1:
		for m := range methods {
			return m
		}
	}
	return model.MethodHybrid
}

func sectionOf(check string) string {
	if d, ok := model.DimensionOf(check); ok {
		return string(d)
	}
	return "other"
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// AlignmentBand maps a minimum continuous evidence strength to a fraction of
// the criterion ceiling.
type AlignmentBand struct {
	Min      float64
	Fraction float64
}

// AlignmentSpec configures a continuous-evidence scorer: a single check whose
// finding strength is mapped through a descending ladder of bands. An
// outright satisfied finding earns the full ceiling.
type AlignmentSpec struct {
	Name       string
	MaxScore   float64
	Check      string
	Preference []model.Method
	Ladder     []AlignmentBand
}

// AlignmentScorer grades policy-alignment style criteria where evidence is a
// similarity strength rather than a set of booleans.
type AlignmentScorer struct {
	spec AlignmentSpec
}

// NewAlignmentScorer builds the scorer; the ladder is sorted strongest first.
func NewAlignmentScorer(spec AlignmentSpec) *AlignmentScorer {
	if len(spec.Preference) == 0 {
		spec.Preference = model.DefaultPreference()
	}
	sort.Slice(spec.Ladder, func(i, j int) bool {
		return spec.Ladder[i].Min > spec.Ladder[j].Min
	})
	return &AlignmentScorer{spec: spec}
}

// Name returns the criterion label.
func (s *AlignmentScorer) Name() string { return s.spec.Name }

// Score maps the single check's finding to a score. Explicit satisfaction
// earns the ceiling; otherwise the finding strength selects a ladder band.
func (s *AlignmentScorer) Score(bundle *model.EvidenceBundle) model.ScoringResult {
	f, m, ok := bundle.Resolve(s.spec.Check, s.spec.Preference)
	if !ok {
		return model.ScoringResult{
			Score:      0,
			MaxScore:   s.spec.MaxScore,
			Percentage: 0,
			Evidence:   []string{fmt.Sprintf("%s: no evidence available", s.spec.Check)},
			MethodUsed: model.MethodKeywordFallback,
		}
	}

	var (
		score    float64
		evidence string
	)
	if f.Satisfied {
		score = s.spec.MaxScore
		evidence = fmt.Sprintf("%s: explicitly addressed (%s)", s.spec.Check, m)
	} else {
		for _, band := range s.spec.Ladder {
			if f.Score >= band.Min {
				score = clamp(band.Fraction*s.spec.MaxScore, 0, s.spec.MaxScore)
				break
			}
		}
		evidence = fmt.Sprintf("%s: alignment strength %.2f (%s)", s.spec.Check, f.Score, m)
	}

	return model.ScoringResult{
		Score:      score,
		MaxScore:   s.spec.MaxScore,
		Percentage: model.Round1(100 * score / s.spec.MaxScore),
		Evidence:   []string{evidence},
		MethodUsed: m,
		Confidence: model.Round1(f.Score*100) / 100,
	}
}
