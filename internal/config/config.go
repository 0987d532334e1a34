// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load() layers file/env.
// - All weights, ceilings, thresholds and gates live here, never as
//   literals inside scorer logic.
// - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory analysis job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of analysis workers.
	WorkerCount int `koanf:"worker_count"`

	// TrackerSize caps the in-flight submission tracker.
	TrackerSize int `koanf:"tracker_size"`

	// ResultsPath is the SQLite results store location. ":memory:" keeps
	// everything in process, useful for tests and demos.
	ResultsPath string `koanf:"results_path"`

	Scoring     ScoringConfig     `koanf:"scoring"`
	Risk        RiskConfig        `koanf:"risk"`
	Eligibility EligibilityConfig `koanf:"eligibility"`
	Recommend   RecommendConfig   `koanf:"recommend"`
}

// ScoringConfig holds criterion ceilings, check assignments and grade
// breakpoints.
type ScoringConfig struct {
	// MaxTotal caps the aggregate total. It may deliberately be smaller
	// than the sum of the criterion ceilings; the aggregator clamps the raw
	// sum into [0, MaxTotal].
	MaxTotal float64 `koanf:"max_total"`

	CompletenessMax float64 `koanf:"completeness_max"`
	ComplianceMax   float64 `koanf:"compliance_max"`
	TechnicalMax    float64 `koanf:"technical_max"`
	GatiShaktiMax   float64 `koanf:"gatishakti_max"`
	ImpactMax       float64 `koanf:"impact_max"`

	CompletenessChecks []string `koanf:"completeness_checks"`
	ComplianceChecks   []string `koanf:"compliance_checks"`
	TechnicalChecks    []string `koanf:"technical_checks"`
	ImpactChecks       []string `koanf:"impact_checks"`
	GatiShaktiCheck    string   `koanf:"gatishakti_check"`

	// Grade breakpoints are percentages of MaxTotal, inclusive on the
	// lower bound.
	GradeExcellent float64 `koanf:"grade_excellent"`
	GradeGood      float64 `koanf:"grade_good"`
	GradeFair      float64 `koanf:"grade_fair"`
}

// RiskConfig holds the deterministic risk model constants.
type RiskConfig struct {
	CostOverrunWeight    float64 `koanf:"cost_overrun_weight"`
	DelayWeight          float64 `koanf:"delay_weight"`
	ImplementationWeight float64 `koanf:"implementation_weight"`

	CostOverrunPenalty    float64 `koanf:"cost_overrun_penalty"`
	DelayPenalty          float64 `koanf:"delay_penalty"`
	ImplementationPenalty float64 `koanf:"implementation_penalty"`

	// Evidence checks whose absence triggers the penalties.
	OMPlanCheck          string `koanf:"om_plan_check"`
	TimelineCheck        string `koanf:"timeline_check"`
	PolicyAlignmentCheck string `koanf:"policy_alignment_check"`
}

// EligibilityConfig holds the hard gates and consistency-flag signals.
type EligibilityConfig struct {
	// BudgetMinCrore and BudgetMaxCrore bound the inclusive eligible band.
	BudgetMinCrore float64 `koanf:"budget_min_crore"`
	BudgetMaxCrore float64 `koanf:"budget_max_crore"`

	// NegativeSectors are excluded sectors, matched case-insensitively.
	NegativeSectors []string `koanf:"negative_sectors"`

	BudgetConsistencyCheck string `koanf:"budget_consistency_check"`
	TimelineCheck          string `koanf:"timeline_check"`
}

// RecommendConfig holds the recommendation rule thresholds. The score
// thresholds are absolute values on the configured scale; adjust them
// proportionally when MaxTotal changes.
type RecommendConfig struct {
	DelayRiskThreshold        float64 `koanf:"delay_risk_threshold"`
	ComplianceThreshold       float64 `koanf:"compliance_threshold"`
	TechnicalQualityThreshold float64 `koanf:"technical_quality_threshold"`
}

// New creates a Config with the canonical 100-point scheme: completeness 30,
// compliance 25, technical quality 25 (20 technical + 5 GatiShakti), impact
// and sustainability 20.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		Addr:        ":9080",
		QueueSize:   10_000,
		WorkerCount: runtime.NumCPU() * 2,
		TrackerSize: 50_000,
		ResultsPath: "samiksha.db",
		Scoring: ScoringConfig{
			MaxTotal:        100,
			CompletenessMax: 30,
			ComplianceMax:   25,
			TechnicalMax:    20,
			GatiShaktiMax:   5,
			ImpactMax:       20,
			CompletenessChecks: []string{
				"projectProfile.geoCoordinates",
				"projectProfile.timeline",
				"projectProfile.siteImagery",
			},
			ComplianceChecks: []string{
				"certificates.landAvailability",
				"certificates.costCertification",
				"certificates.nonDuplication",
				"certificates.statutoryClearances",
			},
			TechnicalChecks: []string{
				"technical.specifications",
				"technical.design",
				"financial.sorBasis",
				"technical.departmentStandards",
			},
			ImpactChecks: []string{
				"beneficiary.identification",
				"beneficiary.sdgAlignment",
				"beneficiary.kpiFramework",
				"financial.omPlan",
			},
			GatiShaktiCheck: "technical.gatiShaktiAlignment",
			GradeExcellent:  90,
			GradeGood:       75,
			GradeFair:       60,
		},
		Risk: RiskConfig{
			CostOverrunWeight:     0.7,
			DelayWeight:           0.6,
			ImplementationWeight:  0.5,
			CostOverrunPenalty:    0.25,
			DelayPenalty:          0.2,
			ImplementationPenalty: 0.2,
			OMPlanCheck:           "financial.omPlan",
			TimelineCheck:         "projectProfile.timeline",
			PolicyAlignmentCheck:  "technical.gatiShaktiAlignment",
		},
		Eligibility: EligibilityConfig{
			BudgetMinCrore: 20,
			BudgetMaxCrore: 500,
			NegativeSectors: []string{
				"real estate",
				"tobacco",
				"liquor",
				"gambling",
			},
			BudgetConsistencyCheck: "financial.budgetConsistency",
			TimelineCheck:          "projectProfile.timeline",
		},
		Recommend: RecommendConfig{
			DelayRiskThreshold:        0.5,
			ComplianceThreshold:       20,
			TechnicalQualityThreshold: 18,
		},
	}
}

// AllChecks is the union of every configured evidence check, used for
// validation reflection and the missing-data flag.
func (c *Config) AllChecks() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(checks ...string) {
		for _, check := range checks {
			if check == "" {
				continue
			}
			if _, dup := seen[check]; dup {
				continue
			}
			seen[check] = struct{}{}
			out = append(out, check)
		}
	}
	add(c.Scoring.CompletenessChecks...)
	add(c.Scoring.ComplianceChecks...)
	add(c.Scoring.TechnicalChecks...)
	add(c.Scoring.ImpactChecks...)
	add(c.Scoring.GatiShaktiCheck)
	add(c.Eligibility.BudgetConsistencyCheck)
	add(c.Eligibility.TimelineCheck)
	return out
}
