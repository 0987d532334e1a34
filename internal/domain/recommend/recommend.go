// Package recommend turns an aggregate result into ordered remediation
// statements via a fixed, rule-ordered list.
package recommend

import (
	"github.com/samiksha-labs/samiksha/internal/domain/model"
)

// Default rule thresholds; overridable via options from configuration.
// The score thresholds assume the 100-point scheme and should be adjusted
// proportionally when max_total differs.
const (
	defaultDelayRiskThreshold        = 0.5
	defaultComplianceThreshold       = 20.0
	defaultTechnicalQualityThreshold = 18.0
)

const fallbackMessage = "Proposal is in good shape; no remediation required."

// Input is everything the rules may consult.
type Input struct {
	Scores model.Scores
	Flags  model.ConsistencyFlags
	Risk   model.RiskPrediction
}

// rule is one (predicate, message) pair. Rules are evaluated in declaration
// order and every firing rule emits its message; there is no ranking.
type rule struct {
	name    string
	when    func(Input) bool
	message string
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithThresholds sets the delay-risk, compliance and technical-quality rule
// thresholds.
func WithThresholds(delayRisk, compliance, technicalQuality float64) Option {
	return func(e *Engine) {
		if delayRisk > 0 {
			e.delayRiskThreshold = delayRisk
		}
		if compliance > 0 {
			e.complianceThreshold = compliance
		}
		if technicalQuality > 0 {
			e.technicalThreshold = technicalQuality
		}
	}
}

// Engine evaluates the fixed rule list. Output order is stable: budget,
// timeline, missing data, delay risk, compliance, technical quality. If no
// rule fires the single fallback message is emitted; the list is never empty.
type Engine struct {
	delayRiskThreshold  float64
	complianceThreshold float64
	technicalThreshold  float64
}

// NewEngine creates an engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		delayRiskThreshold:  defaultDelayRiskThreshold,
		complianceThreshold: defaultComplianceThreshold,
		technicalThreshold:  defaultTechnicalQualityThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommend returns the ordered remediation list for one result.
func (e *Engine) Recommend(in Input) []string {
	rules := []rule{
		{
			name:    "budget_mismatch",
			when:    func(in Input) bool { return in.Flags.BudgetMismatch },
			message: "Reconcile cost estimates with the declared budget; line items do not add up to the stated total.",
		},
		{
			name:    "timeline_issues",
			when:    func(in Input) bool { return in.Flags.TimelineIssues },
			message: "Provide an implementation timeline with realistic phase-wise milestones.",
		},
		{
			name:    "missing_data",
			when:    func(in Input) bool { return in.Flags.MissingData },
			message: "Supply evidence for the mandatory fields that are currently missing before resubmission.",
		},
		{
			name:    "delay_risk",
			when:    func(in Input) bool { return in.Risk.DelayRisk > e.delayRiskThreshold },
			message: "High delay risk: secure statutory clearances and confirm land availability before sanction.",
		},
		{
			name:    "low_compliance",
			when:    func(in Input) bool { return in.Scores.Compliance < e.complianceThreshold },
			message: "Attach the required certificates: land availability, cost certification and the Non-Duplication Certificate.",
		},
		{
			name:    "low_technical_quality",
			when:    func(in Input) bool { return in.Scores.TechnicalQuality < e.technicalThreshold },
			message: "Strengthen the technical specifications: design details, SOR-based cost estimates and department standards need elaboration.",
		},
	}

	var out []string
	for _, r := range rules {
		if r.when(in) {
			out = append(out, r.message)
		}
	}
	if len(out) == 0 {
		out = []string{fallbackMessage}
	}
	return out
}
