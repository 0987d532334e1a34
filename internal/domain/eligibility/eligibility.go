// Package eligibility applies the hard business gates and consistency flags
// that are independent of the numeric score.
package eligibility

import (
	"strings"

	"github.com/samiksha-labs/samiksha/internal/domain/model"
)

// Default gate configuration; overridable via options from configuration.
const (
	defaultBudgetMinCrore = 20.0
	defaultBudgetMaxCrore = 500.0

	defaultBudgetConsistencyCheck = "financial.budgetConsistency"
	defaultTimelineCheck          = "projectProfile.timeline"
)

// Option applies a configuration option to the Checker.
type Option func(*Checker)

// WithBudgetBand sets the inclusive eligible cost band in crore.
func WithBudgetBand(minCrore, maxCrore float64) Option {
	return func(c *Checker) {
		if minCrore >= 0 && maxCrore >= minCrore {
			c.budgetMin = minCrore
			c.budgetMax = maxCrore
		}
	}
}

// WithNegativeSectors sets the excluded sector list; matching is
// case-insensitive.
func WithNegativeSectors(sectors []string) Option {
	return func(c *Checker) {
		c.negativeSectors = make(map[string]struct{}, len(sectors))
		for _, s := range sectors {
			c.negativeSectors[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
		}
	}
}

// WithConsistencyChecks sets the evidence checks backing the budget and
// timeline flags.
func WithConsistencyChecks(budget, timeline string) Option {
	return func(c *Checker) {
		if budget != "" {
			c.budgetCheck = budget
		}
		if timeline != "" {
			c.timelineCheck = timeline
		}
	}
}

// WithRequiredChecks sets the checks whose absence raises the missing-data
// flag. Typically the union of all criterion check lists.
func WithRequiredChecks(checks []string) Option {
	return func(c *Checker) {
		c.requiredChecks = append([]string(nil), checks...)
	}
}

// Checker evaluates eligibility gates and consistency flags for a document.
type Checker struct {
	budgetMin       float64
	budgetMax       float64
	negativeSectors map[string]struct{}

	budgetCheck    string
	timelineCheck  string
	requiredChecks []string
}

// NewChecker creates a checker with configuration options.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		budgetMin:       defaultBudgetMinCrore,
		budgetMax:       defaultBudgetMaxCrore,
		negativeSectors: make(map[string]struct{}),
		budgetCheck:     defaultBudgetConsistencyCheck,
		timelineCheck:   defaultTimelineCheck,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check applies the gates. Eligibility.OutOfRange is derived, never stored
// independently. Flags are each driven by a single evidence signal.
func (c *Checker) Check(bundle *model.EvidenceBundle, declaredCostCrore float64, sector string) (model.Eligibility, model.ConsistencyFlags) {
	sizeOK := declaredCostCrore >= c.budgetMin && declaredCostCrore <= c.budgetMax
	_, negative := c.negativeSectors[strings.ToLower(strings.TrimSpace(sector))]

	elig := model.NewEligibility(sizeOK, negative)

	flags := model.ConsistencyFlags{
		BudgetMismatch: c.budgetMismatch(bundle),
		TimelineIssues: c.timelineIssues(bundle),
		MissingData:    c.missingData(bundle),
	}
	// Mirror the sector gate only when it fires; absence means not flagged.
	if negative {
		flags.IneligibleSector = true
	}
	return elig, flags
}

// budgetMismatch fires when the budget consistency check resolved and found
// the line items inconsistent. A wholly absent check is a missing-data
// concern, not a mismatch.
func (c *Checker) budgetMismatch(bundle *model.EvidenceBundle) bool {
	f, _, ok := bundle.Resolve(c.budgetCheck, model.DefaultPreference())
	return ok && !f.Satisfied
}

// timelineIssues fires when timeline evidence is absent or negative.
func (c *Checker) timelineIssues(bundle *model.EvidenceBundle) bool {
	f, _, ok := bundle.Resolve(c.timelineCheck, model.DefaultPreference())
	return !ok || !f.Satisfied
}

// missingData fires when any required check carries no evidence at all.
func (c *Checker) missingData(bundle *model.EvidenceBundle) bool {
	for _, check := range c.requiredChecks {
		if !bundle.Has(check) {
			return true
		}
	}
	return false
}
