package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars,
// then validates the result. Validation failures surface here, before any
// document is scored.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SAMIKSHA_CONFIG is set
//  3. env (prefix SAMIKSHA_; double underscore nests, e.g.
//     SAMIKSHA_SCORING__MAX_TOTAL -> scoring.max_total)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("SAMIKSHA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	envProvider := env.Provider("SAMIKSHA_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "samiksha_")
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects malformed configuration up front: negative ceilings, an
// inverted budget band or grade ladder, out-of-range risk constants. The
// pipeline never discovers bad configuration mid-analysis.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	}
	if c.ResultsPath == "" {
		return fmt.Errorf("%w: results_path must not be empty", ErrInvalidConfig)
	}

	s := c.Scoring
	if s.MaxTotal <= 0 {
		return fmt.Errorf("%w: scoring.max_total must be positive", ErrInvalidConfig)
	}
	for name, ceiling := range map[string]float64{
		"completeness_max": s.CompletenessMax,
		"compliance_max":   s.ComplianceMax,
		"technical_max":    s.TechnicalMax,
		"gatishakti_max":   s.GatiShaktiMax,
		"impact_max":       s.ImpactMax,
	} {
		if ceiling <= 0 {
			return fmt.Errorf("%w: scoring.%s must be positive", ErrInvalidConfig, name)
		}
	}
	if !(s.GradeExcellent >= s.GradeGood && s.GradeGood >= s.GradeFair && s.GradeFair >= 0) {
		return fmt.Errorf("%w: grade breakpoints must descend excellent >= good >= fair >= 0", ErrInvalidConfig)
	}
	if s.GradeExcellent > 100 {
		return fmt.Errorf("%w: grade breakpoints are percentages and cannot exceed 100", ErrInvalidConfig)
	}
	if s.GatiShaktiCheck == "" {
		return fmt.Errorf("%w: scoring.gatishakti_check must not be empty", ErrInvalidConfig)
	}

	r := c.Risk
	for name, v := range map[string]float64{
		"cost_overrun_weight":    r.CostOverrunWeight,
		"delay_weight":           r.DelayWeight,
		"implementation_weight":  r.ImplementationWeight,
		"cost_overrun_penalty":   r.CostOverrunPenalty,
		"delay_penalty":          r.DelayPenalty,
		"implementation_penalty": r.ImplementationPenalty,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: risk.%s must lie in [0,1]", ErrInvalidConfig, name)
		}
	}

	e := c.Eligibility
	if e.BudgetMinCrore < 0 {
		return fmt.Errorf("%w: eligibility.budget_min_crore must not be negative", ErrInvalidConfig)
	}
	if e.BudgetMinCrore > e.BudgetMaxCrore {
		return fmt.Errorf("%w: eligibility budget band min %.2f exceeds max %.2f",
			ErrInvalidConfig, e.BudgetMinCrore, e.BudgetMaxCrore)
	}

	rec := c.Recommend
	if rec.DelayRiskThreshold < 0 || rec.DelayRiskThreshold > 1 {
		return fmt.Errorf("%w: recommend.delay_risk_threshold must lie in [0,1]", ErrInvalidConfig)
	}
	if rec.ComplianceThreshold < 0 || rec.TechnicalQualityThreshold < 0 {
		return fmt.Errorf("%w: recommend score thresholds must not be negative", ErrInvalidConfig)
	}
	return nil
}
