package model

import "strings"

// Dimension is one evidence grouping of a proposal document. Check names are
// prefixed with their dimension, e.g. "financial.gstComponents".
type Dimension string

const (
	DimensionProjectProfile Dimension = "projectProfile"
	DimensionBeneficiary    Dimension = "beneficiary"
	DimensionFinancial      Dimension = "financial"
	DimensionTechnical      Dimension = "technical"
	DimensionCertificates   Dimension = "certificates"
)

// AllDimensions lists every dimension a bundle must cover, in report order.
func AllDimensions() []Dimension {
	return []Dimension{
		DimensionProjectProfile,
		DimensionBeneficiary,
		DimensionFinancial,
		DimensionTechnical,
		DimensionCertificates,
	}
}

// DimensionOf extracts the dimension prefix from a check name. The second
// return is false when the name carries no recognizable prefix.
func DimensionOf(check string) (Dimension, bool) {
	prefix, _, found := strings.Cut(check, ".")
	if !found {
		return "", false
	}
	for _, d := range AllDimensions() {
		if Dimension(prefix) == d {
			return d, true
		}
	}
	return "", false
}

// Finding is a single extracted fact about one check, produced by one method.
type Finding struct {
	// Satisfied reports whether the check passed outright.
	Satisfied bool `json:"satisfied"`
	// Score optionally carries a continuous strength in [0,1], e.g. a
	// semantic similarity. Zero means no continuous signal was supplied.
	Score float64 `json:"score,omitempty"`
}

// EvidenceBundle is the core's sole input besides configuration: per named
// check, the findings each extraction method produced, plus the set of
// methods the extraction pipeline reports as usable. A check with no
// findings is an explicit gap, never a silent false.
type EvidenceBundle struct {
	checks    map[string]map[Method]Finding
	available map[Method]bool
}

// NewEvidenceBundle creates an empty bundle. Keyword matching is always
// available; stronger methods must be marked by the extraction pipeline.
func NewEvidenceBundle() *EvidenceBundle {
	return &EvidenceBundle{
		checks:    make(map[string]map[Method]Finding),
		available: map[Method]bool{MethodKeywordFallback: true},
	}
}

// MarkAvailable records that the extraction pipeline can serve method m.
func (b *EvidenceBundle) MarkAvailable(m Method) {
	if m.Valid() {
		b.available[m] = true
	}
}

// MethodAvailable reports whether method m may be used for resolution.
func (b *EvidenceBundle) MethodAvailable(m Method) bool {
	return b.available[m]
}

// Add records a finding for check as produced by method m. Findings from
// invalid methods are dropped.
func (b *EvidenceBundle) Add(check string, m Method, f Finding) {
	if !m.Valid() {
		return
	}
	if b.checks[check] == nil {
		b.checks[check] = make(map[Method]Finding)
	}
	b.checks[check][m] = f
}

// Has reports whether any method produced a finding for check.
func (b *EvidenceBundle) Has(check string) bool {
	return len(b.checks[check]) > 0
}

// Resolve returns the finding for check from the strongest method in
// preference order that is both available and produced one. ok is false when
// no method yields a finding, i.e. the check is an evidence gap.
func (b *EvidenceBundle) Resolve(check string, preference []Method) (Finding, Method, bool) {
	findings := b.checks[check]
	if len(findings) == 0 {
		return Finding{}, "", false
	}
	for _, m := range preference {
		if !b.available[m] {
			continue
		}
		if f, ok := findings[m]; ok {
			return f, m, true
		}
	}
	return Finding{}, "", false
}

// DimensionCovered reports whether at least one check of dimension d carries
// at least one finding.
func (b *EvidenceBundle) DimensionCovered(d Dimension) bool {
	for check, findings := range b.checks {
		if len(findings) == 0 {
			continue
		}
		if dim, ok := DimensionOf(check); ok && dim == d {
			return true
		}
	}
	return false
}

// Checks returns the names of all checks carrying at least one finding.
func (b *EvidenceBundle) Checks() []string {
	names := make([]string, 0, len(b.checks))
	for check, findings := range b.checks {
		if len(findings) > 0 {
			names = append(names, check)
		}
	}
	return names
}
