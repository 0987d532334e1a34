package model

// Method identifies the extraction method that produced a finding. The set
// is closed; consumers switch over it exhaustively instead of keying string
// lookup tables.
type Method string

const (
	// MethodKeywordFallback is plain keyword matching, always available.
	MethodKeywordFallback Method = "keyword_fallback"
	// MethodNLP is entity/sentence analysis.
	MethodNLP Method = "nlp"
	// MethodSemantic is embedding similarity matching.
	MethodSemantic Method = "semantic"
	// MethodQA is answer extraction from a question-answering model.
	MethodQA Method = "qa"
	// MethodHybrid is reported when a criterion resolved its checks through
	// more than one method. It is derived, never supplied as input.
	MethodHybrid Method = "hybrid"
)

// Valid reports whether m is a known input method. MethodHybrid is excluded
// because it only appears in results.
func (m Method) Valid() bool {
	switch m {
	case MethodKeywordFallback, MethodNLP, MethodSemantic, MethodQA:
		return true
	case MethodHybrid:
		return false
	}
	return false
}

// DefaultPreference is the fallback order for most criteria, strongest first.
func DefaultPreference() []Method {
	return []Method{MethodSemantic, MethodNLP, MethodKeywordFallback}
}

// CompliancePreference prefers Q&A answers before semantic matching, mirroring
// how compliance questions are answered against the document.
func CompliancePreference() []Method {
	return []Method{MethodQA, MethodSemantic, MethodNLP, MethodKeywordFallback}
}
