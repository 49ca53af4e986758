package domain

import "strings"

// Fallback flags record which fields of an EvaluationResult were substituted
// with defaults because the generated text did not carry the expected anchor.
type Fallback uint8

const (
	// FallbackScore marks a missing or non-numeric score line.
	FallbackScore Fallback = 1 << iota
	// FallbackReasoning marks a missing reasoning section.
	FallbackReasoning
	// FallbackFeedback marks a missing feedback section.
	FallbackFeedback
)

// Has reports whether f includes flag.
func (f Fallback) Has(flag Fallback) bool {
	return f&flag != 0
}

// String lists the set flags, e.g. "score,feedback".
func (f Fallback) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	if f.Has(FallbackScore) {
		parts = append(parts, "score")
	}
	if f.Has(FallbackReasoning) {
		parts = append(parts, "reasoning")
	}
	if f.Has(FallbackFeedback) {
		parts = append(parts, "feedback")
	}
	return strings.Join(parts, ",")
}

// EvaluationResult is the structured critique of one argument.
// When Blocked is set every other field is zero and the result must not be saved.
type EvaluationResult struct {
	RationalityScore float64
	Reasoning        string
	Feedback         string
	ImprovedArgument string
	Blocked          bool
	Fallbacks        Fallback
}

// WellFormed reports whether every field came from the generated text.
func (r EvaluationResult) WellFormed() bool {
	return !r.Blocked && r.Fallbacks == 0
}
