package evaluation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ashureev/debate-coach/internal/domain"
)

// Defaults substituted when a section cannot be located.
const (
	DefaultScore     = 0.5
	DefaultReasoning = "No reasoning provided."
	DefaultFeedback  = "No feedback provided."
)

// scoreLineMarker is matched per line. It omits the bold markers so that
// "Rationality Score: 0.7" is also accepted.
const scoreLineMarker = "Rationality Score:"

var numeral = regexp.MustCompile(`[-+]?\d*\.\d+|\d+`)

// Parse extracts a structured result from raw generated text.
//
// Sections are located purely by literal anchor search:
//   - score: first line containing the score anchor, first numeral on that line
//   - reasoning: text after the reasoning anchor up to the next blank line
//   - feedback: everything from the feedback anchor to the end of the text
//
// A section that cannot be located takes its default value and sets the
// matching fallback flag. Parse never fails.
func Parse(raw string, blocked bool) domain.EvaluationResult {
	if blocked {
		return domain.EvaluationResult{Blocked: true}
	}

	text := strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))
	var res domain.EvaluationResult

	if score, ok := scanScoreLine(text); ok {
		res.RationalityScore = score
	} else {
		res.RationalityScore = DefaultScore
		res.Fallbacks |= domain.FallbackScore
	}

	if reasoning, ok := captureBounded(text, ReasoningAnchor); ok {
		res.Reasoning = reasoning
	} else {
		res.Reasoning = DefaultReasoning
		res.Fallbacks |= domain.FallbackReasoning
	}

	if feedback, ok := captureUnbounded(text, FeedbackAnchor); ok {
		res.Feedback = feedback
		res.ImprovedArgument = improvedArgument(feedback)
	} else {
		res.Feedback = DefaultFeedback
		res.Fallbacks |= domain.FallbackFeedback
	}

	return res
}

// scanScoreLine walks the text line by line and parses the first numeral on
// the first line that carries the score marker. Later score lines are ignored.
func scanScoreLine(text string) (float64, bool) {
	for line := range strings.SplitSeq(text, "\n") {
		if !strings.Contains(line, scoreLineMarker) {
			continue
		}
		m := numeral.FindString(line)
		if m == "" {
			return 0, false
		}
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	return 0, false
}

// captureBounded returns the trimmed text between anchor and the first blank
// line after it, or the end of text.
func captureBounded(text, anchor string) (string, bool) {
	start := strings.Index(text, anchor)
	if start < 0 {
		return "", false
	}
	span := text[start+len(anchor):]
	if end := strings.Index(span, "\n\n"); end >= 0 {
		span = span[:end]
	}
	return strings.TrimSpace(span), true
}

// captureUnbounded returns everything from anchor, inclusive, to the end of text.
func captureUnbounded(text, anchor string) (string, bool) {
	start := strings.Index(text, anchor)
	if start < 0 {
		return "", false
	}
	return strings.TrimSpace(text[start:]), true
}

// improvedArgument pulls the improved-argument body out of a feedback span.
// The feedback span itself is left untouched.
func improvedArgument(feedback string) string {
	_, after, found := strings.Cut(feedback, ImprovedAnchor)
	if !found {
		return ""
	}
	return strings.TrimSpace(after)
}
