// Package evaluation turns a debate argument into a structured critique by
// round-tripping it through a text generator.
package evaluation

import (
	"strings"
)

// Anchors are the literal section labels the prompt asks the generator to
// emit and the parser searches for.
const (
	ScoreAnchor     = "**Rationality Score:**"
	ReasoningAnchor = "**Reasoning for Score:**"
	FeedbackAnchor  = "**Feedback:**"
	ImprovedAnchor  = "**Improved Argument:**"
)

// Compose builds the evaluation prompt for topic and argument.
// The output depends only on its inputs.
func Compose(topic, argument string) string {
	var b strings.Builder
	b.Grow(len(promptHead) + len(promptCriteria) + len(promptFormat) + len(topic) + len(argument) + 64)

	b.WriteString(promptHead)
	b.WriteString(`The topic of the debate is: "`)
	b.WriteString(topic)
	b.WriteString("\".\n\n")
	b.WriteString(promptCriteria)
	b.WriteString("**User's Argument:**\n")
	b.WriteString(argument)
	b.WriteString("\n\n")
	b.WriteString(promptFormat)

	return b.String()
}

const promptHead = "You are an AI debate coach. "

const promptCriteria = `**1. Evaluate the argument on these criteria:**
- **Logical Structure:** Is the argument organized with a clear progression? If it already is, say that no changes are needed.
- **Clarity & Coherence:** Is it easy to follow? Point out vague or ambiguous claims, or state that it is already clear.
- **Supporting Evidence:** Is the evidence strong? Suggest what is missing, or state that it is sufficient.
- **Potential Counterarguments:** Name counterarguments an opposing debater could raise, with at least one concrete counterpoint phrased as a debate challenge (e.g. "If we allow X, then what stops Y?").

**2. Assess the rationality of the argument:**
- Give a rationality score from 0 (highly emotional) to 1 (highly rational).
- Explain why the argument received that score.

**3. Write an improved version of the argument** that applies the feedback, keeps the core ideas, and strengthens structure, clarity and reasoning where needed.

`

// promptFormat must list the anchors in score, reasoning, feedback order.
const promptFormat = `**Format your response exactly as follows:**
---
` + ScoreAnchor + ` X.X
` + ReasoningAnchor + ` (explanation)

` + FeedbackAnchor + `
- **Logical Structure:** (comment)
- **Clarity & Coherence:** (comment)
- **Supporting Evidence:** (comment)
- **Potential Counterarguments:**
  - (weaknesses an opponent could exploit)
  - **Example Counterpoint:** *"If we allow X, then what stops Y?"*

` + ImprovedAnchor + `
(the improved version of the argument)
`
