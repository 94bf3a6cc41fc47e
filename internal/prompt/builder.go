// Package prompt assembles the text sent to the agent: the step prompt
// plus its outcome-format block, and the retry reminder sent after a
// failed outcome extraction. Both functions are pure and deterministic.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agentrun/conductor/internal/recipe"
)

// BuildStep assembles the prompt sent to the agent for step: the step's
// instruction text, a blank line separator, and a block listing each
// valid outcome as a concrete JSON example, non-"other" outcomes sorted
// lexicographically with "other" always last.
func BuildStep(step *recipe.Step) string {
	var b strings.Builder
	b.WriteString(step.Prompt)
	b.WriteString("\n\n")
	b.WriteString("End your response with one of these JSON blocks on the last line:\n\n")
	b.WriteString(outcomeBlock(step.Outcomes))
	return b.String()
}

// BuildReminder assembles the short follow-up prompt sent after a failed
// outcome extraction, asking only for the JSON outcome block.
func BuildReminder(step *recipe.Step, errMsg string) string {
	var b strings.Builder
	b.WriteString("Your previous response did not include the required JSON outcome block.\n")
	b.WriteString("Please respond now with ONLY the JSON outcome on a single line.\n")
	b.WriteString(fmt.Sprintf("Error: %s\n", errMsg))
	b.WriteString("Valid responses:\n")
	b.WriteString(outcomeBlock(step.Outcomes))
	b.WriteString("Respond with ONLY the JSON block, nothing else.")
	return b.String()
}

// outcomeBlock renders one JSON example line per outcome, non-"other"
// outcomes sorted lexicographically, "other" last when present.
func outcomeBlock(outcomes []string) string {
	sorted := make([]string, 0, len(outcomes))
	hasOther := false
	for _, o := range outcomes {
		if o == "other" {
			hasOther = true
			continue
		}
		sorted = append(sorted, o)
	}
	sort.Strings(sorted)

	var b strings.Builder
	for _, o := range sorted {
		b.WriteString(fmt.Sprintf(`{"outcome": %q}`, o))
		b.WriteString("\n")
	}
	if hasOther {
		b.WriteString(`{"outcome": "other", "otherDescription": "<brief description>"}`)
		b.WriteString("\n")
	}
	return b.String()
}
