// Package outcome recovers a structured outcome token from an agent's
// free-text response. The agent is a non-deterministic text producer;
// this package is the parser contract against it.
package outcome

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agentrun/conductor/internal/recipe"
)

const lookbackLines = 5

// candidatePayload holds a json object
type candidatePayload struct {
	Outcome          *string `json:"outcome"`
	OtherDescription *string `json:"otherDescription"`
}

// Extract recovers a recipe.OutcomeResult from responseText, checking
// the extracted outcome against validOutcomes (the current step's
// declared alphabet). The steps below run in this exact order; do not
// reorder them (see SPEC_FULL.md §4.5 and the outcome extractor entry
// in DESIGN.md).
func Extract(responseText string, validOutcomes map[string]struct{}) recipe.OutcomeResult {
	candidate, found := findCandidateLine(responseText)
	if !found {
		return recipe.NewOutcomeFailure("No JSON block found in response", "")
	}

	cleaned := stripFence(candidate)

	var payload candidatePayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return recipe.NewOutcomeFailure(fmt.Sprintf("failed to parse JSON outcome block: %s", err), candidate)
	}

	if payload.Outcome == nil {
		return recipe.NewOutcomeFailure(`missing required string field "outcome"`, candidate)
	}
	outcomeToken := *payload.Outcome

	if _, ok := validOutcomes[outcomeToken]; !ok {
		return recipe.NewOutcomeFailure(fmt.Sprintf("outcome %q not in valid outcomes: %s", outcomeToken, joinKeys(validOutcomes)), candidate)
	}

	if outcomeToken == "other" {
		if payload.OtherDescription == nil || strings.TrimSpace(*payload.OtherDescription) == "" {
			return recipe.NewOutcomeFailure(`outcome "other" requires a non-blank "otherDescription"`, candidate)
		}
		return recipe.NewOutcomeSuccess(outcomeToken, *payload.OtherDescription)
	}

	return recipe.NewOutcomeSuccess(outcomeToken, "")
}

// findCandidateLine examines the last lookbackLines lines of text,
// iterating from most recent backwards, and returns the first whose
// trimmed form both starts with "{" and ends with "}".
func findCandidateLine(text string) (string, bool) {
	lines := strings.Split(text, "\n")

	start := 0
	if len(lines) > lookbackLines {
		start = len(lines) - lookbackLines
	}
	window := lines[start:]

	for i := len(window) - 1; i >= 0; i-- {
		trimmed := strings.TrimSpace(window[i])
		if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
			return trimmed, true
		}
	}

	return "", false
}

// stripFence removes a leading ```json or ``` and a trailing ``` from an
// already-identified candidate line. It must only ever be applied to the
// candidate, never the whole response, or it would corrupt multi-line
// fenced code the agent may have quoted in its narration.
func stripFence(candidate string) string {
	s := candidate
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func joinKeys(set map[string]struct{}) string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	return strings.Join(keys, ", ")
}
