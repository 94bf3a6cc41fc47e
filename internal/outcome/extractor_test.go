package outcome

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validOutcomes(outcomes ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(outcomes))
	for _, o := range outcomes {
		set[o] = struct{}{}
	}
	return set
}

func TestExtract_SimpleSuccess(t *testing.T) {
	r := Extract("Looks fine.\n"+`{"outcome": "no-issues"}`, validOutcomes("no-issues", "issues-found"))
	assert.True(t, r.Success)
	assert.Equal(t, "no-issues", r.Outcome)
}

func TestExtract_NoJSONBlock(t *testing.T) {
	r := Extract("just talking, nothing structured", validOutcomes("done"))
	assert.False(t, r.Success)
	assert.Equal(t, "No JSON block found in response", r.Error)
}

func TestExtract_CandidateOnFifthFromLastLineFound(t *testing.T) {
	lines := []string{
		`{"outcome": "done"}`,
		"line4", "line3", "line2", "line1",
	}
	text := strings.Join(lines, "\n")
	r := Extract(text, validOutcomes("done"))
	assert.True(t, r.Success)
	assert.Equal(t, "done", r.Outcome)
}

func TestExtract_CandidateOnSixthFromLastLineNotFound(t *testing.T) {
	lines := []string{
		`{"outcome": "done"}`,
		"line5", "line4", "line3", "line2", "line1",
	}
	text := strings.Join(lines, "\n")
	r := Extract(text, validOutcomes("done"))
	assert.False(t, r.Success)
	assert.Equal(t, "No JSON block found in response", r.Error)
}

func TestExtract_FencedCandidateStillExtracted(t *testing.T) {
	text := "Summary of review:\n```json\n" + `{"outcome": "no-issues"}` + "\n```"
	r := Extract(text, validOutcomes("no-issues"))
	assert.True(t, r.Success)
	assert.Equal(t, "no-issues", r.Outcome)
}

func TestExtract_TruncatedJSONNeverBecomesACandidate(t *testing.T) {
	// A line missing its closing brace never satisfies findCandidateLine's
	// "starts with { and ends with }" check, so this takes the no-JSON-
	// found path rather than the malformed-candidate path.
	r := Extract(`{"outcome": "no-issues"`, validOutcomes("no-issues"))
	assert.False(t, r.Success)
	assert.Equal(t, "No JSON block found in response", r.Error)
	assert.Empty(t, r.MalformedCandidate)
}

func TestExtract_MalformedJSONCandidateRetained(t *testing.T) {
	r := Extract(`{"outcome": "no-issues",}`, validOutcomes("no-issues"))
	assert.False(t, r.Success)
	assert.NotEmpty(t, r.MalformedCandidate)
}

func TestExtract_OutcomeNotInValidSet(t *testing.T) {
	r := Extract(`{"outcome": "unexpected"}`, validOutcomes("done"))
	assert.False(t, r.Success)
	assert.Contains(t, r.Error, "not in valid outcomes")
}

func TestExtract_MissingOutcomeField(t *testing.T) {
	r := Extract(`{"foo": "bar"}`, validOutcomes("done"))
	assert.False(t, r.Success)
	assert.Contains(t, r.Error, `missing required string field "outcome"`)
}

func TestExtract_OtherWithoutDescriptionFails(t *testing.T) {
	r := Extract(`{"outcome": "other"}`, validOutcomes("done", "other"))
	assert.False(t, r.Success)
}

func TestExtract_OtherWithBlankDescriptionFails(t *testing.T) {
	r := Extract(`{"outcome": "other", "otherDescription": "   "}`, validOutcomes("done", "other"))
	assert.False(t, r.Success)
}

func TestExtract_OtherWithDescriptionSucceeds(t *testing.T) {
	r := Extract(`{"outcome": "other", "otherDescription": "unclear request"}`, validOutcomes("done", "other"))
	assert.True(t, r.Success)
	assert.Equal(t, "other", r.Outcome)
	assert.Equal(t, "unclear request", r.Description)
}

func TestExtract_OtherDescriptionIgnoredForNonOtherOutcome(t *testing.T) {
	r := Extract(`{"outcome": "done", "otherDescription": "ignored"}`, validOutcomes("done", "other"))
	assert.True(t, r.Success)
	assert.Equal(t, "done", r.Outcome)
	assert.Empty(t, r.Description)
}
