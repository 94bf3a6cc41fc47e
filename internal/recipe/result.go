package recipe

// OutcomeResult is the tagged result of attempting to extract a
// structured outcome from an agent's free-text response. Exactly one of
// the two cases is meaningful, selected by Success.
type OutcomeResult struct {
	Success bool

	// Set when Success is true.
	Outcome     string
	Description string // optional "otherDescription", empty if not applicable

	// Set when Success is false.
	Error              string
	MalformedCandidate string // optional, the line that failed to parse
}

// NewOutcomeSuccess builds a successful extraction result.
func NewOutcomeSuccess(outcome, description string) OutcomeResult {
	return OutcomeResult{Success: true, Outcome: outcome, Description: description}
}

// NewOutcomeFailure builds a failed extraction result.
func NewOutcomeFailure(errMsg, malformed string) OutcomeResult {
	return OutcomeResult{Success: false, Error: errMsg, MalformedCandidate: malformed}
}

// AgentResponse is what a Backend returns for a single prompt exchange.
type AgentResponse struct {
	Success      bool
	ResponseText string
	Error        string
	SessionID    string

	// Usage is optional: backends that do not report usage leave these nil.
	InputTokens  *int
	OutputTokens *int
	CostUSD      *float64
}
