// Package backend defines the polymorphic capability the orchestration
// engine drives to turn a prompt into an agent response. Concrete
// backends (subprocess CLI, direct API) live in subpackages.
package backend

import (
	"context"

	"github.com/agentrun/conductor/internal/recipe"
)

// Backend turns (prompt, session flags) into an AgentResponse by
// driving an opaque agent CLI or API. Implementations must preserve
// prompt ordering within a session: a reminder always follows the
// original prompt for that session and is answered before control
// returns to the caller.
type Backend interface {
	// SendPrompt sends prompt to the session identified by sessionID.
	// When isNewSession is true the backend must start a fresh
	// conversation under that id; otherwise it resumes prior turns.
	// modelID is the already-resolved concrete model id, or nil to
	// omit the flag and use the backend's own default. systemPrompt,
	// when non-empty, is appended via the backend's own system-prompt
	// mechanism (the reference backend emits --append-system-prompt)
	// rather than being folded into prompt text; callers only pass it on
	// the new-session call, since it seeds the conversation. envOverride
	// is applied last, after the backend strips any nested-session
	// detection variables from the inherited environment.
	SendPrompt(ctx context.Context, prompt, sessionID string, isNewSession bool, workingDir string, modelID *string, systemPrompt string, envOverride map[string]string) (*recipe.AgentResponse, error)

	// Name returns the backend's identifier, used for --backend selection.
	Name() string

	// ResolveModel maps an abstract tier to a concrete model id, or nil
	// to omit the model flag and use the backend's default.
	ResolveModel(tier recipe.ModelTier) *string
}

// Cancel, implemented optionally by backends that track in-flight
// processes per session (e.g. the subprocess-based reference backend),
// lets external callers request early termination of a running session.
type Canceller interface {
	Cancel(sessionID string) error
}
