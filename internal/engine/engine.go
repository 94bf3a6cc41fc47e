// Package engine is the orchestration engine: it drives a recipe's
// finite state machine to completion by sending prompts to a Backend,
// extracting structured outcomes from its free text, and dispatching
// the resulting transitions. The engine is the only component that
// mutates recipe.ExecutionState or decides which step runs next; the
// agent's role is limited to producing the outcome token consulted at
// each step.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/agentrun/conductor/internal/backend"
	"github.com/agentrun/conductor/internal/outcome"
	"github.com/agentrun/conductor/internal/prompt"
	"github.com/agentrun/conductor/internal/recipe"
)

// RecipeCatalog is the lookup surface the engine needs for
// RestartNewSession: find a recipe by id. internal/recipeio.Catalog
// satisfies this without the engine importing the loader package.
type RecipeCatalog interface {
	Get(id string) (*recipe.Recipe, bool)
}

// Options carries everything a CLI (or test) may override from outside
// the recipe file itself.
type Options struct {
	// ModelOverride is consulted only when neither the step nor the
	// recipe declares a model tier.
	ModelOverride recipe.ModelTier

	// MaxStepVisits/MaxTotalSteps, when non-nil, override the recipe's
	// own guardrail fields. ExitOnOther is never overridden: it is
	// advisory and lives entirely in how a recipe wires "other".
	MaxStepVisits *int
	MaxTotalSteps *int

	// MaxRestarts caps RestartNewSession transitions; nil means
	// unlimited. The initial run is not counted as a restart.
	MaxRestarts *int

	WorkingDir   string
	SystemPrompt string
	Env          map[string]string

	// StepTimeout bounds each agent invocation. Zero means no deadline
	// beyond ctx's own.
	StepTimeout time.Duration

	// NewSessionID mints a session id for the initial run and for every
	// restart. Defaults to uuid.NewString; overridable by tests for
	// deterministic session sequences.
	NewSessionID func() string
}

func (o Options) sessionIDFactory() func() string {
	if o.NewSessionID != nil {
		return o.NewSessionID
	}
	return uuid.NewString
}

// RunResult summarizes a completed engine run, including every
// RestartNewSession hop it took.
type RunResult struct {
	Status     string
	RecipeID   string
	SessionIDs []string
	StepCount  int
	Restarts   int

	InputTokens  int
	OutputTokens int
	CostUSD      float64
}

type runStatusKind int

const (
	statusExit runStatusKind = iota
	statusRestart
)

type runStatus struct {
	kind            runStatusKind
	reason          string
	restartRecipeID string
}

// Run drives startRecipeID to completion, following RestartNewSession
// transitions across fresh sessions until an Exit transition or a fatal
// error terminates the run.
func Run(ctx context.Context, catalog RecipeCatalog, startRecipeID string, be backend.Backend, opts Options) (*RunResult, error) {
	newSessionID := opts.sessionIDFactory()
	locks := NewSessionLocks()
	validated := make(map[string]bool)

	result := &RunResult{}
	recipeID := startRecipeID
	restarts := 0

	for {
		r, ok := catalog.Get(recipeID)
		if !ok {
			return result, &ConfigurationError{Err: fmt.Errorf("recipe %q not found", recipeID)}
		}

		if !validated[recipeID] {
			if errs := recipe.Validate(r); len(errs) > 0 {
				return result, &ValidationError{RecipeID: recipeID, Messages: errs}
			}
			validated[recipeID] = true
		}

		guardrails := effectiveGuardrails(r.Guardrails, opts)
		sessionID := newSessionID()
		result.RecipeID = recipeID
		result.SessionIDs = append(result.SessionIDs, sessionID)

		status, stepCount, err := runLockedSession(ctx, locks, r, sessionID, be, guardrails, opts, result)

		result.StepCount = stepCount
		if err != nil {
			return result, err
		}

		if status.kind == statusRestart {
			restarts++
			result.Restarts = restarts
			if opts.MaxRestarts != nil && restarts > *opts.MaxRestarts {
				return result, &GuardrailError{Reason: "max-restarts-exceeded"}
			}
			recipeID = status.restartRecipeID
			continue
		}

		result.Status = status.reason
		return result, nil
	}
}

// runLockedSession acquires sessionID's lock for the duration of one
// runOnce call and releases it via defer, so the lock is freed on every
// exit path out of runOnce, including a panic unwinding through it.
func runLockedSession(ctx context.Context, locks *SessionLocks, r *recipe.Recipe, sessionID string, be backend.Backend, guardrails recipe.Guardrails, opts Options, acc *RunResult) (runStatus, int, error) {
	release := locks.Acquire(sessionID)
	defer release()
	return runOnce(ctx, r, sessionID, be, guardrails, opts, acc)
}

// effectiveGuardrails applies CLI overrides on top of the recipe's own
// guardrail fields. ExitOnOther is never overridden from outside the
// recipe.
func effectiveGuardrails(base recipe.Guardrails, opts Options) recipe.Guardrails {
	g := base
	if opts.MaxStepVisits != nil {
		g.MaxStepVisits = *opts.MaxStepVisits
	}
	if opts.MaxTotalSteps != nil {
		g.MaxTotalSteps = *opts.MaxTotalSteps
	}
	return g
}

// runOnce drives a single ExecutionState (one session) until it exits
// or requests a restart.
func runOnce(ctx context.Context, r *recipe.Recipe, sessionID string, be backend.Backend, guardrails recipe.Guardrails, opts Options, acc *RunResult) (runStatus, int, error) {
	state := recipe.NewExecutionState(r.ID, r.InitialStep)

	for {
		step, ok := r.StepOrFalse(state.CurrentStep)
		if !ok {
			return runStatus{}, state.StepCount, &ConfigurationError{Err: fmt.Errorf("step %q is not defined in recipe %q", state.CurrentStep, r.ID)}
		}

		modelID := be.ResolveModel(resolveTier(step.Model, r.Model, opts.ModelOverride))

		resp, err := sendPrompt(ctx, be, prompt.BuildStep(step), sessionID, !state.SessionCreated, modelID, opts)
		if err != nil {
			return runStatus{}, state.StepCount, &BackendError{Err: err}
		}
		if !resp.Success {
			return runStatus{}, state.StepCount, &BackendError{Err: fmt.Errorf("agent returned failure: %s", resp.Error)}
		}
		state.MarkSessionCreated()
		accumulate(acc, resp)

		result := outcome.Extract(resp.ResponseText, step.OutcomeSet())
		if !result.Success {
			if state.RetryCount(state.CurrentStep) > 0 {
				return runStatus{}, state.StepCount, &ExtractionError{Step: state.CurrentStep, Err: fmt.Errorf("%s", result.Error)}
			}

			state.IncrementRetry(state.CurrentStep)
			log.Debug().Str("step", state.CurrentStep).Str("reason", result.Error).Msg("sending outcome reminder")

			resp2, err := sendPrompt(ctx, be, prompt.BuildReminder(step, result.Error), sessionID, false, modelID, opts)
			if err != nil {
				return runStatus{}, state.StepCount, &BackendError{Err: err}
			}
			if !resp2.Success {
				return runStatus{}, state.StepCount, &BackendError{Err: fmt.Errorf("agent returned failure on reminder: %s", resp2.Error)}
			}
			accumulate(acc, resp2)

			result = outcome.Extract(resp2.ResponseText, step.OutcomeSet())
			if !result.Success {
				return runStatus{}, state.StepCount, &ExtractionError{Step: state.CurrentStep, Err: fmt.Errorf("%s", result.Error)}
			}
		}

		transition, ok := step.OnOutcome[result.Outcome]
		if !ok {
			return runStatus{}, state.StepCount, &ConfigurationError{Err: fmt.Errorf("outcome %q has no onOutcome entry in step %q", result.Outcome, state.CurrentStep)}
		}

		switch transition.Kind {
		case recipe.TransitionExit:
			return runStatus{kind: statusExit, reason: transition.ExitReason}, state.StepCount, nil

		case recipe.TransitionRestartNewSession:
			return runStatus{kind: statusRestart, restartRecipeID: transition.RestartRecipeID}, state.StepCount, nil

		case recipe.TransitionNextStep:
			if state.VisitCount(transition.NextStep)+1 > guardrails.MaxStepVisits {
				return runStatus{}, state.StepCount, &GuardrailError{Reason: fmt.Sprintf("max-step-visits-exceeded:%s", transition.NextStep)}
			}
			if state.StepCount >= guardrails.MaxTotalSteps {
				return runStatus{}, state.StepCount, &GuardrailError{Reason: "max-total-steps"}
			}
			state.TransitionTo(transition.NextStep)

		default:
			return runStatus{}, state.StepCount, &ConfigurationError{Err: fmt.Errorf("unrecognized transition kind %q", transition.Kind)}
		}
	}
}

// resolveTier picks the first non-empty tier in (step, recipe, cli override) order.
func resolveTier(stepTier, recipeTier, cliTier recipe.ModelTier) recipe.ModelTier {
	if stepTier != "" {
		return stepTier
	}
	if recipeTier != "" {
		return recipeTier
	}
	return cliTier
}

func sendPrompt(ctx context.Context, be backend.Backend, text, sessionID string, isNewSession bool, modelID *string, opts Options) (*recipe.AgentResponse, error) {
	var systemPrompt string
	if isNewSession {
		systemPrompt = opts.SystemPrompt
	}

	callCtx := ctx
	var cancel context.CancelFunc
	if opts.StepTimeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, opts.StepTimeout)
		defer cancel()
	}

	return be.SendPrompt(callCtx, text, sessionID, isNewSession, opts.WorkingDir, modelID, systemPrompt, opts.Env)
}

func accumulate(acc *RunResult, resp *recipe.AgentResponse) {
	if resp.InputTokens != nil {
		acc.InputTokens += *resp.InputTokens
	}
	if resp.OutputTokens != nil {
		acc.OutputTokens += *resp.OutputTokens
	}
	if resp.CostUSD != nil {
		acc.CostUSD += *resp.CostUSD
	}
}
