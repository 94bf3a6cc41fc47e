package recipe

import "time"

// ExecutionState is the mutable per-run bookkeeping the orchestration
// engine owns exclusively for the lifetime of a run. No component other
// than the engine mutates it; the extractor, prompt builder and
// validator only ever read Recipe/Step values.
type ExecutionState struct {
	RecipeID        string
	CurrentStep     string
	StepCount       int
	visitCounts     map[string]int
	retryCounts     map[string]int
	StartedAt       time.Time
	SessionCreated  bool
}

// NewExecutionState creates the state for a fresh run, starting at the
// recipe's initial step. StepCount begins at 1, counting that initial
// step, and its first visit is recorded immediately.
func NewExecutionState(recipeID, initialStep string) *ExecutionState {
	s := &ExecutionState{
		RecipeID:    recipeID,
		CurrentStep: initialStep,
		StepCount:   1,
		visitCounts: make(map[string]int),
		retryCounts: make(map[string]int),
		StartedAt:   time.Now(),
	}
	s.visitCounts[initialStep] = 1
	return s
}

// VisitCount returns how many times the named step has been entered so far.
func (s *ExecutionState) VisitCount(step string) int {
	return s.visitCounts[step]
}

// RetryCount returns how many reminders have been sent for the named
// step since it was last entered fresh.
func (s *ExecutionState) RetryCount(step string) int {
	return s.retryCounts[step]
}

// TransitionTo moves execution to the named step: it increments
// StepCount, increments the step's visit count, and clears its retry
// count (a step entered fresh has never had a reminder sent for this visit).
func (s *ExecutionState) TransitionTo(step string) {
	s.StepCount++
	s.visitCounts[step]++
	s.retryCounts[step] = 0
	s.CurrentStep = step
}

// IncrementRetry records that a reminder was sent for the current step.
func (s *ExecutionState) IncrementRetry(step string) {
	s.retryCounts[step]++
}

// MarkSessionCreated records that the backend has been asked to create
// (rather than resume) the run's session at least once.
func (s *ExecutionState) MarkSessionCreated() {
	s.SessionCreated = true
}
