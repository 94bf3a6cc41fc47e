package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewExecutionState(t *testing.T) {
	s := NewExecutionState("review-and-commit", "code-review")
	assert.Equal(t, "code-review", s.CurrentStep)
	assert.Equal(t, 1, s.StepCount)
	assert.Equal(t, 1, s.VisitCount("code-review"))
	assert.Equal(t, 0, s.RetryCount("code-review"))
	assert.False(t, s.SessionCreated)
}

func TestTransitionTo(t *testing.T) {
	s := NewExecutionState("r", "a")
	s.IncrementRetry("a")
	assert.Equal(t, 1, s.RetryCount("a"))

	s.TransitionTo("b")
	assert.Equal(t, "b", s.CurrentStep)
	assert.Equal(t, 2, s.StepCount)
	assert.Equal(t, 1, s.VisitCount("b"))
	assert.Equal(t, 0, s.RetryCount("b"))

	// Revisiting "a" clears its retry counter on fresh entry.
	s.IncrementRetry("b")
	s.TransitionTo("a")
	assert.Equal(t, 2, s.VisitCount("a"))
	assert.Equal(t, 0, s.RetryCount("a"))
}

func TestMarkSessionCreated(t *testing.T) {
	s := NewExecutionState("r", "a")
	s.MarkSessionCreated()
	assert.True(t, s.SessionCreated)
}
