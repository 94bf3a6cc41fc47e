package directapi

import (
	"testing"

	"github.com/agentrun/conductor/internal/recipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestResolveModel(t *testing.T) {
	b, err := New(Config{APIKey: "test-key"})
	require.NoError(t, err)

	haiku := b.ResolveModel(recipe.ModelHaiku)
	require.NotNil(t, haiku)
	assert.Equal(t, "claude-3-5-haiku-latest", *haiku)

	sonnet := b.ResolveModel(recipe.ModelSonnet)
	require.NotNil(t, sonnet)

	assert.Nil(t, b.ResolveModel(recipe.ModelTier("invalid")))
}

func TestName(t *testing.T) {
	b, err := New(Config{APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic-api", b.Name())
}
