package recipeio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRecipeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDirectory_LoadsAllValidFiles(t *testing.T) {
	dir := t.TempDir()
	writeRecipeFile(t, dir, "a.yaml", `
id: a
initialStep: s
steps:
  s:
    prompt: x
    outcomes: [done]
    onOutcome:
      done: {action: exit, reason: done}
`)
	writeRecipeFile(t, dir, "b.yml", `
id: b
initialStep: s
steps:
  s:
    prompt: x
    outcomes: [done]
    onOutcome:
      done: {action: exit, reason: done}
`)
	writeRecipeFile(t, dir, "notes.txt", "ignore me")

	cat, errs := LoadDirectory(dir)
	assert.Empty(t, errs)
	assert.Equal(t, 2, cat.Len())
	assert.ElementsMatch(t, []string{"a", "b"}, cat.IDs())

	r, ok := cat.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", r.ID)
}

func TestLoadDirectory_CollectsPerFileErrorsWithoutAborting(t *testing.T) {
	dir := t.TempDir()
	writeRecipeFile(t, dir, "good.yaml", `
id: good
initialStep: s
steps:
  s:
    prompt: x
    outcomes: [done]
    onOutcome:
      done: {action: exit, reason: done}
`)
	writeRecipeFile(t, dir, "bad.yaml", "id: [unterminated")

	cat, errs := LoadDirectory(dir)
	require.Len(t, errs, 1)
	assert.Equal(t, 1, cat.Len())
	_, ok := cat.Get("good")
	assert.True(t, ok)
}

func TestLoadDirectory_RejectsDuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	body := `
id: dup
initialStep: s
steps:
  s:
    prompt: x
    outcomes: [done]
    onOutcome:
      done: {action: exit, reason: done}
`
	writeRecipeFile(t, dir, "first.yaml", body)
	writeRecipeFile(t, dir, "second.yaml", body)

	cat, errs := LoadDirectory(dir)
	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "duplicate recipe id")
	assert.Equal(t, 1, cat.Len())
}

func TestLoadDirectory_RejectsMissingID(t *testing.T) {
	dir := t.TempDir()
	writeRecipeFile(t, dir, "noid.yaml", `
initialStep: s
steps:
  s:
    prompt: x
    outcomes: [done]
    onOutcome:
      done: {action: exit, reason: done}
`)
	_, errs := LoadDirectory(dir)
	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "no id")
}
