package engine_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/agentrun/conductor/internal/recipe"
)

// fakeBackend scripts a canned sequence of AgentResponses per session,
// so scenarios A-F can be driven without spawning a real subprocess.
// Grounded on the teacher's fake-executor test helper pattern.
type fakeBackend struct {
	mu         sync.Mutex
	scripts    map[string][]string // sessionID -> queue of response texts
	calls      []call
	failNext   map[string]bool
	nextScript map[string]int
}

type call struct {
	sessionID    string
	prompt       string
	isNewSession bool
	isReminder   bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		scripts:    make(map[string][]string),
		failNext:   make(map[string]bool),
		nextScript: make(map[string]int),
	}
}

// script queues literal response texts, returned in order, for every
// sendPrompt call addressed to sessionID regardless of prompt content.
func (f *fakeBackend) script(sessionID string, responses ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts[sessionID] = append(f.scripts[sessionID], responses...)
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) ResolveModel(tier recipe.ModelTier) *string {
	if tier == "" {
		return nil
	}
	s := string(tier)
	return &s
}

func (f *fakeBackend) SendPrompt(_ context.Context, prompt, sessionID string, isNewSession bool, _ string, _ *string, _ string, _ map[string]string) (*recipe.AgentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, call{sessionID: sessionID, prompt: prompt, isNewSession: isNewSession})

	idx := f.nextScript[sessionID]
	queue := f.scripts[sessionID]
	if idx >= len(queue) {
		return nil, fmt.Errorf("fakeBackend: no scripted response left for session %q (call %d)", sessionID, idx+1)
	}
	f.nextScript[sessionID] = idx + 1

	return &recipe.AgentResponse{Success: true, ResponseText: queue[idx], SessionID: sessionID}, nil
}

func (f *fakeBackend) callCount(sessionID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.sessionID == sessionID {
			n++
		}
	}
	return n
}

// fakeCatalog is an in-memory RecipeCatalog for tests.
type fakeCatalog struct {
	recipes map[string]*recipe.Recipe
}

func newFakeCatalog(recipes ...*recipe.Recipe) *fakeCatalog {
	c := &fakeCatalog{recipes: make(map[string]*recipe.Recipe)}
	for _, r := range recipes {
		c.recipes[r.ID] = r
	}
	return c
}

func (c *fakeCatalog) Get(id string) (*recipe.Recipe, bool) {
	r, ok := c.recipes[id]
	return r, ok
}

// sequentialSessionIDs returns a deterministic NewSessionID func that
// hands out ids from a fixed list in order, for assertions that need to
// know exact session identifiers ahead of time.
func sequentialSessionIDs(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}
