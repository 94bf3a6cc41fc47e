// Package directapi is a secondary Backend implementation that drives
// the Anthropic Messages API directly instead of spawning a subprocess
// CLI. It exists because the backend interface is explicitly
// polymorphic (SPEC_FULL.md §4.4.2) and is useful for environments
// without the reference CLI installed, or for fast local exercise of a
// recipe's prompts. Session resumption is emulated by keeping an
// in-memory transcript per session id, since there is no subprocess
// conversation for the API to resume.
package directapi

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/agentrun/conductor/internal/recipe"
)

// Config configures the direct-API backend.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns the backend's defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://api.anthropic.com",
		Timeout: 60 * time.Second,
	}
}

// Backend drives the Anthropic Messages API for every SendPrompt call.
type Backend struct {
	client anthropic.Client

	mu          sync.Mutex
	transcripts map[string][]anthropic.MessageParam
}

// New constructs a direct-API backend, or a configuration error if no
// API key is available.
func New(cfg Config) (*Backend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("configuration error: anthropic API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	client := anthropic.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	)

	return &Backend{
		client:      client,
		transcripts: make(map[string][]anthropic.MessageParam),
	}, nil
}

func (b *Backend) Name() string { return "anthropic-api" }

// ResolveModel maps the closed tier set to concrete Anthropic model
// ids. Unlike the reference backend, every tier resolves to a concrete
// id: the API has no notion of "omit the flag for backend default."
func (b *Backend) ResolveModel(tier recipe.ModelTier) *string {
	var id string
	switch tier {
	case recipe.ModelHaiku:
		id = "claude-3-5-haiku-latest"
	case recipe.ModelOpus:
		id = "claude-opus-4-20250514"
	case recipe.ModelSonnet:
		id = "claude-sonnet-4-20250514"
	default:
		return nil
	}
	return &id
}

// SendPrompt appends prompt to the session's transcript (clearing it
// first if isNewSession), issues one Messages.New call, and appends the
// assistant's reply back onto the transcript so the next call in this
// session sees it as prior context.
func (b *Backend) SendPrompt(ctx context.Context, prompt, sessionID string, isNewSession bool, workingDir string, modelID *string, systemPrompt string, envOverride map[string]string) (*recipe.AgentResponse, error) {
	model := "claude-sonnet-4-20250514"
	if modelID != nil {
		model = *modelID
	}

	b.mu.Lock()
	if isNewSession {
		b.transcripts[sessionID] = nil
	}
	transcript := append([]anthropic.MessageParam{}, b.transcripts[sessionID]...)
	b.mu.Unlock()

	transcript = append(transcript, anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)))

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 8192,
		Messages:  transcript,
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	resp, err := b.client.Messages.New(ctx, params, option.WithRequestTimeout(10*time.Minute))
	if err != nil {
		return nil, fmt.Errorf("backend error: anthropic API call failed: %w", err)
	}

	text := extractText(resp)
	transcript = append(transcript, anthropic.NewAssistantMessage(anthropic.NewTextBlock(text)))

	b.mu.Lock()
	b.transcripts[sessionID] = transcript
	b.mu.Unlock()

	inTok := int(resp.Usage.InputTokens)
	outTok := int(resp.Usage.OutputTokens)

	return &recipe.AgentResponse{
		Success:      true,
		ResponseText: text,
		SessionID:    sessionID,
		InputTokens:  &inTok,
		OutputTokens: &outTok,
	}, nil
}

func extractText(resp *anthropic.Message) string {
	var text string
	for _, block := range resp.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			text += tb.Text
		}
	}
	return text
}
