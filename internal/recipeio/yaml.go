// Package recipeio parses recipe definitions from the on-disk YAML
// format into the recipe data model (package internal/recipe). Loading
// performs only structural/shape parsing; static invariant checking is
// the validator's job (internal/recipe.Validate), run separately before
// execution per SPEC_FULL.md §4.1/§4.2.
package recipeio

import (
	"fmt"
	"os"
	"strings"

	"github.com/agentrun/conductor/internal/recipe"
	"gopkg.in/yaml.v3"
)

type rawGuardrails struct {
	MaxStepVisits *int  `yaml:"maxStepVisits"`
	MaxTotalSteps *int  `yaml:"maxTotalSteps"`
	ExitOnOther   *bool `yaml:"exitOnOther"`
}

type rawStep struct {
	Prompt    string                   `yaml:"prompt"`
	Outcomes  []string                 `yaml:"outcomes"`
	OnOutcome map[string]rawTransition `yaml:"onOutcome"`
	Model     string                   `yaml:"model"`
}

type rawRecipe struct {
	ID          string              `yaml:"id"`
	Label       string              `yaml:"label"`
	Description string              `yaml:"description"`
	InitialStep string              `yaml:"initialStep"`
	Model       string              `yaml:"model"`
	Guardrails  *rawGuardrails      `yaml:"guardrails"`
	Steps       map[string]*rawStep `yaml:"steps"`
}

// rawTransition captures a transition object exactly as it appeared in
// the file, disambiguated by field presence per the fixed priority
// order in spec.md §6: nextStep first, then action=="exit", then
// action=="restart-new-session". Anything else is a loader error.
type rawTransition struct {
	kind     recipe.TransitionKind
	nextStep string
	reason   string
	recipeID string
}

func (rt *rawTransition) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("transition must be a mapping, got %s", value.Tag)
	}

	fields := make(map[string]*yaml.Node, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		fields[value.Content[i].Value] = value.Content[i+1]
	}

	if n, ok := fields["nextStep"]; ok {
		rt.kind = recipe.TransitionNextStep
		return n.Decode(&rt.nextStep)
	}

	action, hasAction := fields["action"]
	if !hasAction {
		return fmt.Errorf("transition must have either 'nextStep' or 'action'")
	}

	var actionValue string
	if err := action.Decode(&actionValue); err != nil {
		return fmt.Errorf("decoding 'action': %w", err)
	}

	switch actionValue {
	case "exit":
		rt.kind = recipe.TransitionExit
		if n, ok := fields["reason"]; ok {
			if err := n.Decode(&rt.reason); err != nil {
				return fmt.Errorf("decoding 'reason': %w", err)
			}
		}
		return nil
	case "restart-new-session":
		rt.kind = recipe.TransitionRestartNewSession
		if n, ok := fields["recipeId"]; ok {
			if err := n.Decode(&rt.recipeID); err != nil {
				return fmt.Errorf("decoding 'recipeId': %w", err)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown transition action %q", actionValue)
	}
}

func (rt rawTransition) toTransition() recipe.Transition {
	switch rt.kind {
	case recipe.TransitionNextStep:
		return recipe.NewNextStep(rt.nextStep)
	case recipe.TransitionRestartNewSession:
		return recipe.NewRestartNewSession(rt.recipeID)
	default:
		return recipe.NewExit(rt.reason)
	}
}

// LoadBytes parses a single recipe definition from data.
func LoadBytes(data []byte, sourceFile string) (*recipe.Recipe, error) {
	var raw rawRecipe
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", displayName(sourceFile), err)
	}

	r := &recipe.Recipe{
		ID:          raw.ID,
		Label:       raw.Label,
		Description: raw.Description,
		InitialStep: raw.InitialStep,
		Model:       recipe.ModelTier(raw.Model),
		Guardrails:  recipe.DefaultGuardrails(),
		Steps:       make(map[string]*recipe.Step, len(raw.Steps)),
		SourceFile:  sourceFile,
	}

	if raw.Guardrails != nil {
		if raw.Guardrails.MaxStepVisits != nil {
			r.Guardrails.MaxStepVisits = *raw.Guardrails.MaxStepVisits
		}
		if raw.Guardrails.MaxTotalSteps != nil {
			r.Guardrails.MaxTotalSteps = *raw.Guardrails.MaxTotalSteps
		}
		if raw.Guardrails.ExitOnOther != nil {
			r.Guardrails.ExitOnOther = *raw.Guardrails.ExitOnOther
		}
	}

	for name, rawStep := range raw.Steps {
		step := &recipe.Step{
			Name:      name,
			Prompt:    rawStep.Prompt,
			Outcomes:  rawStep.Outcomes,
			Model:     recipe.ModelTier(rawStep.Model),
			OnOutcome: make(map[string]recipe.Transition, len(rawStep.OnOutcome)),
		}
		for outcome, rawT := range rawStep.OnOutcome {
			step.OnOutcome[outcome] = rawT.toTransition()
		}
		r.Steps[name] = step
	}

	return r, nil
}

// LoadFile reads and parses a single recipe file from disk.
func LoadFile(path string) (*recipe.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return LoadBytes(data, path)
}

func displayName(sourceFile string) string {
	if sourceFile == "" {
		return "<in-memory recipe>"
	}
	return sourceFile
}

// isRecipeFile reports whether filename has a recipe file extension.
func isRecipeFile(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}
