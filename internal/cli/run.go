package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentrun/conductor/internal/backend"
	"github.com/agentrun/conductor/internal/backend/claudecode"
	"github.com/agentrun/conductor/internal/backend/directapi"
	"github.com/agentrun/conductor/internal/engine"
	"github.com/agentrun/conductor/internal/recipe"
	"github.com/agentrun/conductor/internal/recipeio"
	"github.com/agentrun/conductor/internal/style"
)

var runFlags struct {
	backendName  string
	model        string
	maxSteps     int
	maxVisits    int
	workingDir   string
	systemPrompt string
	maxRestarts  int
	verbose      bool
	dryRun       bool
	list         bool
	recipesDir   string
}

var runCmd = &cobra.Command{
	Use:   "run <recipe-id>",
	Short: "Run a recipe to completion",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.backendName, "backend", "claude-code", "agent backend to drive (claude-code, anthropic-api)")
	runCmd.Flags().StringVar(&runFlags.model, "model", "", "model tier override (haiku, sonnet, opus)")
	runCmd.Flags().IntVar(&runFlags.maxSteps, "max-steps", 0, "override the recipe's maxTotalSteps guardrail")
	runCmd.Flags().IntVar(&runFlags.maxVisits, "max-visits", 0, "override the recipe's maxStepVisits guardrail")
	runCmd.Flags().StringVar(&runFlags.workingDir, "working-dir", "", "working directory for the agent process")
	runCmd.Flags().StringVar(&runFlags.systemPrompt, "system-prompt", "", "system prompt passed to the backend on the first prompt of every session")
	runCmd.Flags().IntVar(&runFlags.maxRestarts, "max-restarts", -1, "cap on restart-new-session transitions (-1: unlimited)")
	runCmd.Flags().BoolVarP(&runFlags.verbose, "verbose", "v", false, "emit structured per-event lines to stderr")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate and print the recipe's structure without executing it")
	runCmd.Flags().BoolVar(&runFlags.list, "list", false, "enumerate loaded recipes instead of running one")
	runCmd.Flags().StringVar(&runFlags.recipesDir, "recipes-dir", "./recipes", "directory holding recipe YAML files")
}

func runRun(cmd *cobra.Command, args []string) error {
	catalog, loadErrs := recipeio.LoadDirectory(runFlags.recipesDir)
	if len(loadErrs) > 0 {
		for _, e := range loadErrs {
			style.Error(os.Stderr, e.Error())
		}
	}
	if catalog == nil || catalog.Len() == 0 && len(loadErrs) > 0 {
		return exitWith(&engine.ConfigurationError{Err: fmt.Errorf("no recipes could be loaded from %s", runFlags.recipesDir)})
	}

	if runFlags.list {
		return listRecipes(catalog)
	}

	if len(args) == 0 {
		return exitWith(&engine.ValidationError{Messages: []string{"a recipe id is required"}})
	}
	recipeID := args[0]

	r, ok := catalog.Get(recipeID)
	if !ok {
		return exitWith(&engine.ConfigurationError{Err: fmt.Errorf("recipe %q not found in %s", recipeID, runFlags.recipesDir)})
	}

	if errs := recipe.Validate(r); len(errs) > 0 {
		return exitWith(&engine.ValidationError{RecipeID: recipeID, Messages: errs})
	}

	if runFlags.dryRun {
		printRecipeStructure(r)
		return nil
	}

	be, err := resolveBackend(runFlags.backendName)
	if err != nil {
		return exitWith(&engine.ConfigurationError{Err: err})
	}

	opts := engine.Options{
		ModelOverride: recipe.ModelTier(runFlags.model),
		WorkingDir:    runFlags.workingDir,
		SystemPrompt:  runFlags.systemPrompt,
		StepTimeout:   24 * time.Hour,
	}
	if runFlags.maxSteps > 0 {
		opts.MaxTotalSteps = &runFlags.maxSteps
	}
	if runFlags.maxVisits > 0 {
		opts.MaxStepVisits = &runFlags.maxVisits
	}
	if runFlags.maxRestarts >= 0 {
		opts.MaxRestarts = &runFlags.maxRestarts
	}

	verboseEvent(os.Stderr, "run starting: recipe=%s backend=%s", recipeID, be.Name())

	result, err := engine.Run(context.Background(), catalog, recipeID, be, opts)
	if err != nil {
		return exitWith(err)
	}

	verboseEvent(os.Stderr, "run finished: status=%s steps=%d restarts=%d", result.Status, result.StepCount, result.Restarts)
	style.Success(os.Stdout, fmt.Sprintf("finished: %s (steps=%d, restarts=%d)", result.Status, result.StepCount, result.Restarts))
	return nil
}

func resolveBackend(name string) (backend.Backend, error) {
	switch name {
	case "", "claude-code":
		return claudecode.New(claudecode.DefaultConfig())
	case "anthropic-api":
		cfg := directapi.DefaultConfig()
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		return directapi.New(cfg)
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

// exitWith prints err and immediately calls os.Exit with its engine exit
// code. cobra itself only ever returns 1 on a non-nil error, so the
// precise code is applied here rather than left to cobra.
func exitWith(err error) error {
	style.Error(os.Stderr, err.Error())
	os.Exit(engine.ExitCodeFor(err))
	return nil
}

func printRecipeStructure(r *recipe.Recipe) {
	fmt.Printf("recipe: %s\n", r.ID)
	if r.Label != "" {
		fmt.Printf("label: %s\n", r.Label)
	}
	fmt.Printf("initialStep: %s\n", r.InitialStep)
	fmt.Printf("guardrails: maxStepVisits=%d maxTotalSteps=%d exitOnOther=%t\n",
		r.Guardrails.MaxStepVisits, r.Guardrails.MaxTotalSteps, r.Guardrails.ExitOnOther)

	names := make([]string, 0, len(r.Steps))
	for name := range r.Steps {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		step := r.Steps[name]
		fmt.Printf("\nstep %s:\n", name)
		fmt.Printf("  outcomes: %v\n", step.Outcomes)
		outcomes := make([]string, 0, len(step.OnOutcome))
		for o := range step.OnOutcome {
			outcomes = append(outcomes, o)
		}
		sort.Strings(outcomes)
		for _, o := range outcomes {
			t := step.OnOutcome[o]
			fmt.Printf("  %s -> %s\n", o, describeTransition(t))
		}
	}
}

func describeTransition(t recipe.Transition) string {
	switch t.Kind {
	case recipe.TransitionNextStep:
		return fmt.Sprintf("nextStep(%s)", t.NextStep)
	case recipe.TransitionExit:
		return fmt.Sprintf("exit(%s)", t.ExitReason)
	case recipe.TransitionRestartNewSession:
		return fmt.Sprintf("restartNewSession(%s)", t.RestartRecipeID)
	default:
		return "unknown"
	}
}
