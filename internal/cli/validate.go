package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/agentrun/conductor/internal/engine"
	"github.com/agentrun/conductor/internal/recipe"
	"github.com/agentrun/conductor/internal/recipeio"
	"github.com/agentrun/conductor/internal/style"
)

var validateCmd = &cobra.Command{
	Use:   "validate <dir-or-file>",
	Short: "Load and validate recipes without executing them",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// loadRecipesForValidation loads every recipe at target (a file or a
// flat directory), sorted by id, alongside any per-file load errors.
// Split out from runValidate so tests can inspect results without going
// through the command's os.Exit side effect.
func loadRecipesForValidation(target string) ([]*recipe.Recipe, []error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, []error{err}
	}

	var recipes []*recipe.Recipe
	var loadErrs []error

	if info.IsDir() {
		catalog, errs := recipeio.LoadDirectory(target)
		loadErrs = errs
		if catalog != nil {
			for _, id := range catalog.IDs() {
				r, _ := catalog.Get(id)
				recipes = append(recipes, r)
			}
		}
	} else {
		r, err := recipeio.LoadFile(target)
		if err != nil {
			loadErrs = append(loadErrs, err)
		} else {
			recipes = append(recipes, r)
		}
	}

	sort.Slice(recipes, func(i, j int) bool { return recipes[i].ID < recipes[j].ID })
	return recipes, loadErrs
}

func runValidate(cmd *cobra.Command, args []string) error {
	target := args[0]

	recipes, loadErrs := loadRecipesForValidation(target)
	if len(recipes) == 0 && len(loadErrs) == 1 {
		if _, statErr := os.Stat(target); statErr != nil {
			return exitWith(&engine.ConfigurationError{Err: statErr})
		}
	}

	failed := false
	for _, e := range loadErrs {
		style.Error(os.Stderr, e.Error())
		failed = true
	}

	for _, r := range recipes {
		errs := recipe.Validate(r)
		if len(errs) == 0 {
			style.Success(os.Stdout, fmt.Sprintf("%s: ok (%s)", r.ID, filepath.Base(r.SourceFile)))
			continue
		}
		failed = true
		style.Error(os.Stderr, fmt.Sprintf("%s: %d error(s)", r.ID, len(errs)))
		for _, msg := range errs {
			fmt.Fprintf(os.Stderr, "  - %s\n", msg)
		}
	}

	if failed {
		os.Exit(1)
	}
	return nil
}
