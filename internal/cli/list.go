package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/agentrun/conductor/internal/recipeio"
	"github.com/agentrun/conductor/internal/style"
)

var listRecipesDir string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Enumerate the recipes in a directory without executing any of them",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listRecipesDir, "recipes-dir", "./recipes", "directory holding recipe YAML files")
}

func runList(cmd *cobra.Command, args []string) error {
	catalog, loadErrs := recipeio.LoadDirectory(listRecipesDir)
	for _, e := range loadErrs {
		style.Error(os.Stderr, e.Error())
	}
	if catalog == nil {
		return fmt.Errorf("could not read recipes directory %s", listRecipesDir)
	}
	return listRecipes(catalog)
}

func listRecipes(catalog *recipeio.Catalog) error {
	ids := catalog.IDs()
	sort.Strings(ids)
	for _, id := range ids {
		r, _ := catalog.Get(id)
		label := r.Label
		if label == "" {
			label = "(no label)"
		}
		fmt.Printf("%-30s %-40s %d steps\n", r.ID, label, len(r.Steps))
	}
	return nil
}
