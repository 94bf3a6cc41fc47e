package recipeio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/agentrun/conductor/internal/recipe"
)

// Catalog is an indexed set of recipes loaded from a directory, keyed by
// recipe id. A directory may hold recipes that reference each other via
// restart-new-session transitions, so the whole directory is loaded as a
// unit rather than one file at a time.
type Catalog struct {
	recipes map[string]*recipe.Recipe
	order   []string
}

// LoadError describes a single file's load failure within a directory
// scan. Scanning a directory does not abort on the first bad file: every
// file gets a chance, and all failures are reported together.
type LoadError struct {
	File string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadDirectory loads every .yaml/.yml file in dir (non-recursive,
// sorted by filename) into a Catalog. Per-file parse errors are
// collected and returned alongside whatever recipes did load
// successfully, rather than aborting the whole scan.
func LoadDirectory(dir string) (*Catalog, []error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, []error{fmt.Errorf("reading recipes directory %s: %w", dir, err)}
	}

	var filenames []string
	for _, e := range entries {
		if e.IsDir() || !isRecipeFile(e.Name()) {
			continue
		}
		filenames = append(filenames, e.Name())
	}
	sort.Strings(filenames)

	cat := &Catalog{recipes: make(map[string]*recipe.Recipe, len(filenames))}
	var errs []error

	for _, name := range filenames {
		path := filepath.Join(dir, name)
		r, err := LoadFile(path)
		if err != nil {
			errs = append(errs, &LoadError{File: path, Err: err})
			continue
		}
		if r.ID == "" {
			errs = append(errs, &LoadError{File: path, Err: fmt.Errorf("recipe has no id")})
			continue
		}
		if existing, ok := cat.recipes[r.ID]; ok {
			errs = append(errs, &LoadError{File: path, Err: fmt.Errorf("duplicate recipe id %q (already defined in %s)", r.ID, existing.SourceFile)})
			continue
		}
		cat.recipes[r.ID] = r
		cat.order = append(cat.order, r.ID)
	}

	return cat, errs
}

// Get returns the recipe with the given id.
func (c *Catalog) Get(id string) (*recipe.Recipe, bool) {
	r, ok := c.recipes[id]
	return r, ok
}

// IDs returns every loaded recipe id in file-scan order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len reports how many recipes are loaded.
func (c *Catalog) Len() int { return len(c.recipes) }
