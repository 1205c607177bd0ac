// Package puzzle defines catalog records and the coordinate move notation
// shared by the oracle and the trainer.
package puzzle

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// ErrEmptyCatalog is returned when a catalog contains no puzzles.
var ErrEmptyCatalog = errors.New("puzzle catalog is empty")

// CatalogError describes why a catalog could not be loaded.
type CatalogError struct {
	Path string
	Err  error
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("cannot load catalog %s: %v", e.Path, e.Err)
}

func (e *CatalogError) Unwrap() error { return e.Err }

// catalogValidate checks puzzle records. The "uci" tag is registered in init.
var catalogValidate *validator.Validate

func init() {
	catalogValidate = validator.New()
	_ = catalogValidate.RegisterValidation("uci", validateUCI)
}

func validateUCI(fl validator.FieldLevel) bool {
	_, err := ParseMove(fl.Field().String())
	return err == nil
}

// Catalog is the ordered, read-only list of puzzles for a session.
type Catalog struct {
	puzzles []Puzzle
	byID    map[string]int
}

// NewCatalog validates puzzles and builds a Catalog.
// Returns ErrEmptyCatalog if the list is empty.
func NewCatalog(puzzles []Puzzle) (*Catalog, error) {
	if len(puzzles) == 0 {
		return nil, ErrEmptyCatalog
	}

	byID := make(map[string]int, len(puzzles))
	for i := range puzzles {
		if err := catalogValidate.Struct(&puzzles[i]); err != nil {
			return nil, fmt.Errorf("puzzle[%d] %q: %w", i, puzzles[i].ID, err)
		}
		if prev, ok := byID[puzzles[i].ID]; ok {
			return nil, fmt.Errorf("puzzle[%d]: duplicate id %q (first at %d)", i, puzzles[i].ID, prev)
		}
		byID[puzzles[i].ID] = i
	}

	out := make([]Puzzle, len(puzzles))
	copy(out, puzzles)
	return &Catalog{puzzles: out, byID: byID}, nil
}

// LoadCatalog reads a JSON array of puzzles from path.
// Every failure is reported as a *CatalogError.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &CatalogError{Path: path, Err: err}
	}

	var puzzles []Puzzle
	if err := json.Unmarshal(data, &puzzles); err != nil {
		return nil, &CatalogError{Path: path, Err: fmt.Errorf("failed to parse catalog: %w", err)}
	}

	cat, err := NewCatalog(puzzles)
	if err != nil {
		return nil, &CatalogError{Path: path, Err: err}
	}
	return cat, nil
}

// Len returns the number of puzzles.
func (c *Catalog) Len() int {
	return len(c.puzzles)
}

// At returns the puzzle at index i.
func (c *Catalog) At(i int) Puzzle {
	return c.puzzles[i]
}

// Lookup returns the puzzle with the given id.
func (c *Catalog) Lookup(id string) (Puzzle, int, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Puzzle{}, -1, false
	}
	return c.puzzles[i], i, true
}

// All returns a copy of the ordered puzzle list.
func (c *Catalog) All() []Puzzle {
	out := make([]Puzzle, len(c.puzzles))
	copy(out, c.puzzles)
	return out
}
