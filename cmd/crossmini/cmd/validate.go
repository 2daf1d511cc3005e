package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/engine"
	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/grid"
)

var validateInput string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a generated puzzle file against structural invariants",
	Long: `Validate re-checks a puzzle file written by "crossmini generate" (or any
file holding the same JSON shape) against every universal invariant:
180-degree rotational symmetry, full connectivity of white cells, no run
shorter than the minimum word length, and every slot filled.

Examples:
  crossmini validate --input puzzle.json`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "puzzle JSON file to validate (required)")
	validateCmd.MarkFlagRequired("input")
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(validateInput)
	if err != nil {
		return fmt.Errorf("reading %s: %w", validateInput, err)
	}

	var doc struct {
		Grid [][]engine.Cell `json:"grid"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing %s: %w", validateInput, err)
	}
	if len(doc.Grid) == 0 {
		return fmt.Errorf("%s: empty grid", filepath.Base(validateInput))
	}

	g := gridFromCells(doc.Grid)
	grid.ComputeSlots(g)

	if err := engine.Validate(g); err != nil {
		fmt.Printf("%s: INVALID - %v\n", filepath.Base(validateInput), err)
		os.Exit(1)
	}

	fmt.Printf("%s: VALID\n", filepath.Base(validateInput))
	return nil
}

// gridFromCells rebuilds a grid.Grid from the JSON-decoded cell matrix a
// generate run produced.
func gridFromCells(cells [][]engine.Cell) *grid.Grid {
	size := len(cells)
	g := grid.NewEmptyGrid(grid.GridConfig{Size: size})

	for row := 0; row < size && row < g.Size; row++ {
		for col := 0; col < len(cells[row]) && col < g.Size; col++ {
			c := cells[row][col]
			g.Cells[row][col].IsBlack = c.Black
			if !c.Black && c.Letter != "" {
				g.Cells[row][col].Letter = rune(c.Letter[0])
			}
		}
	}
	return g
}
