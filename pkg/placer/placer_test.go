package placer

import (
	"testing"

	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/dictionary"
	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/grid"
)

// newTestGrid applies the single-corner black pattern rather than leaving
// the grid fully open: an open 5x5 grid has only length-5 slots, so a
// theme word shorter than 5 letters (as most of these tests use) could
// never be seated at all. single-corner carves out four length-4 slots
// alongside the full-length ones.
func newTestGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g := grid.NewEmptyGrid(grid.GridConfig{Size: 5})
	p, ok := grid.PatternByName("single-corner")
	if !ok {
		t.Fatal("single-corner pattern not found")
	}
	grid.ApplyPattern(g, p)
	grid.ComputeSlots(g)
	return g
}

func TestPlace_PlacesAFittingThemeWord(t *testing.T) {
	idx, err := dictionary.New()
	if err != nil {
		t.Fatalf("dictionary.New() error: %v", err)
	}
	g := newTestGrid(t)

	result := Place(g, []string{"ADAM"}, idx)
	if len(result.Placed) != 1 {
		t.Fatalf("Placed = %v, want one placement", result.Placed)
	}
	if len(result.Unplaced) != 0 {
		t.Fatalf("Unplaced = %v, want none", result.Unplaced)
	}
}

func TestPlace_ReportsOverlongWordAsUnplaced(t *testing.T) {
	idx, err := dictionary.New()
	if err != nil {
		t.Fatalf("dictionary.New() error: %v", err)
	}
	g := newTestGrid(t)

	// No slot in a 5x5 grid is ever longer than 5 cells.
	result := Place(g, []string{"MUHAMMAD"}, idx)
	if len(result.Placed) != 0 {
		t.Fatalf("Placed = %v, want none", result.Placed)
	}
	if len(result.Unplaced) != 1 || result.Unplaced[0] != "MUHAMMAD" {
		t.Fatalf("Unplaced = %v, want [MUHAMMAD]", result.Unplaced)
	}
}

func TestPlace_FriendliestWordFirst(t *testing.T) {
	idx, err := dictionary.New()
	if err != nil {
		t.Fatalf("dictionary.New() error: %v", err)
	}
	g := newTestGrid(t)

	// Friendliness: ADAM = 5*4 + 10*2 (A, A) = 40; ARK = 5*3 + 10*2 (A, R)
	// - 20 (K) = 15, so ADAM is tried first.
	result := Place(g, []string{"ARK", "ADAM"}, idx)
	if len(result.Placed) == 0 {
		t.Fatal("expected at least one placement")
	}
	if result.Placed[0].Word != "ADAM" {
		t.Errorf("first placement = %q, want ADAM placed before the less friendly ARK", result.Placed[0].Word)
	}
}
