package filler

import (
	"context"
	"testing"

	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/dictionary"
	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/grid"
)

func newTestGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g := grid.NewEmptyGrid(grid.GridConfig{Size: 5})
	grid.ComputeSlots(g)
	return g
}

func TestFill_CompletesAnOpenGrid(t *testing.T) {
	idx, err := dictionary.New()
	if err != nil {
		t.Fatalf("dictionary.New() error: %v", err)
	}
	g := newTestGrid(t)

	if err := Fill(context.Background(), g, idx, Config{}); err != nil {
		t.Fatalf("Fill() error: %v", err)
	}

	for _, s := range g.Slots {
		if !s.IsFilled() {
			t.Errorf("slot %d not filled after Fill", s.ID)
		}
	}
}

func TestFill_NoDuplicateWordsAcrossSlots(t *testing.T) {
	idx, err := dictionary.New()
	if err != nil {
		t.Fatalf("dictionary.New() error: %v", err)
	}
	g := newTestGrid(t)

	if err := Fill(context.Background(), g, idx, Config{}); err != nil {
		t.Fatalf("Fill() error: %v", err)
	}

	seen := make(map[string]bool)
	for _, s := range g.Slots {
		word := s.Word()
		if seen[word] {
			t.Errorf("word %q used in more than one slot", word)
		}
		seen[word] = true
	}
}

func TestFill_RespectsAlreadyPlacedThemeLetters(t *testing.T) {
	idx, err := dictionary.New()
	if err != nil {
		t.Fatalf("dictionary.New() error: %v", err)
	}
	g := newTestGrid(t)

	themeSlot := g.Slots[0]
	for i, c := range themeSlot.Cells {
		c.Letter = rune("ADAMS"[i])
		c.Source = grid.SourceTheme
	}

	if err := Fill(context.Background(), g, idx, Config{}); err != nil {
		t.Fatalf("Fill() error: %v", err)
	}

	if themeSlot.Word() != "ADAMS" {
		t.Errorf("theme slot changed to %q, want ADAMS preserved", themeSlot.Word())
	}
}

func TestFill_DeadlineExceeded(t *testing.T) {
	idx, err := dictionary.New()
	if err != nil {
		t.Fatalf("dictionary.New() error: %v", err)
	}
	g := newTestGrid(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = Fill(ctx, g, idx, Config{})
	if err == nil {
		t.Fatal("Fill() error = nil, want a deadline/no-fill error with a cancelled context")
	}
}
