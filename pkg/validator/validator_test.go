package validator

import (
	"testing"

	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/grid"
)

// fakeMatcher answers Words with a fixed vocabulary, so tests don't need to
// pull in pkg/dictionary's embedded corpus to exercise crossing logic.
type fakeMatcher struct {
	vocab []string
}

func (f fakeMatcher) Words(pattern string) []string {
	var out []string
	for _, w := range f.vocab {
		if len(w) != len(pattern) {
			continue
		}
		match := true
		for i := 0; i < len(w); i++ {
			if pattern[i] != '.' && pattern[i] != w[i] {
				match = false
				break
			}
		}
		if match {
			out = append(out, w)
		}
	}
	return out
}

func (f fakeMatcher) ContainsAny(pattern string) bool {
	return len(f.Words(pattern)) > 0
}

func newTestGrid() *grid.Grid {
	g := grid.NewEmptyGrid(grid.GridConfig{Size: 5})
	grid.ComputeSlots(g)
	return g
}

func TestBuildCrossings_OpenGridHasTwentyFiveCrossings(t *testing.T) {
	g := newTestGrid()
	crossings := BuildCrossings(g)
	// Every one of the 25 cells belongs to exactly one across and one down
	// slot on an open grid, producing 25 crossings in each direction (50
	// total, since BuildCrossings records both sides of each pair).
	if len(crossings) != 50 {
		t.Errorf("len(crossings) = %d, want 50", len(crossings))
	}
}

func TestCheckPlacement_SucceedsWhenCrossingsStayCompletable(t *testing.T) {
	g := newTestGrid()
	slot := g.Slots[0]
	// One word for each starting letter of ADAMS (A, D, M, S) so every
	// down slot crossing the placement has a completing candidate.
	m := fakeMatcher{vocab: []string{"ADAMS", "ALPHA", "BRAVO", "CHART", "DELTA", "MANGO", "SALSA"}}

	ok, conflicts := CheckPlacement(g, slot, "ADAMS", m)
	if !ok {
		t.Fatalf("CheckPlacement = false, conflicts=%v", conflicts)
	}
}

func TestCheckPlacement_FailsWhenACrossingHasNoMatch(t *testing.T) {
	g := newTestGrid()
	slot := g.Slots[0]
	// An empty vocabulary can never complete any crossing slot.
	m := fakeMatcher{vocab: nil}

	ok, conflicts := CheckPlacement(g, slot, "ADAMS", m)
	if ok {
		t.Fatal("CheckPlacement = true with an empty vocabulary")
	}
	if len(conflicts) == 0 {
		t.Error("expected at least one conflict")
	}
}

func TestCheckRelaxed_RejectsAPlacementWhenTooFewCrossingsSurvive(t *testing.T) {
	g := newTestGrid()
	slot := g.Slots[0]
	// Only the crossings at index 0 and 2 (pattern "A....", matched by
	// ADAMS) can complete; D...., M.... and S.... cannot. With Size=5 the
	// slot has 5 crossings, all length 5 (no length-2 exclusions on an open
	// grid), so 2/5 = 40% fails the 50% default.
	m := fakeMatcher{vocab: []string{"ADAMS"}}

	ok, _ := CheckRelaxed(g, slot, "ADAMS", m, 0)
	if ok {
		t.Fatal("CheckRelaxed = true with only two of five crossings completable")
	}
}

func TestCheckRelaxed_AcceptsWhenThresholdIsLow(t *testing.T) {
	g := newTestGrid()
	slot := g.Slots[0]
	m := fakeMatcher{vocab: []string{"ADAMS"}}

	ok, _ := CheckRelaxed(g, slot, "ADAMS", m, 0.1)
	if !ok {
		t.Fatal("CheckRelaxed = false with a 10% threshold and a real candidate")
	}
}

func TestValidatePlacement_ReportsPerSlotCandidateCounts(t *testing.T) {
	g := newTestGrid()
	slot := g.Slots[0]
	m := fakeMatcher{vocab: []string{"ADAMS", "ALPHA"}}

	details := ValidatePlacement(g, slot, "ADAMS", m)
	if len(details) == 0 {
		t.Fatal("expected at least one crossing detail")
	}
	for _, d := range details {
		if d.Candidates < 0 {
			t.Errorf("slot %d: Candidates = %d, want >= 0", d.SlotID, d.Candidates)
		}
	}
}

func TestSuggestBlackFix_ReturnsSymmetricPair(t *testing.T) {
	g := newTestGrid()
	slot := g.Slots[0]

	primary, mirror, ok := SuggestBlackFix(g, Conflict{SlotID: slot.ID})
	if !ok {
		t.Fatal("SuggestBlackFix reported not-ok for a fixable slot")
	}
	wantRow, wantCol := grid.MirrorOf(g.Size, primary.Row, primary.Col)
	if mirror.Row != wantRow || mirror.Col != wantCol {
		t.Errorf("mirror = %+v, want (%d, %d)", mirror, wantRow, wantCol)
	}
}

func TestCandidateBlackFixes_OrdersEndAndStartAboveMidSplit(t *testing.T) {
	g := newTestGrid()
	slot := g.Slots[0] // length 5 on an open grid

	candidates := CandidateBlackFixes(g, slot)
	if len(candidates) != 3 {
		t.Fatalf("len(candidates) = %d, want 3 (end, start, mid-split) for a length-5 slot", len(candidates))
	}
	for _, c := range candidates[:2] {
		if c.Priority != 100 {
			t.Errorf("candidate %+v priority = %d, want 100 for end/start", c, c.Priority)
		}
	}
	if candidates[2].Priority >= candidates[0].Priority {
		t.Error("mid-split candidate should have lower priority than end/start")
	}
}

func TestCandidateBlackFixes_NoMidSplitBelowLengthFour(t *testing.T) {
	pattern, ok := grid.PatternByName("L")
	if !ok {
		t.Fatal(`pattern "L" not found in catalog`)
	}
	g := grid.NewEmptyGrid(grid.GridConfig{Size: 5})
	grid.ApplyPattern(g, pattern)
	grid.ComputeSlots(g)

	var short *grid.Slot
	for _, s := range g.Slots {
		if s.Length < 4 {
			short = s
			break
		}
	}
	if short == nil {
		t.Skip(`no slot shorter than 4 in the "L" pattern`)
	}
	for _, c := range CandidateBlackFixes(g, short) {
		if c.Priority == 50 {
			t.Error("mid-split candidate offered for a slot shorter than 4")
		}
	}
}
