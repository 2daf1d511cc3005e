// Package repair breaks an unfillable grid by inserting a symmetric pair of
// black squares into one of its stuck slots and retrying the fill, instead
// of giving up outright. Black squares are always placed as a mirrored
// pair, never singly, and a candidate is accepted only if the grid stays
// connected afterward.
package repair

import (
	"context"
	"errors"

	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/filler"
	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/grid"
	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/validator"
)

// ErrNoRepairFound is returned when every candidate fix was rejected
// (disconnects the grid, produces a short run, or touches a non-empty
// cell) or MaxIterations was reached without a fill succeeding.
var ErrNoRepairFound = errors.New("repair: no black-square fix could unstick the grid")

// Config tunes the repair loop.
type Config struct {
	MaxIterations int // default 4
}

// Run retries filler.Fill, and on each failure blackens one cell (and its
// rotational mirror) before retrying, up to MaxIterations times: the first
// acceptable bound-end, bound-start or mid-split candidate of the
// worst-first slots from problemSlots. It never blackens a cell with Source != SourceNone,
// so a theme placement or a prior fill is never silently destroyed.
func Run(ctx context.Context, g *grid.Grid, src filler.Source, fillCfg filler.Config, cfg Config) error {
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = 4
	}

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		select {
		case <-ctx.Done():
			return ErrNoRepairFound
		default:
		}

		attempt := g.Clone()
		err := filler.Fill(ctx, attempt, src, fillCfg)
		if err == nil {
			copyInto(g, attempt)
			return nil
		}

		stuck := problemSlots(g, src)
		if len(stuck) == 0 {
			return ErrNoRepairFound
		}

		if !tryBlackenAny(g, stuck) {
			return ErrNoRepairFound
		}
	}

	return ErrNoRepairFound
}

// problemSlots returns every unfilled slot, ordered worst (fewest
// dictionary candidates for its current pattern) first, so slots with zero
// candidates come first and the loop tries to unstick the most constrained
// slot first.
func problemSlots(g *grid.Grid, src filler.Source) []*grid.Slot {
	type scored struct {
		slot  *grid.Slot
		count int
	}
	var scoredSlots []scored
	for _, s := range g.Slots {
		if s.IsFilled() {
			continue
		}
		scoredSlots = append(scoredSlots, scored{s, len(src.Matches(s.Pattern()))})
	}
	if len(scoredSlots) == 0 {
		return nil
	}

	// Sort ascending by candidate count (problem slots come first); a slot
	// with a healthy domain is still listed as a fallback repair target in
	// case the truly empty slots can't be fixed without disconnecting the
	// grid.
	for i := 1; i < len(scoredSlots); i++ {
		for j := i; j > 0 && scoredSlots[j].count < scoredSlots[j-1].count; j-- {
			scoredSlots[j], scoredSlots[j-1] = scoredSlots[j-1], scoredSlots[j]
		}
	}

	out := make([]*grid.Slot, len(scoredSlots))
	for i, s := range scoredSlots {
		out[i] = s.slot
	}
	return out
}

// tryBlackenAny walks candidate slots worst-first and, for each, tries its
// scored black-fix candidates highest-priority first (bound end/start
// before mid-split), accepting the first one that keeps the grid connected
// and free of short runs without touching a non-empty cell.
func tryBlackenAny(g *grid.Grid, slots []*grid.Slot) bool {
	for _, slot := range slots {
		candidates := validator.CandidateBlackFixes(g, slot)
		sortByPriorityDesc(candidates)
		for _, cand := range candidates {
			if tryBlacken(g, cand) {
				return true
			}
		}
	}
	return false
}

func sortByPriorityDesc(candidates []validator.BlackFixCandidate) {
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].Priority > candidates[j-1].Priority; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}
}

// tryBlacken attempts to blacken cand's primary cell and its rotational
// mirror, accepting the change only if both target cells are still empty,
// the grid stays connected, and no run shorter than MinWordLength results.
// On acceptance it recomputes g's slots in place; on rejection g is left
// unchanged and false is returned.
func tryBlacken(g *grid.Grid, cand validator.BlackFixCandidate) bool {
	pCell := g.CellAt(cand.Primary.Row, cand.Primary.Col)
	mCell := g.CellAt(cand.Mirror.Row, cand.Mirror.Col)
	if pCell == nil || mCell == nil {
		return false
	}
	if pCell.Source != grid.SourceNone || mCell.Source != grid.SourceNone {
		return false
	}
	if pCell.Letter != 0 || mCell.Letter != 0 {
		return false
	}

	pCell.IsBlack = true
	mCell.IsBlack = true

	if !grid.IsConnected(g) || grid.HasShortRuns(g) {
		pCell.IsBlack = false
		mCell.IsBlack = false
		return false
	}

	grid.ComputeSlots(g)
	return true
}

func copyInto(dst, src *grid.Grid) {
	for row := 0; row < dst.Size; row++ {
		for col := 0; col < dst.Size; col++ {
			d := dst.Cells[row][col]
			s := src.Cells[row][col]
			d.IsBlack = s.IsBlack
			d.Letter = s.Letter
			d.Source = s.Source
		}
	}
	grid.ComputeSlots(dst)
}
