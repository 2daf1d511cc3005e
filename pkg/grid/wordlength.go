package grid

import "errors"

// ErrShortWords is returned when a grid contains a run of white cells
// shorter than MinWordLength.
var ErrShortWords = errors.New("grid contains a white-cell run shorter than the minimum allowed length")

// MinWordLength is the minimum allowed slot length. Two-cell runs are legal
// words on a grid this small, so the only defect below the threshold is a
// stray isolated white cell (a run of length 1), which can never be a slot
// at all and always indicates a broken black-square layout.
const MinWordLength = 2

// HasShortRuns scans every row and column for a run of white cells whose
// length is below MinWordLength (i.e. exactly 1), which ComputeSlots would
// silently skip rather than turn into a slot.
func HasShortRuns(g *Grid) bool {
	if g == nil || g.Size == 0 {
		return false
	}

	for row := 0; row < g.Size; row++ {
		run := 0
		for col := 0; col < g.Size; col++ {
			if g.Cells[row][col].IsBlack {
				if run > 0 && run < MinWordLength {
					return true
				}
				run = 0
			} else {
				run++
			}
		}
		if run > 0 && run < MinWordLength {
			return true
		}
	}

	for col := 0; col < g.Size; col++ {
		run := 0
		for row := 0; row < g.Size; row++ {
			if g.Cells[row][col].IsBlack {
				if run > 0 && run < MinWordLength {
					return true
				}
				run = 0
			} else {
				run++
			}
		}
		if run > 0 && run < MinWordLength {
			return true
		}
	}

	return false
}
