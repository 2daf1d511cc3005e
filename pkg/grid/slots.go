package grid

// ComputeSlots identifies every word slot in the grid: maximal horizontal
// and vertical runs of consecutive white cells, numbered the way a printed
// crossword numbers its clues. It overwrites the grid's Slots field and each
// cell's Number field.
//
// Three passes: number assignment, then across slots, then down slots. Runs
// shorter than two cells never become slots; a stray lone white cell is a
// structural defect HasShortRuns reports separately.
func ComputeSlots(g *Grid) {
	g.Slots = nil
	for row := 0; row < g.Size; row++ {
		for col := 0; col < g.Size; col++ {
			g.Cells[row][col].Number = 0
		}
	}

	clueNumber := 1
	numberAt := make(map[[2]int]int)

	for row := 0; row < g.Size; row++ {
		for col := 0; col < g.Size; col++ {
			if g.Cells[row][col].IsBlack {
				continue
			}

			startsAcross := (col == 0 || g.Cells[row][col-1].IsBlack) &&
				col+1 < g.Size && !g.Cells[row][col+1].IsBlack
			startsDown := (row == 0 || g.Cells[row-1][col].IsBlack) &&
				row+1 < g.Size && !g.Cells[row+1][col].IsBlack

			if startsAcross || startsDown {
				numberAt[[2]int{row, col}] = clueNumber
				g.Cells[row][col].Number = clueNumber
				clueNumber++
			}
		}
	}

	id := 0
	for row := 0; row < g.Size; row++ {
		for col := 0; col < g.Size; col++ {
			if g.Cells[row][col].IsBlack {
				continue
			}
			if col != 0 && !g.Cells[row][col-1].IsBlack {
				continue
			}
			cells := collectRun(g, row, col, ACROSS)
			if len(cells) >= 2 {
				id++
				g.Slots = append(g.Slots, &Slot{
					ID:        id,
					Number:    numberAt[[2]int{row, col}],
					Direction: ACROSS,
					StartRow:  row,
					StartCol:  col,
					Length:    len(cells),
					Cells:     cells,
				})
			}
		}
	}

	for col := 0; col < g.Size; col++ {
		for row := 0; row < g.Size; row++ {
			if g.Cells[row][col].IsBlack {
				continue
			}
			if row != 0 && !g.Cells[row-1][col].IsBlack {
				continue
			}
			cells := collectRun(g, row, col, DOWN)
			if len(cells) >= 2 {
				id++
				g.Slots = append(g.Slots, &Slot{
					ID:        id,
					Number:    numberAt[[2]int{row, col}],
					Direction: DOWN,
					StartRow:  row,
					StartCol:  col,
					Length:    len(cells),
					Cells:     cells,
				})
			}
		}
	}
}

func collectRun(g *Grid, row, col int, dir Direction) []*Cell {
	var cells []*Cell
	r, c := row, col
	for r < g.Size && c < g.Size && !g.Cells[r][c].IsBlack {
		cells = append(cells, g.Cells[r][c])
		if dir == ACROSS {
			c++
		} else {
			r++
		}
	}
	return cells
}

// DetectWords returns the subset of the grid's slots that are fully filled
// (no wildcard cells remaining); Slot.Word gives each one's word. This is
// the building block for the orchestrator's final validation gate: a result
// is only returned once every slot DetectWords reports is a real dictionary
// word.
func DetectWords(g *Grid) []*Slot {
	var filled []*Slot
	for _, s := range g.Slots {
		if s.IsFilled() {
			filled = append(filled, s)
		}
	}
	return filled
}
