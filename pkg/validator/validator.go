// Package validator checks whether placing a word in a slot keeps every
// slot it crosses completable, and proposes a black-square fix when it
// doesn't. Unlike full arc-consistency preprocessing, these checks run on
// demand over a single placement's crossings, which is what the theme-word
// placer needs before it commits a word.
package validator

import "github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/grid"

// Matcher is the read surface the validator needs from a dictionary: the
// set of bundled/boosted words of pattern's length matching its fixed
// letters, and a cheaper existence-only probe of the same match set.
// pkg/dictionary.Index and pkg/dictionary.Overlay both satisfy it.
type Matcher interface {
	Words(pattern string) []string
	ContainsAny(pattern string) bool
}

// Crossing describes one slot that shares a cell with another.
type Crossing struct {
	SlotID      int
	Index       int // position within SlotID's own cells
	OtherSlotID int
	OtherIndex  int // position within OtherSlotID's cells
}

// BuildCrossings finds every pair of slots that share a cell. A shared cell
// is recognized by pointer identity, since grid.ComputeSlots builds every
// slot's Cells from the same underlying grid.Cell objects.
func BuildCrossings(g *grid.Grid) []Crossing {
	type occurrence struct {
		slotID, index int
	}
	bySlotsCell := make(map[*grid.Cell][]occurrence)

	for _, s := range g.Slots {
		for i, c := range s.Cells {
			bySlotsCell[c] = append(bySlotsCell[c], occurrence{s.ID, i})
		}
	}

	var crossings []Crossing
	for _, occs := range bySlotsCell {
		if len(occs) != 2 {
			continue
		}
		a, b := occs[0], occs[1]
		crossings = append(crossings,
			Crossing{SlotID: a.slotID, Index: a.index, OtherSlotID: b.slotID, OtherIndex: b.index},
			Crossing{SlotID: b.slotID, Index: b.index, OtherSlotID: a.slotID, OtherIndex: a.index},
		)
	}
	return crossings
}

// Conflict names a slot that placement would leave with no completable
// word.
type Conflict struct {
	SlotID  int
	Pattern string
}

// CheckPlacement reports whether writing word into slot, leaving every
// other slot as it currently stands, keeps every slot crossing it
// completable against src: each crossing slot's resulting pattern (with the
// shared letter fixed) must still match at least one word in src. On
// failure it returns every slot that would become stuck, for the caller
// (placer or repair loop) to act on.
func CheckPlacement(g *grid.Grid, slot *grid.Slot, word string, src Matcher) (bool, []Conflict) {
	crossings := BuildCrossings(g)

	var conflicts []Conflict
	ok := true
	for _, cr := range crossings {
		if cr.SlotID != slot.ID {
			continue
		}
		other := findSlot(g, cr.OtherSlotID)
		if other == nil {
			continue
		}

		pattern := patternWithOverride(other, cr.OtherIndex, rune(word[cr.Index]))
		if !src.ContainsAny(pattern) {
			ok = false
			conflicts = append(conflicts, Conflict{SlotID: other.ID, Pattern: pattern})
		}
	}
	return ok, conflicts
}

func patternWithOverride(s *grid.Slot, index int, letter rune) string {
	buf := []byte(s.Pattern())
	buf[index] = byte(letter)
	return string(buf)
}

func findSlot(g *grid.Grid, id int) *grid.Slot {
	for _, s := range g.Slots {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// DefaultRelaxedThreshold is the fraction of crossing slots that must stay
// completable for CheckRelaxed to accept a placement when no threshold is
// supplied.
const DefaultRelaxedThreshold = 0.5

// CheckStrict is strict arc consistency for one placement: every crossing
// slot must have at least one completing candidate.
func CheckStrict(g *grid.Grid, slot *grid.Slot, word string, src Matcher) (bool, []Conflict) {
	return CheckPlacement(g, slot, word, src)
}

// CheckRelaxed allows a placement through even when some crossings are
// stuck, as long as at least threshold (0 meaning DefaultRelaxedThreshold)
// of them remain completable. A crossing of length 2 is never counted
// against the placement: the repair loop can still split it later by
// blackening either of its two cells, so it is excluded from both the
// numerator and denominator.
func CheckRelaxed(g *grid.Grid, slot *grid.Slot, word string, src Matcher, threshold float64) (bool, []Conflict) {
	if threshold <= 0 {
		threshold = DefaultRelaxedThreshold
	}
	crossings := BuildCrossings(g)

	var conflicts []Conflict
	total, ok := 0, 0
	for _, cr := range crossings {
		if cr.SlotID != slot.ID {
			continue
		}
		other := findSlot(g, cr.OtherSlotID)
		if other == nil {
			continue
		}
		if other.Length == 2 {
			continue
		}
		total++

		pattern := patternWithOverride(other, cr.OtherIndex, rune(word[cr.Index]))
		if src.ContainsAny(pattern) {
			ok++
		} else {
			conflicts = append(conflicts, Conflict{SlotID: other.ID, Pattern: pattern})
		}
	}
	if total == 0 {
		return true, nil
	}
	return float64(ok)/float64(total) >= threshold, conflicts
}

// Detail is the per-slot outcome ValidatePlacement reports, for surfacing a
// user-facing explanation of why a placement would or wouldn't work.
type Detail struct {
	SlotID     int
	Pattern    string
	Candidates int
}

// ValidatePlacement reports, for every slot placement's write would cross,
// the resulting pattern and how many dictionary candidates it admits.
func ValidatePlacement(g *grid.Grid, slot *grid.Slot, word string, src Matcher) []Detail {
	crossings := BuildCrossings(g)

	var details []Detail
	for _, cr := range crossings {
		if cr.SlotID != slot.ID {
			continue
		}
		other := findSlot(g, cr.OtherSlotID)
		if other == nil {
			continue
		}
		pattern := patternWithOverride(other, cr.OtherIndex, rune(word[cr.Index]))
		details = append(details, Detail{
			SlotID:     other.ID,
			Pattern:    pattern,
			Candidates: len(src.Words(pattern)),
		})
	}
	return details
}

// SuggestBlackFix proposes the rotationally-symmetric pair of cells that,
// if blackened, would shorten or remove the stuck slot a Conflict names,
// breaking it into a shorter, separately-fillable slot (or removing it
// entirely if it would become a length-1 run). It suggests the slot's last
// cell, which costs the fewest crossing slots; the repair loop runs the
// connectivity and run-length checks before accepting the change.
func SuggestBlackFix(g *grid.Grid, c Conflict) (grid.Pos, grid.Pos, bool) {
	s := findSlot(g, c.SlotID)
	if s == nil || s.Length <= grid.MinWordLength {
		return grid.Pos{}, grid.Pos{}, false
	}

	last := s.Cells[len(s.Cells)-1]
	primary := grid.Pos{Row: last.Row, Col: last.Col}
	mr, mc := grid.MirrorOf(g.Size, primary.Row, primary.Col)
	mirror := grid.Pos{Row: mr, Col: mc}
	return primary, mirror, true
}

// BlackFixCandidate is one scored repair option: blackening Primary (and its
// rotational Mirror) would split or shorten the stuck slot it was generated
// from.
type BlackFixCandidate struct {
	Primary, Mirror grid.Pos
	Priority        int // higher tries first
}

// CandidateBlackFixes scores every way of blackening one cell (plus its
// rotational mirror) that could unstick slot, highest priority first:
// bounding the slot's start or end is tried before splitting its middle,
// and splitting the middle is only offered for slots of length >= 4.
func CandidateBlackFixes(g *grid.Grid, slot *grid.Slot) []BlackFixCandidate {
	if slot == nil || slot.Length <= grid.MinWordLength {
		return nil
	}

	mirrorOf := func(p grid.Pos) grid.Pos {
		r, c := grid.MirrorOf(g.Size, p.Row, p.Col)
		return grid.Pos{Row: r, Col: c}
	}
	posOf := func(cell *grid.Cell) grid.Pos {
		return grid.Pos{Row: cell.Row, Col: cell.Col}
	}

	var out []BlackFixCandidate

	end := posOf(slot.Cells[len(slot.Cells)-1])
	out = append(out, BlackFixCandidate{Primary: end, Mirror: mirrorOf(end), Priority: 100})

	start := posOf(slot.Cells[0])
	out = append(out, BlackFixCandidate{Primary: start, Mirror: mirrorOf(start), Priority: 100})

	if slot.Length >= 4 {
		mid := posOf(slot.Cells[slot.Length/2])
		out = append(out, BlackFixCandidate{Primary: mid, Mirror: mirrorOf(mid), Priority: 50})
	}

	return out
}
