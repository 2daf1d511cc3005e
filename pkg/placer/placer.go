// Package placer places caller-supplied theme words onto an empty grid
// before the CSP filler runs, scoring candidate slots by how friendly they
// leave the rest of the grid and verifying each candidate against the
// dictionary before committing to it. The simple length-only slot match is
// the first-pass candidate filter here, not a separate code path.
package placer

import (
	"sort"

	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/grid"
	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/validator"
)

// Matcher is the dictionary read surface the placer needs to verify a
// candidate placement keeps every crossing slot completable.
type Matcher = validator.Matcher

// maxCandidateWords is the cap on how many theme words the placer will try
// to seat; the orchestrator's theme-order recovery passes are what give
// the engine breadth beyond this cap, not a deeper search here.
const maxCandidateWords = 12

// maxPositionsPerWord is the cap on how many candidate slots are tried for
// a single theme word before it is deferred.
const maxPositionsPerWord = 5

// relaxedThreshold is the fraction of a placement's crossing slots that
// must stay completable for the verify step to accept it.
const relaxedThreshold = 0.5

var friendlyLetters = map[rune]bool{'A': true, 'E': true, 'I': true, 'O': true, 'S': true, 'T': true, 'R': true, 'N': true, 'L': true}
var rareLetters = map[rune]bool{'Q': true, 'J': true, 'X': true, 'Z': true, 'K': true, 'F': true, 'Y': true, 'W': true, 'V': true}

// Placement records where a theme word landed.
type Placement struct {
	Word   string
	SlotID int
}

// Result is the outcome of placing a batch of theme words onto one grid.
type Result struct {
	Placed   []Placement
	Unplaced []string
}

// Place attempts to seat each of words onto g in friendliness order,
// verifying every candidate position before committing to it. It never
// backtracks across words: once a word is committed (or deferred) the
// placer moves on and never revisits it; breadth across theme orderings
// is the orchestrator's job, not this function's.
func Place(g *grid.Grid, words []string, src Matcher) Result {
	ordered := rankWords(words)
	if len(ordered) > maxCandidateWords {
		ordered = ordered[:maxCandidateWords]
	}

	var result Result
	committedAcross, committedDown := 0, 0
	committed := 0

	for _, word := range ordered {
		slot, ok := placeOne(g, word, committed, committedAcross, committedDown, src)
		if !ok {
			result.Unplaced = append(result.Unplaced, word)
			continue
		}
		result.Placed = append(result.Placed, Placement{Word: word, SlotID: slot.ID})
		committed++
		if slot.Direction == grid.ACROSS {
			committedAcross++
		} else {
			committedDown++
		}
	}

	// Words dropped by the maxCandidateWords cap are reported unplaced too,
	// so callers (and the Orchestrator's recovery pass) can see them.
	if len(ordered) < len(words) {
		seated := make(map[string]bool, len(ordered))
		for _, w := range ordered {
			seated[w] = true
		}
		for _, w := range words {
			if !seated[w] {
				result.Unplaced = append(result.Unplaced, w)
			}
		}
	}
	return result
}

// rankWords sorts words by friendliness score (descending), tie-broken by
// connectivity (shared-letter multiplicity with the rest of the batch,
// descending).
func rankWords(words []string) []string {
	type scored struct {
		word         string
		friendliness int
		connectivity int
	}
	entries := make([]scored, len(words))
	for i, w := range words {
		entries[i] = scored{
			word:         w,
			friendliness: friendliness(w),
			connectivity: connectivity(w, words),
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].friendliness != entries[j].friendliness {
			return entries[i].friendliness > entries[j].friendliness
		}
		return entries[i].connectivity > entries[j].connectivity
	})
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.word
	}
	return out
}

// Friendliness exposes the same per-word score Place uses to rank theme
// words, for the orchestrator's drop-the-least-friendly-word recovery
// pass.
func Friendliness(word string) int {
	return friendliness(word)
}

// friendliness scores a theme word in isolation: base 5 points per letter,
// +10 per letter in the friendly set, -20 per letter in the rare set.
func friendliness(word string) int {
	score := 5 * len(word)
	for _, r := range word {
		if friendlyLetters[r] {
			score += 10
		}
		if rareLetters[r] {
			score -= 20
		}
	}
	return score
}

// connectivity counts, for each letter of word, how many times that letter
// appears across the rest of the batch, a tiebreaker favoring words that
// are likely to cross several others.
func connectivity(word string, batch []string) int {
	count := 0
	for _, r := range word {
		for _, other := range batch {
			if other == word {
				continue
			}
			for _, or := range other {
				if or == r {
					count++
				}
			}
		}
	}
	return count
}

// placeOne ranks every slot of word's length, tries up to
// maxPositionsPerWord of them in rank order, and commits the first one that
// survives verification.
func placeOne(g *grid.Grid, word string, committed, committedAcross, committedDown int, src Matcher) (*grid.Slot, bool) {
	candidates := candidateSlots(g, word)
	if len(candidates) == 0 {
		return nil, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return positionScore(g, candidates[i], committed, committedAcross, committedDown) >
			positionScore(g, candidates[j], committed, committedAcross, committedDown)
	})
	if len(candidates) > maxPositionsPerWord {
		candidates = candidates[:maxPositionsPerWord]
	}

	for _, slot := range candidates {
		if tryCommit(g, slot, word, committed, src) {
			return slot, true
		}
	}
	return nil, false
}

// candidateSlots returns every slot of the right length that is either
// completely empty or already consistent with word (so two theme words
// can legally cross each other).
func candidateSlots(g *grid.Grid, word string) []*grid.Slot {
	var out []*grid.Slot
	for _, s := range g.Slots {
		if s.Length != len(word) {
			continue
		}
		if slotAccepts(s, word) {
			out = append(out, s)
		}
	}
	return out
}

func slotAccepts(s *grid.Slot, word string) bool {
	for i, c := range s.Cells {
		if c.IsBlack {
			return false
		}
		if c.Letter != 0 && c.Letter != rune(word[i]) {
			return false
		}
	}
	return true
}

// positionScore ranks a candidate slot for the committed-th theme word
// about to be placed (0-indexed: 0 means this is the first word placed so
// far). The first committed word is ranked purely by closeness to the
// grid's center; every word after that is ranked by how much it reinforces
// already-committed letters, how central it is, and whether its direction
// is currently under-represented.
func positionScore(g *grid.Grid, s *grid.Slot, committed, committedAcross, committedDown int) int {
	center := float64(g.Size-1) / 2

	if committed == 0 {
		midRow, midCol := midpoint(s)
		dist := absFloat(midRow-center) + absFloat(midCol-center)
		return int(1000 - dist*10)
	}

	score := 0
	for _, c := range s.Cells {
		if c.Letter != 0 {
			score += 100
		}
	}

	coversCenter := false
	onCenterLine := true
	for _, c := range s.Cells {
		if c.Row == int(center) && c.Col == int(center) {
			coversCenter = true
		}
	}
	if s.Direction == grid.ACROSS {
		onCenterLine = s.StartRow == int(center)
	} else {
		onCenterLine = s.StartCol == int(center)
	}
	if coversCenter {
		score += 50
	}
	if onCenterLine {
		score += 30
	}

	midRow, midCol := midpoint(s)
	dist := absFloat(midRow-center) + absFloat(midCol-center)
	score += int(10 * (center - dist))

	if s.Direction == grid.ACROSS && committedAcross <= committedDown {
		score += 50
	}
	if s.Direction == grid.DOWN && committedDown <= committedAcross {
		score += 50
	}

	return score
}

func midpoint(s *grid.Slot) (float64, float64) {
	var sumRow, sumCol float64
	for _, c := range s.Cells {
		sumRow += float64(c.Row)
		sumCol += float64(c.Col)
	}
	n := float64(len(s.Cells))
	return sumRow / n, sumCol / n
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// tryCommit writes word into s, verifies the placement survives relaxed
// arc consistency and (from the 3rd committed word onward) a whole-grid
// completability predicate, and rolls back on failure. committed is the
// number of theme words already committed before this one (0-indexed).
func tryCommit(g *grid.Grid, s *grid.Slot, word string, committed int, src Matcher) bool {
	type saved struct {
		letter rune
		source grid.Source
	}
	prior := make([]saved, len(s.Cells))
	for i, c := range s.Cells {
		prior[i] = saved{c.Letter, c.Source}
		c.Letter = rune(word[i])
		c.Source = grid.SourceTheme
	}

	ok, _ := validator.CheckRelaxed(g, s, word, src, relaxedThreshold)
	if ok && committed >= 2 {
		ok = isCompletable(g, committed, src)
	}

	if !ok {
		for i, c := range s.Cells {
			c.Letter = prior[i].letter
			c.Source = prior[i].source
		}
		return false
	}
	return true
}

// isCompletable scans every not-fully-filled slot with at least one fixed
// letter. A slot with 2+ fixed letters and zero dictionary candidates fails
// the placement outright; otherwise a threshold fraction of constrained
// slots (60% for the 3rd/4th committed word, 80% from the 5th onward) must
// still have at least one candidate.
func isCompletable(g *grid.Grid, committed int, src Matcher) bool {
	threshold := 0.6
	if committed+1 >= 5 {
		threshold = 0.8
	}

	constrained, satisfied := 0, 0
	for _, s := range g.Slots {
		if s.IsFilled() {
			continue
		}
		pattern := s.Pattern()
		fixed := 0
		for _, ch := range pattern {
			if ch != '.' {
				fixed++
			}
		}
		if fixed == 0 {
			continue
		}
		hasCandidate := src.ContainsAny(pattern)
		if fixed >= 2 && !hasCandidate {
			return false
		}
		constrained++
		if hasCandidate {
			satisfied++
		}
	}
	if constrained == 0 {
		return true
	}
	return float64(satisfied)/float64(constrained) >= threshold
}
