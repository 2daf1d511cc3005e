// Package filler implements the CSP solver that completes a grid's
// remaining empty slots: AC-3 arc-consistency pruning, then backtracking
// search ordered by minimum-remaining-values with forward checking and a
// thematic-weight value ordering. A used-word set threaded through the
// search keeps any answer from appearing twice in the same puzzle.
package filler

import (
	"context"
	"errors"
	"math/rand"
	"sort"

	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/dictionary"
	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/grid"
	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/validator"
)

// ErrNoValidFill is returned when no assignment of the remaining empty
// slots satisfies every crossing constraint.
var ErrNoValidFill = errors.New("filler: no valid fill exists for the remaining slots")

// ErrDeadlineExceeded is returned when ctx is done before the search
// finishes.
var ErrDeadlineExceeded = errors.New("filler: deadline exceeded during fill")

// Source is the dictionary read surface the filler needs.
type Source interface {
	Matches(pattern string) []dictionary.Word
}

// DefaultBias is the thematic-bias value Config.Bias falls back to.
const DefaultBias = 0.5

// Config tunes the search.
type Config struct {
	// Rng drives variable-selection tie-breaks. A nil Rng defaults to a
	// fixed seed so the same grid+dictionary always fills identically.
	Rng *rand.Rand
	// Bias in [0,1] skews value ordering toward thematic candidates. Zero
	// means "use DefaultBias"; pass NoBias explicitly to disable it outright
	// (used by Fill's own unbiased fallback pass).
	Bias float64
}

// NoBias disables thematic skew. Distinguishing it from the Config
// zero-value (which means "use the default") lets Fill's internal
// unbiased fallback pass genuinely run without bias instead of silently
// re-requesting the default.
const NoBias = -1

type domain struct {
	slot   *grid.Slot
	values []dictionary.Word // candidate words, value-ordered
}

// Fill completes every currently-unfilled slot in g using words from src,
// respecting already-placed letters (including theme placements) and never
// reusing a word already committed elsewhere in the grid. It mutates g in
// place on success; on failure no letters are written and g is left as it
// was.
//
// A thematically-biased pass runs first; if it fails to complete the
// grid, an unbiased fallback pass runs before Fill reports failure.
func Fill(ctx context.Context, g *grid.Grid, src Source, cfg Config) error {
	biased := cfg
	if biased.Bias == 0 {
		biased.Bias = DefaultBias
	}
	if err := fillOnce(ctx, g, src, biased); err == nil {
		return nil
	} else if errors.Is(err, ErrDeadlineExceeded) {
		return err
	}

	unbiased := cfg
	unbiased.Bias = NoBias
	return fillOnce(ctx, g, src, unbiased)
}

func fillOnce(ctx context.Context, g *grid.Grid, src Source, cfg Config) error {
	if cfg.Rng == nil {
		cfg.Rng = rand.New(rand.NewSource(1))
	}

	used := usedWords(g)
	domains, err := buildDomains(g, src, used, cfg.Bias)
	if err != nil {
		return err
	}

	crossings := validator.BuildCrossings(g)
	if !arcConsistency(ctx, domains, crossings) {
		if ctx.Err() != nil {
			return ErrDeadlineExceeded
		}
		return ErrNoValidFill
	}

	assignment, err := backtrack(ctx, domains, crossings, used, cfg.Rng)
	if err != nil {
		return err
	}

	for slotID, word := range assignment {
		s := slotByID(g, slotID)
		for i, c := range s.Cells {
			c.Letter = rune(word[i])
			c.Source = grid.SourceAuto
		}
	}
	return nil
}

func usedWords(g *grid.Grid) map[string]bool {
	used := make(map[string]bool)
	for _, s := range g.Slots {
		if s.IsFilled() {
			used[s.Word()] = true
		}
	}
	return used
}

func buildDomains(g *grid.Grid, src Source, used map[string]bool, bias float64) (map[int]*domain, error) {
	domains := make(map[int]*domain, len(g.Slots))
	for _, s := range g.Slots {
		if s.IsFilled() {
			continue
		}
		var values []dictionary.Word
		for _, w := range src.Matches(s.Pattern()) {
			if used[w.Text] {
				continue
			}
			values = append(values, w)
		}
		if len(values) == 0 {
			return nil, ErrNoValidFill
		}
		domains[s.ID] = &domain{slot: s, values: applyBias(values, bias)}
	}
	return domains, nil
}

// applyBias reorders values toward thematic classes proportional to bias.
// bias == NoBias leaves src's weight-descending order untouched, keeping
// the deterministic secondary ordering the index provides.
// Otherwise each candidate's score is its raw weight plus a large thematic
// bonus scaled by bias, so bias near 1 makes any thematic word outrank any
// non-thematic one regardless of raw weight, and bias near 0 barely
// perturbs the original order.
func applyBias(values []dictionary.Word, bias float64) []dictionary.Word {
	if bias == NoBias || bias <= 0 {
		return values
	}
	out := make([]dictionary.Word, len(values))
	copy(out, values)
	sort.SliceStable(out, func(i, j int) bool {
		return biasScore(out[i], bias) > biasScore(out[j], bias)
	})
	return out
}

func biasScore(w dictionary.Word, bias float64) float64 {
	score := float64(w.Weight)
	if w.Class == dictionary.ThematicPrimary || w.Class == dictionary.ThematicFiller {
		score += bias * 1000
	}
	return score
}

func slotByID(g *grid.Grid, id int) *grid.Slot {
	for _, s := range g.Slots {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// arcConsistency runs the classic AC-3 queue-based revise loop over every
// directed crossing arc until the queue drains or a domain empties.
// Deadline-checked at each drain iteration; cancellation is cooperative.
func arcConsistency(ctx context.Context, domains map[int]*domain, crossings []validator.Crossing) bool {
	queue := append([]validator.Crossing(nil), crossings...)

	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			return false
		default:
		}

		cr := queue[0]
		queue = queue[1:]

		d, ok := domains[cr.SlotID]
		if !ok {
			continue // already filled (theme word), nothing to prune
		}
		other, ok := domains[cr.OtherSlotID]
		if !ok {
			continue
		}

		if revise(d, other, cr.Index, cr.OtherIndex) {
			if len(d.values) == 0 {
				return false
			}
			for _, s := range crossingsInvolving(crossings, cr.SlotID) {
				if s.OtherSlotID != cr.OtherSlotID {
					queue = append(queue, s)
				}
			}
		}
	}
	return true
}

func crossingsInvolving(crossings []validator.Crossing, slotID int) []validator.Crossing {
	var out []validator.Crossing
	for _, c := range crossings {
		if c.OtherSlotID == slotID {
			out = append(out, c)
		}
	}
	return out
}

// revise removes every value from d whose letter at dIndex has no
// supporting value in other at otherIndex, reporting whether it changed d.
func revise(d, other *domain, dIndex, otherIndex int) bool {
	changed := false
	kept := d.values[:0:0]
	for _, v := range d.values {
		supported := false
		for _, ov := range other.values {
			if v.Text[dIndex] == ov.Text[otherIndex] {
				supported = true
				break
			}
		}
		if supported {
			kept = append(kept, v)
		} else {
			changed = true
		}
	}
	d.values = kept
	return changed
}

// backtrack performs MRV-ordered backtracking search with forward checking.
// Domains and assignment are copied before each recursive branch so a
// failed branch leaves the caller's state untouched.
func backtrack(ctx context.Context, domains map[int]*domain, crossings []validator.Crossing, used map[string]bool, rng *rand.Rand) (map[int]string, error) {
	select {
	case <-ctx.Done():
		return nil, ErrDeadlineExceeded
	default:
	}

	slotID, ok := selectUnassigned(domains, crossings, rng)
	if !ok {
		return map[int]string{}, nil // every slot assigned
	}

	// d.values is already value-ordered (thematic-weight descending, or
	// bias-adjusted); trying candidates in that order is what gives the
	// filler its thematic bias.
	d := domains[slotID]
	for _, w := range d.values {
		word := w.Text
		if used[word] {
			continue
		}

		snapshot := cloneDomains(domains)
		used[word] = true
		delete(snapshot, slotID)

		if forwardCheck(snapshot, crossings, slotID, word) {
			result, err := backtrack(ctx, snapshot, crossings, used, rng)
			if err == nil {
				result[slotID] = word
				return result, nil
			}
			if errors.Is(err, ErrDeadlineExceeded) {
				used[word] = false
				return nil, err
			}
		}
		used[word] = false
	}

	return nil, ErrNoValidFill
}

// selectUnassigned picks the unfilled slot with the fewest remaining
// candidates (minimum-remaining-values), tie-broken by highest degree (most
// unfilled neighboring slots still in play), and finally by rng so that
// repeated fills of the same grid with the same seed pick the same slot
// order.
func selectUnassigned(domains map[int]*domain, crossings []validator.Crossing, rng *rand.Rand) (int, bool) {
	var tied []int
	bestSize := -1
	for id, d := range domains {
		switch {
		case bestSize == -1 || len(d.values) < bestSize:
			tied = []int{id}
			bestSize = len(d.values)
		case len(d.values) == bestSize:
			tied = append(tied, id)
		}
	}
	if len(tied) == 0 {
		return 0, false
	}
	if len(tied) == 1 {
		return tied[0], true
	}

	bestDegree := -1
	var byDegree []int
	for _, id := range tied {
		deg := degree(domains, crossings, id)
		switch {
		case deg > bestDegree:
			byDegree = []int{id}
			bestDegree = deg
		case deg == bestDegree:
			byDegree = append(byDegree, id)
		}
	}

	sort.Ints(byDegree)
	return byDegree[rng.Intn(len(byDegree))], true
}

// degree counts how many of slotID's crossing slots are still unfilled
// (present in domains).
func degree(domains map[int]*domain, crossings []validator.Crossing, slotID int) int {
	seen := make(map[int]bool)
	for _, cr := range crossings {
		if cr.SlotID != slotID {
			continue
		}
		if _, unfilled := domains[cr.OtherSlotID]; unfilled {
			seen[cr.OtherSlotID] = true
		}
	}
	return len(seen)
}

func cloneDomains(domains map[int]*domain) map[int]*domain {
	out := make(map[int]*domain, len(domains))
	for id, d := range domains {
		values := make([]dictionary.Word, len(d.values))
		copy(values, d.values)
		out[id] = &domain{slot: d.slot, values: values}
	}
	return out
}

// forwardCheck prunes every domain crossing the just-assigned slot at the
// shared cell, failing (returning false) if any domain empties.
func forwardCheck(domains map[int]*domain, crossings []validator.Crossing, assignedSlotID int, word string) bool {
	for _, cr := range crossings {
		if cr.SlotID != assignedSlotID {
			continue
		}
		d, ok := domains[cr.OtherSlotID]
		if !ok {
			continue
		}
		letter := word[cr.Index]
		kept := d.values[:0:0]
		for _, v := range d.values {
			if v.Text[cr.OtherIndex] == letter {
				kept = append(kept, v)
			}
		}
		if len(kept) == 0 {
			return false
		}
		d.values = kept
	}
	return true
}
