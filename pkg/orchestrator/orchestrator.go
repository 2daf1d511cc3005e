// Package orchestrator drives the end-to-end synthesis pipeline: run a
// plan-first "smart path" once, then try each black-square pattern in
// turn, placing theme words, filling and repairing the rest, validating
// the result, and keeping the best candidate across multiple attempts,
// falling back to alternative theme orderings, and finally to the best
// partial grid, if nothing fully completes. One request runs on one
// logical thread and tries patterns in a fixed deterministic order.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/dictionary"
	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/filler"
	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/grid"
	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/placer"
	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/repair"
)

// ErrNoThemeWords is returned when the caller supplies an empty theme-word
// list; there is nothing to generate a themed puzzle from.
var ErrNoThemeWords = errors.New("orchestrator: at least one theme word is required")

// DefaultMaxTimeMS is the total time budget for one Run call, split 40/60
// between the smart path and the main pattern loop.
const DefaultMaxTimeMS = 15000

// Config tunes the search across candidates.
type Config struct {
	// MaxCandidates bounds how many successful grids are kept before
	// picking the best one. Defaults to 5.
	MaxCandidates int
	// ExcellentThreshold is the thematic-word fraction (placed/total) at
	// or above which the orchestrator stops early instead of exhausting
	// every pattern in the catalog.
	ExcellentThreshold float64
	// Patterns overrides the catalog of black-square templates to try, in
	// order. Nil means grid.Patterns.
	Patterns []grid.Pattern
	// MaxTimeMS is the total time budget for this request, in
	// milliseconds. Zero means DefaultMaxTimeMS.
	MaxTimeMS int64
	// PreferredPattern, if >= 0, names an index into Patterns to try
	// first, ahead of the catalog's own order.
	PreferredPattern int
	// Bias in [0,1] is threaded to the CSP filler's thematic value
	// ordering. Zero means filler.DefaultBias.
	Bias float64
	// Seed drives the recovery pass's shuffled theme-word ordering and any
	// rng-based tie-breaks, so identical requests (including this seed)
	// reproduce identical results.
	Seed uint64
	// Overlay, when set, is used in place of the default dictionary.New()
	// + dictionary.NewOverlay boost, letting a caller supply its own
	// per-request boosted word index.
	Overlay *dictionary.Overlay
}

func (c Config) withDefaults() Config {
	if c.MaxCandidates == 0 {
		c.MaxCandidates = 5
	}
	if c.ExcellentThreshold == 0 {
		c.ExcellentThreshold = 0.7
	}
	if c.Patterns == nil {
		c.Patterns = grid.Patterns
	}
	if c.MaxTimeMS == 0 {
		c.MaxTimeMS = DefaultMaxTimeMS
	}
	// PreferredPattern needs no defaulting: the zero value prefers index 0,
	// which is already first in the catalog, so the order is unchanged.
	return c
}

// Candidate is one generated grid, successful or partial.
type Candidate struct {
	ID                string
	Pattern           string
	Grid              *grid.Grid
	Placed            []placer.Placement
	Unplaced          []string
	Success           bool
	ThemeWordsPlaced  int
	FillerWordsPlaced int
	ThematicFraction  float64
	AvgWeight         float64
	TotalSlots        int
	AttemptsUsed      int
}

// Run tries the smart path, then every pattern in cfg.Patterns, placing
// themeWords, filling, and repairing each attempt, falling back to
// alternative theme-word orderings and finally to the best partial grid.
// It returns a non-nil error only when themeWords is empty or the bundled
// dictionary fails to load; every other
// outcome (including total failure) comes back as a *Candidate with
// Success reflecting whether a fully validated grid was produced.
func Run(ctx context.Context, themeWords []string, cfg Config) (*Candidate, error) {
	if len(themeWords) == 0 {
		return nil, ErrNoThemeWords
	}
	cfg = cfg.withDefaults()

	overlay := cfg.Overlay
	if overlay == nil {
		base, err := dictionary.New()
		if err != nil {
			return nil, fmt.Errorf("orchestrator: loading dictionary: %w", err)
		}
		overlay = dictionary.NewOverlay(base, themeWords)
	}

	deadline := time.Now().Add(time.Duration(cfg.MaxTimeMS) * time.Millisecond)
	smartDeadline := time.Now().Add(time.Duration(float64(cfg.MaxTimeMS)*0.4) * time.Millisecond)
	// Attach the budget to the context so the filler's AC-3 drain and
	// backtracking node checks observe it too, not just the loop tops here.
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()
	patterns := orderedPatterns(cfg)

	var best *Candidate
	attempts := 0
	successes := 0

	if cand, ok := smartPath(ctx, smartDeadline, themeWords, overlay, cfg); ok {
		attempts++
		cand.AttemptsUsed = attempts
		cand.Success = true
		successes++
		best = cand
		if cand.ThematicFraction >= cfg.ExcellentThreshold {
			return best, nil
		}
	}

	for _, pattern := range patterns {
		if deadlinePassed(ctx, deadline) {
			break
		}
		attempts++
		cand, ok := attempt(ctx, pattern, themeWords, themeWords, overlay, cfg)
		if !ok {
			continue
		}
		successes++
		cand.AttemptsUsed = attempts
		cand.Success = true
		best = betterOf(best, cand)
		if cand.ThematicFraction >= cfg.ExcellentThreshold {
			return best, nil
		}
		if successes >= cfg.MaxCandidates {
			break
		}
	}

	if best != nil && best.Success {
		return best, nil
	}

	for _, words := range recoveryOrderings(themeWords, cfg.Seed) {
		if deadlinePassed(ctx, deadline) {
			break
		}
		for _, pattern := range patterns {
			if deadlinePassed(ctx, deadline) {
				break
			}
			attempts++
			cand, ok := attempt(ctx, pattern, words, themeWords, overlay, cfg)
			if !ok {
				continue
			}
			successes++
			cand.AttemptsUsed = attempts
			cand.Success = true
			best = betterOf(best, cand)
			if cand.ThematicFraction >= cfg.ExcellentThreshold {
				return best, nil
			}
			if successes >= cfg.MaxCandidates {
				break
			}
		}
		if successes >= cfg.MaxCandidates {
			break
		}
	}

	if best != nil && best.Success {
		return best, nil
	}

	partial := bestPartial(patterns, themeWords, overlay)
	partial.ID = uuid.New().String()
	partial.AttemptsUsed = attempts + 1
	return partial, nil
}

// fillConfig builds the filler's tuning from the request's: the caller's
// bias, and a tie-break rng seeded from the request seed so identical
// requests search in an identical order.
func fillConfig(cfg Config) filler.Config {
	return filler.Config{
		Bias: cfg.Bias,
		Rng:  rand.New(rand.NewSource(int64(cfg.Seed) + 1)),
	}
}

func deadlinePassed(ctx context.Context, deadline time.Time) bool {
	select {
	case <-ctx.Done():
		return true
	default:
	}
	return time.Now().After(deadline)
}

// orderedPatterns puts cfg.PreferredPattern first, if it names a valid
// index, followed by the rest of the catalog in its original order.
func orderedPatterns(cfg Config) []grid.Pattern {
	if cfg.PreferredPattern < 0 || cfg.PreferredPattern >= len(cfg.Patterns) {
		return cfg.Patterns
	}
	out := make([]grid.Pattern, 0, len(cfg.Patterns))
	out = append(out, cfg.Patterns[cfg.PreferredPattern])
	for i, p := range cfg.Patterns {
		if i != cfg.PreferredPattern {
			out = append(out, p)
		}
	}
	return out
}

// betterOf returns whichever of a and b has the higher thematic fraction,
// tie-broken by mean word weight. Either may be nil.
func betterOf(a, b *Candidate) *Candidate {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if b.ThematicFraction != a.ThematicFraction {
		if b.ThematicFraction > a.ThematicFraction {
			return b
		}
		return a
	}
	if b.AvgWeight > a.AvgWeight {
		return b
	}
	return a
}

// attempt seeds a fresh grid with placeWords and completes it. Candidate
// statistics are always derived against allThemes (the full cleaned input
// list), so a recovery pass that places a reduced word list still reports
// the dropped words as unplaced.
func attempt(ctx context.Context, pattern grid.Pattern, placeWords, allThemes []string, overlay *dictionary.Overlay, cfg Config) (*Candidate, bool) {
	g := grid.NewEmptyGrid(grid.GridConfig{Size: grid.Size})
	if !grid.ApplyPattern(g, pattern) {
		return nil, false
	}
	grid.ComputeSlots(g)

	placement := placer.Place(g, placeWords, overlay)
	if len(placement.Placed) == 0 {
		return nil, false
	}

	if err := repair.Run(ctx, g, overlay, fillConfig(cfg), repair.Config{}); err != nil {
		return nil, false
	}

	if !finalValidate(g, overlay) {
		return nil, false
	}

	return buildCandidate(pattern.Name, g, placement, allThemes, overlay), true
}

// recoveryOrderings yields the alternative theme-word orderings for the
// recovery pass: a seeded shuffle, then the original list with its least
// friendly word dropped. (The identity ordering is not repeated here since
// the main pattern loop above already tried it.)
func recoveryOrderings(themeWords []string, seed uint64) [][]string {
	shuffled := make([]string, len(themeWords))
	copy(shuffled, themeWords)
	rng := rand.New(rand.NewSource(int64(seed) + 1))
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	dropped := dropLeastFriendly(themeWords)

	return [][]string{shuffled, dropped}
}

func dropLeastFriendly(themeWords []string) []string {
	if len(themeWords) <= 1 {
		return themeWords
	}
	worst := 0
	worstScore := placer.Friendliness(themeWords[0])
	for i, w := range themeWords {
		if score := placer.Friendliness(w); score < worstScore {
			worst = i
			worstScore = score
		}
	}
	out := make([]string, 0, len(themeWords)-1)
	out = append(out, themeWords[:worst]...)
	out = append(out, themeWords[worst+1:]...)
	return out
}

// smartPath is the plan-first strategy tried before the main pattern loop:
// for each pattern, match theme words to same-length slots greedily,
// preferring assignments that create more intersections with words already
// placed this pass, pre-committing every match in one pass with no placer
// backtracking. The filler then runs as normal over what's left.
func smartPath(ctx context.Context, deadline time.Time, themeWords []string, overlay *dictionary.Overlay, cfg Config) (*Candidate, bool) {
	for _, pattern := range cfg.Patterns {
		if deadlinePassed(ctx, deadline) {
			return nil, false
		}

		g := grid.NewEmptyGrid(grid.GridConfig{Size: grid.Size})
		if !grid.ApplyPattern(g, pattern) {
			continue
		}
		grid.ComputeSlots(g)

		placement := greedyPlan(g, themeWords)
		if len(placement.Placed) == 0 {
			continue
		}

		if err := repair.Run(ctx, g, overlay, fillConfig(cfg), repair.Config{}); err != nil {
			continue
		}
		if !finalValidate(g, overlay) {
			continue
		}

		cand := buildCandidate(pattern.Name+"-smart", g, placement, themeWords, overlay)
		return cand, true
	}
	return nil, false
}

// greedyPlan assigns each theme word (longest first) to the same-length
// slot that currently shares the most letters with it, writing the word
// directly with no verification step, the defining difference from
// pkg/placer's verify-before-commit walk.
func greedyPlan(g *grid.Grid, themeWords []string) placer.Result {
	ordered := make([]string, len(themeWords))
	copy(ordered, themeWords)
	sort.SliceStable(ordered, func(i, j int) bool { return len(ordered[i]) > len(ordered[j]) })

	var result placer.Result
	for _, word := range ordered {
		var best *grid.Slot
		bestScore := -1
		for _, s := range g.Slots {
			if s.Length != len(word) || !slotAccepts(s, word) {
				continue
			}
			score := 0
			for i, c := range s.Cells {
				if c.Letter == rune(word[i]) && c.Letter != 0 {
					score++
				}
			}
			if score > bestScore {
				best = s
				bestScore = score
			}
		}
		if best == nil || !g.PlaceWord(word, best.StartRow, best.StartCol, best.Direction, grid.SourceTheme, true) {
			result.Unplaced = append(result.Unplaced, word)
			continue
		}
		result.Placed = append(result.Placed, placer.Placement{Word: word, SlotID: best.ID})
	}
	return result
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

// bestPartial runs the placer alone (no fill/repair) over every pattern
// and keeps whichever attempt seats the most theme words, tie-broken by
// grid fill percentage. This is the last resort when no pattern produced
// a complete, validated grid.
func bestPartial(patterns []grid.Pattern, themeWords []string, overlay *dictionary.Overlay) *Candidate {
	var best *Candidate
	for _, pattern := range patterns {
		g := grid.NewEmptyGrid(grid.GridConfig{Size: grid.Size})
		if !grid.ApplyPattern(g, pattern) {
			continue
		}
		grid.ComputeSlots(g)

		placement := placer.Place(g, themeWords, overlay)
		cand := buildCandidate(pattern.Name, g, placement, themeWords, overlay)
		cand.Success = false

		if best == nil ||
			cand.ThemeWordsPlaced > best.ThemeWordsPlaced ||
			(cand.ThemeWordsPlaced == best.ThemeWordsPlaced && fillPercentage(g) > fillPercentage(best.Grid)) {
			best = cand
		}
	}
	if best == nil {
		g := grid.NewEmptyGrid(grid.GridConfig{Size: grid.Size})
		grid.ComputeSlots(g)
		best = &Candidate{Grid: g, Unplaced: themeWords}
	}
	return best
}

func fillPercentage(g *grid.Grid) float64 {
	total, filled := 0, 0
	for _, row := range g.Cells {
		for _, c := range row {
			if c.IsBlack {
				continue
			}
			total++
			if c.Letter != 0 {
				filled++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return 100 * float64(filled) / float64(total)
}

// buildCandidate derives a Candidate's statistics from the finished grid,
// not from the placer's records: a theme word counts as placed whenever its
// text appears as a full run, whether the placer committed it or the
// boosted filler happened to choose it as crossing fill. (The used-word
// dedup guarantees each text appears at most once, so counting runs can't
// double-count.)
func buildCandidate(patternName string, g *grid.Grid, placement placer.Result, themeWords []string, overlay *dictionary.Overlay) *Candidate {
	themeTexts := make(map[string]bool, len(themeWords))
	for _, w := range themeWords {
		themeTexts[w] = true
	}

	themeCount := 0
	fillerCount := 0
	thematicCount := 0
	filledTotal := 0
	var weightSum float64
	weightCount := 0
	onGrid := make(map[string]bool)

	for _, s := range g.Slots {
		if !s.IsFilled() {
			continue
		}
		word := s.Word()
		filledTotal++
		onGrid[word] = true
		if themeTexts[word] {
			themeCount++
		} else {
			fillerCount++
		}
		if w, ok := overlay.Lookup(word); ok {
			weightSum += float64(w.Weight)
			weightCount++
			if w.Class == dictionary.ThematicPrimary || w.Class == dictionary.ThematicFiller {
				thematicCount++
			}
		}
	}

	var unplaced []string
	for _, w := range themeWords {
		if !onGrid[w] {
			unplaced = append(unplaced, w)
		}
	}

	var thematicFraction, avgWeight float64
	if filledTotal > 0 {
		thematicFraction = float64(thematicCount) / float64(filledTotal)
	}
	if weightCount > 0 {
		avgWeight = weightSum / float64(weightCount)
	}

	return &Candidate{
		ID:                uuid.New().String(),
		Pattern:           patternName,
		Grid:              g,
		Placed:            placement.Placed,
		Unplaced:          unplaced,
		ThemeWordsPlaced:  themeCount,
		FillerWordsPlaced: fillerCount,
		ThematicFraction:  thematicFraction,
		AvgWeight:         avgWeight,
		TotalSlots:        len(g.Slots),
	}
}

// finalValidate is the hard gate before a grid is accepted: symmetry,
// connectivity, and run-length invariants must hold, every slot must be
// filled, and every detected word must actually be in the dictionary.
func finalValidate(g *grid.Grid, overlay *dictionary.Overlay) bool {
	if !grid.IsSymmetric(g) {
		return false
	}
	if !grid.IsConnected(g) {
		return false
	}
	if grid.HasShortRuns(g) {
		return false
	}
	filled := grid.DetectWords(g)
	if len(filled) != len(g.Slots) {
		return false
	}
	for _, s := range filled {
		if !overlay.Contains(s.Word()) {
			return false
		}
	}
	return true
}
