// Package engine is the public facade for the crossword synthesis engine:
// one function, Generate, wiring the orchestrator (and everything beneath
// it) to a JSON-friendly request/result pair.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/grid"
	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/orchestrator"
)

// ErrNoThemeWords is returned for a malformed call: an empty theme-word
// list, or one where every entry was dropped by input cleaning. Like
// ErrBadMaxTime, Generate reports it as a Go error rather than a Result
// with Success=false, since there is no puzzle attempt to report on at all.
var ErrNoThemeWords = orchestrator.ErrNoThemeWords

// ErrBadMaxTime is returned when Options.MaxTimeMS is negative; there is no
// meaningful budget to honor at all.
var ErrBadMaxTime = errors.New("engine: max_time_ms must not be negative")

// Generate runs the full synthesis pipeline for req and returns a Result.
// It returns a non-nil error only for a malformed request; a request that
// cannot be turned into a complete puzzle comes back as a Result with
// Success=false and UnplacedThemeWords listing every word that didn't fit.
// The engine never throws on a merely difficult puzzle.
//
// An explicit Options.MaxTimeMS of 0 means "no time at all", not "caller
// didn't set it": a plain int64 can't distinguish the two, so this engine
// treats 0 literally and returns a well-formed immediate failure; callers
// that want the usual 15-second default must pass it explicitly (the CLI
// and HTTP server both do).
func Generate(ctx context.Context, req Request) (*Result, error) {
	if req.Options.MaxTimeMS < 0 {
		return nil, ErrBadMaxTime
	}

	cleaned, dropped := cleanThemeWords(req.ThemeWords)
	if len(cleaned) == 0 {
		return nil, ErrNoThemeWords
	}

	byText := make(map[string]ThemeWord, len(cleaned))
	words := make([]string, len(cleaned))
	for i, tw := range cleaned {
		words[i] = tw.Text
		byText[tw.Text] = tw
	}

	if req.Options.MaxTimeMS == 0 {
		return immediateFailure(words, byText, dropped), nil
	}

	cfg := orchestrator.Config{
		MaxTimeMS:          req.Options.MaxTimeMS,
		Bias:               req.Options.Bias,
		Seed:               req.Options.Seed,
		Overlay:            req.Options.WordIndex,
		ExcellentThreshold: req.Options.ExcellentThreshold,
	}
	if req.Options.MaxAttempts > 0 {
		cfg.MaxCandidates = req.Options.MaxAttempts
	}
	if req.Options.PreferredPattern != nil {
		cfg.PreferredPattern = *req.Options.PreferredPattern
	}

	start := time.Now()
	candidate, err := orchestrator.Run(ctx, words, cfg)
	if err != nil {
		return nil, err
	}

	result := buildResult(candidate, byText, dropped)
	result.Stats.TimeTakenMS = time.Since(start).Milliseconds()
	result.Fingerprint = fingerprint(result)
	return result, nil
}

// immediateFailure builds the well-formed, empty-grid failure result for
// max_time_ms = 0: no placements attempted, every theme word reported
// unplaced, and every structural invariant holds trivially on the empty
// grid.
func immediateFailure(words []string, byText map[string]ThemeWord, dropped []ThemeWord) *Result {
	g := grid.NewEmptyGrid(grid.GridConfig{Size: grid.Size})
	grid.ComputeSlots(g)

	gridOut := make([][]Cell, g.Size)
	for row := range gridOut {
		gridOut[row] = make([]Cell, g.Size)
		for col := range gridOut[row] {
			gridOut[row][col] = Cell{Number: g.Cells[row][col].Number}
		}
	}

	var unplaced []ThemeWord
	for _, w := range words {
		unplaced = append(unplaced, byText[w])
	}
	unplaced = append(unplaced, dropped...)

	result := &Result{
		Success:            false,
		AttemptID:          uuid.New().String(),
		Grid:               gridOut,
		UnplacedThemeWords: unplaced,
		Stats:              Stats{TotalSlots: len(g.Slots)},
	}
	result.Fingerprint = fingerprint(result)
	return result
}

// cleanThemeWords drops caller input that can never be a usable theme word
// (blank text, anything containing a non-letter) and uppercases and
// dedups the rest by text. Words longer than the grid (e.g. an 8-letter
// entry on a 5x5 board) are deliberately NOT dropped here: an over-long
// theme word survives input cleaning and comes back in
// UnplacedThemeWords rather than vanishing silently before the engine
// even tries.
func cleanThemeWords(in []ThemeWord) (cleaned []ThemeWord, dropped []ThemeWord) {
	seen := make(map[string]bool, len(in))
	for _, tw := range in {
		text := strings.ToUpper(strings.TrimSpace(tw.Text))
		if text == "" || !isAllLetters(text) {
			dropped = append(dropped, tw)
			continue
		}
		if seen[text] {
			continue
		}
		seen[text] = true
		cleaned = append(cleaned, ThemeWord{Text: text, Clue: tw.Clue, ID: tw.ID})
	}
	return cleaned, dropped
}

func isAllLetters(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func buildResult(candidate *orchestrator.Candidate, byText map[string]ThemeWord, dropped []ThemeWord) *Result {
	g := candidate.Grid

	gridOut := make([][]Cell, g.Size)
	for row := range gridOut {
		gridOut[row] = make([]Cell, g.Size)
		for col := range gridOut[row] {
			c := g.Cells[row][col]
			cell := Cell{Black: c.IsBlack, Number: c.Number}
			if !c.IsBlack && c.Letter != 0 {
				cell.Letter = string(c.Letter)
			}
			gridOut[row][col] = cell
		}
	}

	// A run spelling a requested theme word is a theme placement no matter
	// who wrote it: the planner seats some theme words directly, and the
	// boosted filler routinely picks up the rest as crossing fill.
	var placedWords []PlacedWord
	for _, s := range g.Slots {
		if !s.IsFilled() {
			continue
		}
		word := s.Word()
		_, isTheme := byText[word]
		pw := PlacedWord{
			Text:      word,
			Row:       s.StartRow,
			Col:       s.StartCol,
			Direction: s.Direction.String(),
			IsTheme:   isTheme,
		}
		if tw, ok := byText[word]; ok {
			pw.Clue = tw.Clue
		}
		placedWords = append(placedWords, pw)
	}

	var unplaced []ThemeWord
	for _, w := range candidate.Unplaced {
		if tw, ok := byText[w]; ok {
			unplaced = append(unplaced, tw)
		} else {
			unplaced = append(unplaced, ThemeWord{Text: w})
		}
	}
	unplaced = append(unplaced, dropped...)

	return &Result{
		Success:            candidate.Success,
		AttemptID:          candidate.ID,
		Grid:               gridOut,
		PlacedWords:        placedWords,
		UnplacedThemeWords: unplaced,
		Stats: Stats{
			TotalSlots:         candidate.TotalSlots,
			ThemeWordsPlaced:   candidate.ThemeWordsPlaced,
			FillerWordsPlaced:  candidate.FillerWordsPlaced,
			ThematicFraction:   candidate.ThematicFraction,
			AvgWeight:          candidate.AvgWeight,
			GridFillPercentage: gridFillPercentage(g),
			AttemptsUsed:       candidate.AttemptsUsed,
			PatternName:        candidate.Pattern,
		},
	}
}

func gridFillPercentage(g *grid.Grid) float64 {
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

// Validate re-checks the structural invariants against an
// externally-supplied grid (e.g. one round-tripped through JSON), for the
// CLI's validate subcommand and for tests checking a freshly generated
// grid.
func Validate(g *grid.Grid) error {
	if !grid.IsSymmetric(g) {
		return errors.New("grid is not 180-degree rotationally symmetric")
	}
	if !grid.IsConnected(g) {
		return fmt.Errorf("grid has disconnected white cells: %w", grid.ErrDisconnectedGrid)
	}
	if grid.HasShortRuns(g) {
		return fmt.Errorf("grid contains a run shorter than %d: %w", grid.MinWordLength, grid.ErrShortWords)
	}
	filled := grid.DetectWords(g)
	if len(filled) != len(g.Slots) {
		return fmt.Errorf("grid has %d unfilled slots", len(g.Slots)-len(filled))
	}
	return nil
}
