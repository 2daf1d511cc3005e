package engine

import "github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/dictionary"

// ThemeWord is one caller-supplied theme candidate: a word, its clue (opaque
// to the engine, preserved verbatim), and an optional caller-assigned id.
type ThemeWord struct {
	Text string `json:"text"`
	Clue string `json:"clue,omitempty"`
	ID   string `json:"id,omitempty"`
}

// Options tunes a single generation request. Every field is optional; zero
// values fall back to the orchestrator's own defaults, except MaxTimeMS,
// where 0 means no time at all and Generate returns an immediate failure.
type Options struct {
	MaxTimeMS int64 `json:"max_time_ms,omitempty"`
	// MaxAttempts bounds how many successful candidates the orchestrator
	// keeps before picking the best (orchestrator.Config.MaxCandidates).
	MaxAttempts int `json:"max_attempts,omitempty"`
	// PreferredPattern names an index into the black-pattern catalog to
	// try first. Nil means no preference.
	PreferredPattern *int    `json:"preferred_pattern,omitempty"`
	Bias             float64 `json:"bias,omitempty"`
	Seed             uint64  `json:"seed,omitempty"`
	// WordIndex, when set, overlays additional boosted words onto the
	// default dictionary for this request only. This is a programmatic
	// Go-API option, not JSON-serializable; a wire caller has no way to
	// construct a dictionary.Overlay directly.
	WordIndex *dictionary.Overlay `json:"-"`
	// ExcellentThreshold overrides the thematic fraction at which the
	// orchestrator stops early (orchestrator.Config.ExcellentThreshold).
	// A tuning knob the CLI and server source from internal/config, not a
	// wire-facing field.
	ExcellentThreshold float64 `json:"-"`
}

// Request is the engine's sole input: a caller-supplied list of theme
// words and generation options.
type Request struct {
	ThemeWords []ThemeWord `json:"theme_words"`
	Options    Options     `json:"options"`
}

// Cell is one square of the output grid.
type Cell struct {
	Black  bool   `json:"black,omitempty"`
	Letter string `json:"letter,omitempty"`
	Number int    `json:"number,omitempty"`
}

// PlacedWord describes one word committed to the grid, theme or filler,
// with its clue carried through verbatim when it was a theme word.
type PlacedWord struct {
	Text      string `json:"text"`
	Clue      string `json:"clue,omitempty"`
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	Direction string `json:"direction"`
	IsTheme   bool   `json:"is_theme"`
}

// Stats reports how the accepted candidate was built.
type Stats struct {
	TotalSlots          int     `json:"total_slots"`
	ThemeWordsPlaced    int     `json:"theme_words_placed"`
	FillerWordsPlaced   int     `json:"filler_words_placed"`
	ThematicFraction    float64 `json:"thematic_fraction"`
	AvgWeight           float64 `json:"avg_weight"`
	GridFillPercentage  float64 `json:"grid_fill_percentage"`
	TimeTakenMS         int64   `json:"time_taken_ms"`
	AttemptsUsed        int     `json:"attempts_used"`
	PatternName         string  `json:"pattern_name"`
}

// Result is the engine's sole output. Generate never returns a non-nil
// error for a puzzle-construction failure; Success is false instead,
// with UnplacedThemeWords explaining what didn't fit.
type Result struct {
	Success            bool         `json:"success"`
	AttemptID          string       `json:"attempt_id"`
	Grid               [][]Cell     `json:"grid"`
	PlacedWords        []PlacedWord `json:"placed_words"`
	UnplacedThemeWords []ThemeWord  `json:"unplaced_theme_words"`
	Stats              Stats        `json:"stats"`
	Fingerprint        string       `json:"fingerprint"`
}
