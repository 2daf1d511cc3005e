package engine

import (
	"context"
	"testing"

	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/dictionary"
	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/grid"
	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/orchestrator"
)

func withThemeWords(texts ...string) Request {
	words := make([]ThemeWord, len(texts))
	for i, t := range texts {
		words[i] = ThemeWord{Text: t}
	}
	return Request{ThemeWords: words, Options: Options{MaxTimeMS: 15000}}
}

func TestGenerate_EmptyThemeWordsIsAnError(t *testing.T) {
	_, err := Generate(context.Background(), Request{})
	if err != ErrNoThemeWords {
		t.Fatalf("err = %v, want ErrNoThemeWords", err)
	}
}

func TestGenerate_AllNonLetterThemeWordsIsAnError(t *testing.T) {
	_, err := Generate(context.Background(), withThemeWords("123", "  "))
	if err != ErrNoThemeWords {
		t.Fatalf("err = %v, want ErrNoThemeWords", err)
	}
}

func TestGenerate_NegativeMaxTimeIsAnError(t *testing.T) {
	req := withThemeWords("ADAM")
	req.Options.MaxTimeMS = -1
	_, err := Generate(context.Background(), req)
	if err != ErrBadMaxTime {
		t.Fatalf("err = %v, want ErrBadMaxTime", err)
	}
}

func TestGenerate_ZeroMaxTimeIsAWellFormedImmediateFailure(t *testing.T) {
	req := withThemeWords("ADAM", "HAWWA")
	req.Options.MaxTimeMS = 0
	result, err := Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if result.Success {
		t.Error("Success = true, want false for max_time_ms=0")
	}
	if len(result.PlacedWords) != 0 {
		t.Errorf("PlacedWords = %v, want none", result.PlacedWords)
	}
	if len(result.UnplacedThemeWords) != 2 {
		t.Errorf("UnplacedThemeWords = %v, want both words listed", result.UnplacedThemeWords)
	}
	if len(result.Grid) != 5 || len(result.Grid[0]) != 5 {
		t.Fatalf("Grid dimensions = %dx%d, want 5x5", len(result.Grid), len(result.Grid[0]))
	}
}

func TestGenerate_AdamThemeProducesASuccessfulResult(t *testing.T) {
	result, err := Generate(context.Background(), withThemeWords("ADAM", "HAWWA", "IBLIS", "CLAY"))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !result.Success {
		t.Fatalf("Success = false, unplaced=%v", result.UnplacedThemeWords)
	}
	if result.Fingerprint == "" {
		t.Error("Fingerprint is empty on a successful result")
	}
	if len(result.Grid) != 5 || len(result.Grid[0]) != 5 {
		t.Fatalf("Grid dimensions = %dx%d, want 5x5", len(result.Grid), len(result.Grid[0]))
	}
}

func TestGenerate_CluesArePreservedOnPlacedThemeWords(t *testing.T) {
	req := Request{
		ThemeWords: []ThemeWord{
			{Text: "ISLAM", Clue: "Religion of peace", ID: "t1"},
			{Text: "PEACE", Clue: "Salaam", ID: "t2"},
		},
		Options: Options{MaxTimeMS: 15000},
	}
	result, err := Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !result.Success {
		t.Fatalf("Success = false, unplaced=%v", result.UnplacedThemeWords)
	}
	clues := map[string]string{"ISLAM": "Religion of peace", "PEACE": "Salaam"}
	seen := 0
	for _, p := range result.PlacedWords {
		if want, ok := clues[p.Text]; ok {
			seen++
			if p.Clue != want {
				t.Errorf("%s clue = %q, want %q", p.Text, p.Clue, want)
			}
			if !p.IsTheme {
				t.Errorf("%s IsTheme = false, want true", p.Text)
			}
		}
	}
	if seen == 0 {
		t.Fatal("neither theme word appears among placed words")
	}
}

func TestGenerate_OverlongThemeWordIsReportedUnplaced(t *testing.T) {
	result, err := Generate(context.Background(), withThemeWords("MUHAMMAD", "MECCA", "HIRA"))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	found := false
	for _, w := range result.UnplacedThemeWords {
		if w.Text == "MUHAMMAD" {
			found = true
		}
	}
	if !found {
		t.Errorf("UnplacedThemeWords = %v, want MUHAMMAD listed", result.UnplacedThemeWords)
	}
}

func TestGenerate_DuplicateThemeWordsAreDeduped(t *testing.T) {
	result, err := Generate(context.Background(), withThemeWords("ADAM", "adam", " Adam "))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	count := 0
	for _, p := range result.PlacedWords {
		if p.Text == "ADAM" {
			count++
		}
	}
	if count > 1 {
		t.Errorf("ADAM placed %d times, want at most once", count)
	}
}

func TestGenerate_IsDeterministicForTheSameRequest(t *testing.T) {
	req := withThemeWords("ADAM", "MUSA")

	first, err := Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	second, err := Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if first.Fingerprint != second.Fingerprint {
		t.Errorf("fingerprints differ across identical requests: %q vs %q", first.Fingerprint, second.Fingerprint)
	}
}

func TestGenerate_SingleShortWord(t *testing.T) {
	result, err := Generate(context.Background(), withThemeWords("ARK"))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !result.Success {
		t.Fatalf("Success = false, unplaced=%v", result.UnplacedThemeWords)
	}
}

func TestGenerate_BlackAndEmptyCellsHaveNoLetterByte(t *testing.T) {
	result, err := Generate(context.Background(), withThemeWords("ADAM", "HAWWA", "IBLIS", "CLAY"))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	for row := range result.Grid {
		for col, cell := range result.Grid[row] {
			if cell.Black && cell.Letter != "" {
				t.Errorf("cell (%d,%d) is black but Letter = %q, want empty", row, col, cell.Letter)
			}
			if !cell.Black && cell.Letter != "" && len(cell.Letter) != 1 {
				t.Errorf("cell (%d,%d) Letter = %q, want a single letter or empty", row, col, cell.Letter)
			}
		}
	}
}

func TestGenerate_IsThemeNotSetOnAFillerSlotThatOnlyCrossesATheme(t *testing.T) {
	result, err := Generate(context.Background(), withThemeWords("ADAM", "HAWWA", "IBLIS", "CLAY"))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !result.Success {
		t.Fatalf("Success = false, unplaced=%v", result.UnplacedThemeWords)
	}

	theme := map[string]bool{"ADAM": true, "HAWWA": true, "IBLIS": true, "CLAY": true}
	for _, p := range result.PlacedWords {
		if p.IsTheme != theme[p.Text] {
			t.Errorf("PlacedWord %q: IsTheme = %v, want %v", p.Text, p.IsTheme, theme[p.Text])
		}
	}
}

// checkUniversal asserts the invariants that must hold for every returned
// grid, success or not: 5x5 shape, black symmetry, white connectivity, no
// length-1 runs, and placed words agreeing with the letters on the grid.
func checkUniversal(t *testing.T, result *Result) {
	t.Helper()

	if len(result.Grid) != 5 {
		t.Fatalf("grid has %d rows, want 5", len(result.Grid))
	}
	for r, row := range result.Grid {
		if len(row) != 5 {
			t.Fatalf("row %d has %d cells, want 5", r, len(row))
		}
	}
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			if result.Grid[r][c].Black != result.Grid[4-r][4-c].Black {
				t.Errorf("black cells not symmetric at (%d,%d)", r, c)
			}
			if result.Grid[r][c].Black && result.Grid[r][c].Letter != "" {
				t.Errorf("cell (%d,%d) is both black and lettered", r, c)
			}
		}
	}

	// Connectivity and run lengths via the grid package's own checks.
	g := grid.NewEmptyGrid(grid.GridConfig{Size: 5})
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			cell := result.Grid[r][c]
			g.Cells[r][c].IsBlack = cell.Black
			if !cell.Black && cell.Letter != "" {
				g.Cells[r][c].Letter = rune(cell.Letter[0])
			}
		}
	}
	if !grid.IsConnected(g) {
		t.Error("white cells are not 4-connected")
	}
	if grid.HasShortRuns(g) {
		t.Error("grid contains a length-1 run")
	}

	for _, p := range result.PlacedWords {
		r, c := p.Row, p.Col
		for i := range p.Text {
			cell := result.Grid[r][c]
			if cell.Letter != string(p.Text[i]) {
				t.Errorf("placed word %s disagrees with grid at (%d,%d): %q", p.Text, r, c, cell.Letter)
			}
			if p.Direction == "across" {
				c++
			} else {
				r++
			}
		}
	}
}

func TestGenerate_MusaThemeScenario(t *testing.T) {
	result, err := Generate(context.Background(), withThemeWords("MUSA", "STAFF", "NILE", "TORAH"))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	checkUniversal(t, result)
	if !result.Success {
		t.Fatalf("Success = false, unplaced=%v", result.UnplacedThemeWords)
	}
	if result.Stats.ThemeWordsPlaced < 1 {
		t.Errorf("ThemeWordsPlaced = %d, want >= 1", result.Stats.ThemeWordsPlaced)
	}
	if result.Stats.GridFillPercentage != 100 {
		t.Errorf("GridFillPercentage = %f, want 100", result.Stats.GridFillPercentage)
	}
}

func TestGenerate_RepeatedLetterThemeWords(t *testing.T) {
	result, err := Generate(context.Background(), withThemeWords("HAWWA", "SALAH"))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	checkUniversal(t, result)
	if result.Success {
		found := false
		for _, p := range result.PlacedWords {
			if p.Text == "HAWWA" || p.Text == "SALAH" {
				found = true
			}
		}
		if !found {
			t.Error("successful result places neither HAWWA nor SALAH")
		}
	}
}

func TestGenerate_NoDuplicateWordsOnSuccess(t *testing.T) {
	result, err := Generate(context.Background(), withThemeWords("ISLAM", "PEACE"))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !result.Success {
		t.Fatalf("Success = false, unplaced=%v", result.UnplacedThemeWords)
	}
	seen := make(map[string]bool)
	for _, p := range result.PlacedWords {
		if seen[p.Text] {
			t.Errorf("word %q placed more than once", p.Text)
		}
		seen[p.Text] = true
	}
}

func TestGenerate_DetectedRunsAreAllDictionaryWords(t *testing.T) {
	themes := []string{"NOAH", "ARK"}
	result, err := Generate(context.Background(), withThemeWords(themes...))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !result.Success {
		t.Fatalf("Success = false, unplaced=%v", result.UnplacedThemeWords)
	}

	idx, err := dictionary.New()
	if err != nil {
		t.Fatalf("dictionary.New() error: %v", err)
	}
	overlay := dictionary.NewOverlay(idx, themes)

	g := grid.NewEmptyGrid(grid.GridConfig{Size: 5})
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			cell := result.Grid[r][c]
			g.Cells[r][c].IsBlack = cell.Black
			if !cell.Black && cell.Letter != "" {
				g.Cells[r][c].Letter = rune(cell.Letter[0])
			}
		}
	}
	grid.ComputeSlots(g)
	for _, s := range grid.DetectWords(g) {
		if !overlay.Contains(s.Word()) {
			t.Errorf("detected run %q is not a dictionary word", s.Word())
		}
	}
}

func TestGenerate_ThemeSetsSucceedWithAtLeastOnePlacement(t *testing.T) {
	sets := [][]string{
		{"QURAN"},
		{"NOAH", "ARK"},
		{"ADAM", "MUSA"},
		{"MUHAMMAD", "MECCA", "HIRA"},
	}
	for _, themes := range sets {
		t.Run(themes[0], func(t *testing.T) {
			result, err := Generate(context.Background(), withThemeWords(themes...))
			if err != nil {
				t.Fatalf("Generate() error: %v", err)
			}
			checkUniversal(t, result)
			if !result.Success {
				t.Fatalf("Success = false, unplaced=%v", result.UnplacedThemeWords)
			}
			if result.Stats.ThemeWordsPlaced < 1 {
				t.Errorf("ThemeWordsPlaced = %d, want >= 1", result.Stats.ThemeWordsPlaced)
			}
		})
	}
}

func TestValidate_AcceptsAGeneratedGrid(t *testing.T) {
	candidate, err := orchestrator.Run(context.Background(), []string{"ISLAM", "PEACE"}, orchestrator.Config{})
	if err != nil {
		t.Fatalf("orchestrator.Run() error: %v", err)
	}
	if err := Validate(candidate.Grid); err != nil {
		t.Errorf("Validate() error on a freshly generated grid: %v", err)
	}
}
