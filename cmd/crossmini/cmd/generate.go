package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/internal/config"
	"github.com/raptors2019-ai/islamic-crossword-tool-sub000/pkg/engine"
)

var (
	genThemeWords []string
	genOutput     string
	genMaxTimeMS  int64
	genBias       float64
	genSeed       int64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a 5x5 themed crossword puzzle",
	Long: `Generate builds a 5x5 crossword grid around a list of caller-supplied
theme words, filling the rest of the grid with words from the bundled
dictionary, and prints the result as JSON.

Examples:
  # Generate a puzzle from three theme words
  crossmini generate --theme ADAM --theme HAWWA --theme CLAY

  # Attach a clue to a theme word with "TEXT|CLUE"
  crossmini generate --theme "ADAM|First prophet" --theme HAWWA

  # Write the result to a file instead of stdout
  crossmini generate --theme NOAH --theme ARK --output puzzle.json`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringArrayVarP(&genThemeWords, "theme", "t", nil, `theme word, optionally "TEXT|CLUE" (repeatable, required)`)
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "output file path (default stdout)")
	generateCmd.Flags().Int64Var(&genMaxTimeMS, "max-time-ms", 0, "time budget in milliseconds (default from CROSSMINI_MAX_TIME_MS or 15000)")
	generateCmd.Flags().Float64Var(&genBias, "bias", 0, "thematic bias in [0,1] for the filler (default from CROSSMINI_BIAS or 0.5)")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "random seed for reproducible recovery-pass ordering")
	generateCmd.MarkFlagRequired("theme")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	genCfg := config.LoadGeneration()

	maxTimeMS := genMaxTimeMS
	if maxTimeMS == 0 {
		maxTimeMS = genCfg.MaxTimeMS
	}
	bias := genBias
	if bias == 0 {
		bias = genCfg.Bias
	}

	themeWords := make([]engine.ThemeWord, len(genThemeWords))
	for i, raw := range genThemeWords {
		text, clue := raw, ""
		if idx := strings.IndexByte(raw, '|'); idx >= 0 {
			text, clue = raw[:idx], raw[idx+1:]
		}
		themeWords[i] = engine.ThemeWord{Text: strings.TrimSpace(text), Clue: strings.TrimSpace(clue)}
	}

	infof("generating puzzle from %d theme word(s), max_time_ms=%d", len(themeWords), maxTimeMS)
	start := time.Now()

	req := engine.Request{
		ThemeWords: themeWords,
		Options: engine.Options{
			MaxTimeMS:          maxTimeMS,
			Bias:               bias,
			Seed:               uint64(genSeed),
			MaxAttempts:        genCfg.MaxCandidates,
			ExcellentThreshold: genCfg.ExcellentThreshold,
		},
	}

	result, err := engine.Generate(context.Background(), req)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	infof("finished in %s, success=%v", time.Since(start), result.Success)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	if genOutput == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(genOutput, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", genOutput, err)
	}
	infof("wrote %s", genOutput)
	return nil
}
