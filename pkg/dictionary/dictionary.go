// Package dictionary implements the bundled word index: a fixed-at-startup,
// read-only set of words classified by thematic weight and bucketed by
// length for pattern matching.
package dictionary

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

//go:embed data/corpus.txt
var corpusData []byte

// Class is the weight class a word is assigned at load time. Every bundled
// word belongs to exactly one class; the partition is decided by the
// corpus, never recomputed at runtime.
type Class int

const (
	// Rare words are accepted only when nothing else fits a slot.
	Rare Class = iota
	// Common words are ordinary crossing fill.
	Common
	// ThematicFiller words relate to the theme but weren't supplied by the caller.
	ThematicFiller
	// ThematicPrimary words are the strongest thematic candidates.
	ThematicPrimary
)

// String returns the class's corpus-file spelling.
func (c Class) String() string {
	switch c {
	case ThematicPrimary:
		return "thematic-primary"
	case ThematicFiller:
		return "thematic-filler"
	case Common:
		return "common"
	default:
		return "rare"
	}
}

func parseClass(s string) (Class, error) {
	switch s {
	case "thematic-primary":
		return ThematicPrimary, nil
	case "thematic-filler":
		return ThematicFiller, nil
	case "common":
		return Common, nil
	case "rare":
		return Rare, nil
	default:
		return Rare, fmt.Errorf("dictionary: unknown class %q", s)
	}
}

// Word is a single dictionary entry.
type Word struct {
	Text   string
	Class  Class
	Weight int
}

// Index is the bundled, immutable word index. It is never mutated after
// New returns, so it is safe for concurrent read-only use from multiple
// goroutines without locking; per-request additions go through Overlay
// instead of writing here.
type Index struct {
	byText   map[string]Word
	byLength map[int][]Word
	// byFirst accelerates Matches for patterns with a known first letter:
	// keyed by (first letter, length) so a fixed first position never scans
	// the whole length bucket.
	byFirst map[firstLenKey][]Word
}

type firstLenKey struct {
	first  byte
	length int
}

// New builds an Index from the engine's bundled corpus: a line-oriented
// WORD;CLASS;WEIGHT file embedded in the binary.
func New() (*Index, error) {
	return parse(corpusData)
}

func parse(data []byte) (*Index, error) {
	idx := &Index{
		byText:   make(map[string]Word),
		byLength: make(map[int][]Word),
		byFirst:  make(map[firstLenKey][]Word),
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ";")
		if len(parts) != 3 {
			return nil, fmt.Errorf("dictionary: corpus line %d: expected WORD;CLASS;WEIGHT, got %q", lineNo, line)
		}

		text := strings.ToUpper(strings.TrimSpace(parts[0]))
		class, err := parseClass(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("dictionary: corpus line %d: %w", lineNo, err)
		}
		weight, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return nil, fmt.Errorf("dictionary: corpus line %d: bad weight: %w", lineNo, err)
		}

		if !isValidEntry(text) {
			continue
		}

		w := Word{Text: text, Class: class, Weight: weight}
		if existing, ok := idx.byText[text]; ok && existing.Weight >= weight {
			continue
		}
		idx.byText[text] = w
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dictionary: reading corpus: %w", err)
	}

	for _, w := range idx.byText {
		idx.byLength[len(w.Text)] = append(idx.byLength[len(w.Text)], w)
		key := firstLenKey{first: w.Text[0], length: len(w.Text)}
		idx.byFirst[key] = append(idx.byFirst[key], w)
	}
	for length := range idx.byLength {
		sortByWeightDesc(idx.byLength[length])
	}
	for key := range idx.byFirst {
		sortByWeightDesc(idx.byFirst[key])
	}

	return idx, nil
}

// isValidEntry reports whether text is a legal dictionary entry: 2-5
// uppercase letters, nothing else. Anything shorter, longer, or containing
// a non-letter character is dropped at load time rather than stored.
func isValidEntry(text string) bool {
	if len(text) < 2 || len(text) > 5 {
		return false
	}
	for _, r := range text {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func sortByWeightDesc(words []Word) {
	sort.Slice(words, func(i, j int) bool {
		if words[i].Weight != words[j].Weight {
			return words[i].Weight > words[j].Weight
		}
		return words[i].Text < words[j].Text
	})
}

// Contains reports whether word is present in the index, case-insensitively.
func (idx *Index) Contains(word string) bool {
	_, ok := idx.byText[strings.ToUpper(word)]
	return ok
}

// ContainsAny reports whether at least one bundled word matches pattern,
// without materializing the full match list the way Matches does.
func (idx *Index) ContainsAny(pattern string) bool {
	for _, w := range idx.candidatesFor(pattern) {
		if matchesPattern(w.Text, pattern) {
			return true
		}
	}
	return false
}

// ByLength returns every bundled word of the given length, in no particular
// order relative to repeated calls other than weight-descending.
func (idx *Index) ByLength(length int) []Word {
	return idx.byLength[length]
}

// Lookup returns the Word entry for an exact word, if present.
func (idx *Index) Lookup(word string) (Word, bool) {
	w, ok := idx.byText[strings.ToUpper(word)]
	return w, ok
}

// Matches returns every bundled word of the right length whose letters
// agree with pattern's non-'.' positions, in weight-descending order. The
// '.' wildcard matches grid.Slot.Pattern's convention.
func (idx *Index) Matches(pattern string) []Word {
	candidates := idx.candidatesFor(pattern)
	var out []Word
	for _, w := range candidates {
		if matchesPattern(w.Text, pattern) {
			out = append(out, w)
		}
	}
	return out
}

// candidatesFor returns the narrowest bucket worth scanning for pattern:
// the (first-letter, length) bucket when the first position is fixed,
// otherwise the whole length bucket.
func (idx *Index) candidatesFor(pattern string) []Word {
	if len(pattern) > 0 && pattern[0] != '.' {
		return idx.byFirst[firstLenKey{first: pattern[0], length: len(pattern)}]
	}
	return idx.byLength[len(pattern)]
}

func matchesPattern(word, pattern string) bool {
	if len(word) != len(pattern) {
		return false
	}
	for i := 0; i < len(word); i++ {
		if pattern[i] != '.' && pattern[i] != word[i] {
			return false
		}
	}
	return true
}

// Size returns the total number of distinct words in the index.
func (idx *Index) Size() int {
	return len(idx.byText)
}

// Words returns the text of every word Matches(pattern) would return, in
// the same weight-descending order. This is the narrow read surface
// pkg/validator needs and depends on instead of the full Word type.
func (idx *Index) Words(pattern string) []string {
	matches := idx.Matches(pattern)
	out := make([]string, len(matches))
	for i, w := range matches {
		out[i] = w.Text
	}
	return out
}
