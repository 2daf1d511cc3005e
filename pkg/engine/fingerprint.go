package engine

import (
	"encoding/hex"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// fingerprint returns a hex-encoded BLAKE2b-256 digest of the grid's
// letters and the sorted set of placed words. Two results with the same
// fingerprint have the same grid contents regardless of the order the
// engine happened to place words in, which is what determinism tests and
// the HTTP ETag header compare.
func fingerprint(result *Result) string {
	var b strings.Builder
	for _, row := range result.Grid {
		for _, cell := range row {
			if cell.Black {
				b.WriteByte('#')
			} else if cell.Letter == "" {
				b.WriteByte('.')
			} else {
				b.WriteString(cell.Letter)
			}
		}
	}

	words := make([]string, len(result.PlacedWords))
	for i, p := range result.PlacedWords {
		words[i] = p.Text
	}
	sort.Strings(words)
	b.WriteByte('|')
	b.WriteString(strings.Join(words, ","))

	sum := blake2b.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
