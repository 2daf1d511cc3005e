package dictionary

// Overlay wraps a base Index with a per-request set of boosted words: theme
// words the caller supplied that should outrank everything else of their
// length during filling, inserted into the overlay even if the base index
// never had them. The base Index is never mutated; an Overlay is a small
// per-request value, not a subtype or a write lock.
type Overlay struct {
	base    *Index
	boosted map[string]Word
}

// MaxWeight is the weight assigned to every boosted word, placing it ahead
// of any bundled word during weight-descending sorts.
const MaxWeight = 1000

// NewOverlay builds an Overlay over base that boosts each of words to
// MaxWeight and class ThematicPrimary, adding it to the overlay's view even
// if base has never heard of it.
func NewOverlay(base *Index, words []string) *Overlay {
	boosted := make(map[string]Word, len(words))
	for _, w := range words {
		text := normalize(w)
		boosted[text] = Word{Text: text, Class: ThematicPrimary, Weight: MaxWeight}
	}
	return &Overlay{base: base, boosted: boosted}
}

func normalize(s string) string {
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		buf = append(buf, c)
	}
	return string(buf)
}

// Contains reports whether word is in the overlay or the base index.
func (o *Overlay) Contains(word string) bool {
	text := normalize(word)
	if _, ok := o.boosted[text]; ok {
		return true
	}
	return o.base.Contains(text)
}

// Lookup returns the boosted entry if present, otherwise the base entry.
func (o *Overlay) Lookup(word string) (Word, bool) {
	text := normalize(word)
	if w, ok := o.boosted[text]; ok {
		return w, true
	}
	return o.base.Lookup(text)
}

// Matches returns every word of pattern's length matching its fixed
// letters, boosted words first (weight-descending), then the base index's
// matches (also weight-descending), with any base entry that a boosted
// word shadows removed so each word appears once.
func (o *Overlay) Matches(pattern string) []Word {
	var boosted []Word
	for _, w := range o.boosted {
		if len(w.Text) == len(pattern) && matchesPattern(w.Text, pattern) {
			boosted = append(boosted, w)
		}
	}
	sortByWeightDesc(boosted)

	base := o.base.Matches(pattern)
	var out []Word
	out = append(out, boosted...)
	for _, w := range base {
		if _, shadowed := o.boosted[w.Text]; shadowed {
			continue
		}
		out = append(out, w)
	}
	return out
}

// ContainsAny reports whether at least one boosted or bundled word matches
// pattern.
func (o *Overlay) ContainsAny(pattern string) bool {
	for _, w := range o.boosted {
		if len(w.Text) == len(pattern) && matchesPattern(w.Text, pattern) {
			return true
		}
	}
	return o.base.ContainsAny(pattern)
}

// Words returns the text of every word Matches(pattern) would return, in
// the same boosted-first, weight-descending order.
func (o *Overlay) Words(pattern string) []string {
	matches := o.Matches(pattern)
	out := make([]string, len(matches))
	for i, w := range matches {
		out[i] = w.Text
	}
	return out
}

// ByLength returns every word of the given length: boosted first, then base.
func (o *Overlay) ByLength(length int) []Word {
	var boosted []Word
	for _, w := range o.boosted {
		if len(w.Text) == length {
			boosted = append(boosted, w)
		}
	}
	sortByWeightDesc(boosted)

	base := o.base.ByLength(length)
	var out []Word
	out = append(out, boosted...)
	for _, w := range base {
		if _, shadowed := o.boosted[w.Text]; shadowed {
			continue
		}
		out = append(out, w)
	}
	return out
}
