package dictionary

import "testing"

func TestNew_LoadsBundledCorpus(t *testing.T) {
	idx, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if idx.Size() == 0 {
		t.Fatal("Size() = 0, want a non-empty bundled corpus")
	}
}

func TestIndex_ContainsKnownThematicWords(t *testing.T) {
	idx, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	tests := []string{"ADAM", "HAWWA", "IBLIS", "MUSA", "ISLAM", "SALAH", "MECCA"}
	for _, word := range tests {
		t.Run(word, func(t *testing.T) {
			if !idx.Contains(word) {
				t.Errorf("Contains(%q) = false, want true", word)
			}
		})
	}
}

func TestIndex_Contains_CaseInsensitive(t *testing.T) {
	idx, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if !idx.Contains("adam") {
		t.Error("Contains(\"adam\") = false, want true")
	}
}

func TestIndex_Matches_RespectsFixedLetters(t *testing.T) {
	idx, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	matches := idx.Matches("A.A.")
	if len(matches) == 0 {
		t.Fatal("Matches(\"A.A.\") returned nothing")
	}
	for _, w := range matches {
		if len(w.Text) != 4 || w.Text[0] != 'A' || w.Text[2] != 'A' {
			t.Errorf("Matches(\"A.A.\") returned %q, which doesn't fit", w.Text)
		}
	}
}

func TestIndex_Matches_SortedByWeightDescending(t *testing.T) {
	idx, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	matches := idx.Matches("....")
	for i := 1; i < len(matches); i++ {
		if matches[i-1].Weight < matches[i].Weight {
			t.Fatalf("Matches not weight-descending at index %d: %d < %d",
				i, matches[i-1].Weight, matches[i].Weight)
		}
	}
}

func TestIndex_ContainsAny(t *testing.T) {
	idx, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if !idx.ContainsAny("A.A.") {
		t.Error("ContainsAny(\"A.A.\") = false, want true")
	}
	if idx.ContainsAny("QQ.Q") {
		t.Error("ContainsAny(\"QQ.Q\") = true, want false")
	}
	if got, want := idx.ContainsAny("Z...."), len(idx.Matches("Z....")) > 0; got != want {
		t.Errorf("ContainsAny(\"Z....\") = %v disagrees with Matches, want %v", got, want)
	}
}

func TestParse_RejectsMalformedLine(t *testing.T) {
	_, err := parse([]byte("BADLINE\n"))
	if err == nil {
		t.Fatal("parse() error = nil, want an error for a malformed line")
	}
}

func TestParse_SkipsCommentsAndBlankLines(t *testing.T) {
	idx, err := parse([]byte("# comment\n\nCAT;common;50\n"))
	if err != nil {
		t.Fatalf("parse() error: %v", err)
	}
	if !idx.Contains("CAT") {
		t.Error("Contains(\"CAT\") = false after parsing a minimal corpus")
	}
}
