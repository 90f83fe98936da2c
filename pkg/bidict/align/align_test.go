package align

import (
	"reflect"
	"testing"
)

func TestPairsIdenticalSentences(t *testing.T) {
	pairs := Pairs("dei gjekk heim", "dei gjekk heim")
	if len(pairs) != 0 {
		t.Errorf("Identical sentences should yield no pairs, got %v", pairs)
	}
}

func TestPairsEmptyInput(t *testing.T) {
	if pairs := Pairs("", "noko her"); len(pairs) != 0 {
		t.Errorf("Empty source should yield no pairs, got %v", pairs)
	}
	if pairs := Pairs("noko her", ""); len(pairs) != 0 {
		t.Errorf("Empty translation should yield no pairs, got %v", pairs)
	}
}

func TestPairsSingleSubstitution(t *testing.T) {
	pairs := Pairs("a b c", "a x c")
	want := []Pair{{Source: "b", Target: "x"}}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("Expected %v, got %v", want, pairs)
	}
}

func TestPairsUnequalBlockDiscarded(t *testing.T) {
	// Trailing insertion: no clean substitution, nothing emitted.
	pairs := Pairs("a b c", "a b c d")
	if len(pairs) != 0 {
		t.Errorf("Insertion block should be discarded, got %v", pairs)
	}

	// Deletion in the middle.
	pairs = Pairs("a b c d", "a d")
	if len(pairs) != 0 {
		t.Errorf("Deletion block should be discarded, got %v", pairs)
	}
}

func TestPairsMultipleBlocks(t *testing.T) {
	pairs := Pairs("eg har ikkje sett han", "jeg har ikke sett han")
	want := []Pair{
		{Source: "eg", Target: "jeg"},
		{Source: "ikkje", Target: "ikke"},
	}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("Expected %v, got %v", want, pairs)
	}
}

func TestPairsBlockWiderThanOne(t *testing.T) {
	pairs := Pairs("a p q d", "a x y d")
	want := []Pair{
		{Source: "p", Target: "x"},
		{Source: "q", Target: "y"},
	}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("Expected %v, got %v", want, pairs)
	}
}

func TestPairsPunctuationAnchorsNotEmitted(t *testing.T) {
	// The comma differs from a word, so the block pairs (",", "og") and
	// must be suppressed: punctuation is never a candidate.
	pairs := Pairs("brød , mjølk", "brød og mjølk")
	if len(pairs) != 0 {
		t.Errorf("Punctuation should never be emitted, got %v", pairs)
	}
}

func TestPairsNumericTokensNotEmitted(t *testing.T) {
	pairs := Pairs("kapittel 42 handlar om vatn", "kapittel 43 handler om vann")
	want := []Pair{
		{Source: "handlar", Target: "handler"},
		{Source: "vatn", Target: "vann"},
	}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("Numeric tokens must not be candidates; expected %v, got %v", want, pairs)
	}
}

func TestPairsCaseFolded(t *testing.T) {
	pairs := Pairs("Ikkje no", "Ikke no")
	want := []Pair{{Source: "ikkje", Target: "ikke"}}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("Expected lowercased pair %v, got %v", want, pairs)
	}
}

func TestTokenizeClasses(t *testing.T) {
	tokens := Tokenize("Han kom 17. mai, ikkje sant?")
	want := []Token{
		{Text: "han", Class: Word},
		{Text: "kom", Class: Word},
		{Text: "17", Class: Numeric},
		{Text: ".", Class: Punct},
		{Text: "mai", Class: Word},
		{Text: ",", Class: Punct},
		{Text: "ikkje", Class: Word},
		{Text: "sant", Class: Word},
		{Text: "?", Class: Punct},
	}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("Expected %v, got %v", want, tokens)
	}
}

func TestTokenizeEmpty(t *testing.T) {
	if tokens := Tokenize("   "); len(tokens) != 0 {
		t.Errorf("Whitespace-only input should yield no tokens, got %v", tokens)
	}
}
