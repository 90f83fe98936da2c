package align

import (
	"strings"
	"unicode"
)

// Class describes what kind of text a token holds. Punctuation and
// purely numeric tokens act as alignment anchors but are never emitted
// as dictionary candidates.
type Class int

const (
	Word Class = iota
	Numeric
	Punct
)

// Token is a single unit of an alignment input sentence.
type Token struct {
	Text  string
	Class Class
}

// Tokenize splits a sentence into tokens on whitespace and punctuation
// boundaries. Word and numeric characters accumulate into one token,
// runs of punctuation into another. Word tokens are lowercased so that
// sentence-initial capitalization does not show up as a lexical
// discrepancy.
func Tokenize(s string) []Token {
	var tokens []Token
	var current strings.Builder
	inWord := false

	flush := func() {
		if current.Len() == 0 {
			return
		}
		text := current.String()
		tokens = append(tokens, Token{Text: text, Class: classify(text)})
		current.Reset()
	}

	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			flush()
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			if !inWord {
				flush()
				inWord = true
			}
			current.WriteRune(unicode.ToLower(r))
		default:
			if inWord {
				flush()
				inWord = false
			}
			current.WriteRune(r)
		}
	}
	flush()

	return tokens
}

func classify(text string) Class {
	hasLetter := false
	hasDigit := false
	for _, r := range text {
		if unicode.IsLetter(r) {
			hasLetter = true
		} else if unicode.IsNumber(r) {
			hasDigit = true
		}
	}
	switch {
	case hasLetter:
		return Word
	case hasDigit:
		return Numeric
	default:
		return Punct
	}
}
