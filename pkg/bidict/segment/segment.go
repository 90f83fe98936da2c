// Package segment splits article text into ordered, trimmed sentences.
package segment

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// defaultAbbreviations lists common Norwegian abbreviations (lowercase,
// with trailing dot) whose dot must not end a sentence.
var defaultAbbreviations = map[string]bool{
	"bl.a.": true, "f.eks.": true, "dvs.": true, "ca.": true,
	"jf.": true, "mv.": true, "mht.": true, "osv.": true,
	"pga.": true, "ifm.": true, "iflg.": true, "hhv.": true,
	"nr.": true, "s.": true, "kr.": true, "mill.": true,
	"mrd.": true, "evt.": true, "st.": true, "dr.": true,
	"prof.": true, "e.kr.": true, "f.kr.": true,
}

// Segmenter detects sentence boundaries on terminal punctuation
// followed by whitespace and a capital, with abbreviation suppression.
type Segmenter struct {
	abbreviations map[string]bool
}

// New creates a segmenter with the default Norwegian abbreviation set.
func New() *Segmenter {
	return &Segmenter{abbreviations: defaultAbbreviations}
}

// AddAbbreviation registers an extra abbreviation, lowercased and with
// its trailing dot.
func (g *Segmenter) AddAbbreviation(abbr string) {
	if g.abbreviations == nil {
		g.abbreviations = make(map[string]bool)
	}
	abbr = strings.ToLower(abbr)
	if !strings.HasSuffix(abbr, ".") {
		abbr += "."
	}
	g.abbreviations[abbr] = true
}

// Sentences splits text into ordered, trimmed sentences. Sentences
// that trim to nothing are dropped.
func (g *Segmenter) Sentences(text string) []string {
	var out []string
	start := 0

	emit := func(end int) {
		s := strings.TrimSpace(text[start:end])
		if s != "" {
			out = append(out, s)
		}
		start = end
	}

	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])

		// A blank line always forces a break.
		if r == '\n' && i+1 < len(text) && text[i+1] == '\n' {
			j := i
			for j < len(text) && text[j] == '\n' {
				j++
			}
			emit(j)
			i = j
			continue
		}

		if r == '.' || r == '!' || r == '?' || r == '…' {
			if r == '.' && g.isAbbreviation(text, i) {
				i += size
				continue
			}

			// Consume the whole punctuation cluster ("?!", "...").
			j := i + size
			for j < len(text) {
				nr, ns := utf8.DecodeRuneInString(text[j:])
				if nr == '.' || nr == '!' || nr == '?' || nr == '…' {
					j += ns
				} else {
					break
				}
			}

			if startsNewSentence(text, j) {
				emit(j)
			}
			i = j
			continue
		}

		i += size
	}

	if start < len(text) {
		emit(len(text))
	}

	return out
}

// startsNewSentence reports whether pos is followed by whitespace and
// then an uppercase letter or a digit.
func startsNewSentence(text string, pos int) bool {
	i := pos
	sawSpace := false
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			sawSpace = true
			i += size
			continue
		}
		return sawSpace && (unicode.IsUpper(r) || unicode.IsDigit(r))
	}
	return false
}

// isAbbreviation reports whether the dot at dotPos closes a known
// abbreviation or a single-letter initial rather than a sentence.
func (g *Segmenter) isAbbreviation(text string, dotPos int) bool {
	// Walk back over letters and interior dots to capture multi-part
	// abbreviations like "f.eks" before the final dot.
	i := dotPos
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:i])
		if unicode.IsLetter(r) || r == '.' {
			i -= size
		} else {
			break
		}
	}
	word := text[i:dotPos]
	if word == "" || strings.HasSuffix(word, ".") {
		return false
	}

	if g.abbreviations[strings.ToLower(word)+"."] {
		return true
	}

	// Single-letter initials: "H. C. Andersen".
	last := word
	if idx := strings.LastIndex(word, "."); idx >= 0 {
		last = word[idx+1:]
	}
	return utf8.RuneCountInString(last) == 1
}
