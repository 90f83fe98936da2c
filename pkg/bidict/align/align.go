// Package align extracts candidate word pairs from a sentence and its
// machine translation. For closely related language varieties, word
// order and count are mostly preserved, so the token sequences are
// anchored on their longest common subsequence and everything between
// anchors is treated as a substitution block.
package align

// Pair is a single lexical discrepancy between a source sentence and
// its translation. Source and Target always differ.
type Pair struct {
	Source string
	Target string
}

// Pairs aligns a source sentence with its translation and returns the
// candidate pairs found in clean substitution blocks. Blocks with a
// different number of tokens on the two sides are insertions or
// deletions, not substitutions, and are discarded as noise. Identical
// sentences and empty sentences yield no candidates.
//
// Pairs is a pure function of its inputs and is safe to call
// concurrently.
func Pairs(source, translation string) []Pair {
	src := Tokenize(source)
	dst := Tokenize(translation)
	if len(src) == 0 || len(dst) == 0 {
		return nil
	}

	n, m := len(src), len(dst)

	// dp[i][j] holds the LCS length of src[i:] and dst[j:].
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if src[i].Text == dst[j].Text {
				dp[i][j] = dp[i+1][j+1] + 1
			} else if dp[i+1][j] >= dp[i][j+1] {
				dp[i][j] = dp[i+1][j]
			} else {
				dp[i][j] = dp[i][j+1]
			}
		}
	}

	var out []Pair
	i, j := 0, 0
	gi, gj := 0, 0 // start of the current unmatched block
	for i < n && j < m {
		if src[i].Text == dst[j].Text && dp[i][j] == dp[i+1][j+1]+1 {
			out = appendBlock(out, src[gi:i], dst[gj:j])
			i++
			j++
			gi, gj = i, j
		} else if dp[i+1][j] >= dp[i][j+1] {
			i++
		} else {
			j++
		}
	}
	out = appendBlock(out, src[gi:], dst[gj:])

	return out
}

// appendBlock emits position-wise pairs from one substitution block.
// Only blocks of equal length on both sides are resolved; within them,
// punctuation and numeric tokens are anchors, not candidates.
func appendBlock(out []Pair, src, dst []Token) []Pair {
	if len(src) == 0 || len(src) != len(dst) {
		return out
	}
	for k := range src {
		s, t := src[k], dst[k]
		if s.Class != Word || t.Class != Word {
			continue
		}
		if s.Text == t.Text {
			continue
		}
		out = append(out, Pair{Source: s.Text, Target: t.Text})
	}
	return out
}
