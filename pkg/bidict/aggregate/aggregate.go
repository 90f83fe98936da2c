// Package aggregate accumulates corpus-wide statistics over candidate
// pairs and produces the filtered, ranked dictionary.
package aggregate

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/nordtext/bidict/pkg/bidict/align"
)

type pairKey struct {
	Source, Target string
}

// Aggregator maintains term-frequency and document-frequency counts
// for candidate pairs and for their collapsed source/target sides.
//
// The aggregator is a single-writer structure: one article's pairs are
// fully folded in before the next article begins, so that term and
// document frequencies for the same pair stay consistent. Callers that
// feed it from concurrent producers must serialize Update calls.
type Aggregator struct {
	articles int64

	pairTF map[pairKey]int64
	pairDF map[pairKey]int64

	srcTF map[string]int64
	srcDF map[string]int64
	trgTF map[string]int64
	trgDF map[string]int64
}

// New creates an empty aggregator.
func New() *Aggregator {
	return &Aggregator{
		pairTF: make(map[pairKey]int64),
		pairDF: make(map[pairKey]int64),
		srcTF:  make(map[string]int64),
		srcDF:  make(map[string]int64),
		trgTF:  make(map[string]int64),
		trgDF:  make(map[string]int64),
	}
}

// Update folds one article's candidate pairs into the aggregate.
// Every occurrence counts toward term frequency; document frequency
// increments at most once per distinct pair (and per distinct source
// or target token) per article. The article counter increments once
// per call, pairs or no pairs.
func (a *Aggregator) Update(pairs []align.Pair) {
	a.articles++

	seenPair := make(map[pairKey]struct{}, len(pairs))
	seenSrc := make(map[string]struct{}, len(pairs))
	seenTrg := make(map[string]struct{}, len(pairs))

	for _, p := range pairs {
		k := pairKey{Source: p.Source, Target: p.Target}
		a.pairTF[k]++
		a.srcTF[p.Source]++
		a.trgTF[p.Target]++

		if _, ok := seenPair[k]; !ok {
			seenPair[k] = struct{}{}
			a.pairDF[k]++
		}
		if _, ok := seenSrc[p.Source]; !ok {
			seenSrc[p.Source] = struct{}{}
			a.srcDF[p.Source]++
		}
		if _, ok := seenTrg[p.Target]; !ok {
			seenTrg[p.Target] = struct{}{}
			a.trgDF[p.Target]++
		}
	}
}

// Articles returns the number of Update calls seen so far.
func (a *Aggregator) Articles() int64 { return a.articles }

// PairTF returns the total occurrence count for a pair.
func (a *Aggregator) PairTF(source, target string) int64 {
	return a.pairTF[pairKey{Source: source, Target: target}]
}

// PairDF returns the number of distinct articles a pair occurred in.
func (a *Aggregator) PairDF(source, target string) int64 {
	return a.pairDF[pairKey{Source: source, Target: target}]
}

// SourceTF returns the total occurrence count of a source token,
// collapsed over all targets.
func (a *Aggregator) SourceTF(source string) int64 { return a.srcTF[source] }

// SourceDF returns the number of distinct articles a source token
// occurred in, collapsed over all targets.
func (a *Aggregator) SourceDF(source string) int64 { return a.srcDF[source] }

// Filters controls which tokens survive finalization. A token is
// dropped when it is too rare to be reliable (term frequency below the
// minimum) or too common to be a content word (document-frequency
// ratio above the maximum).
type Filters struct {
	SourceMinTF      int64
	SourceMaxDFRatio float64
	TransMinTF       int64
	TransMaxDFRatio  float64

	// TopN caps the ranked target list per source token. Zero or
	// negative keeps all survivors.
	TopN int
}

// Translation is one ranked target for a dictionary entry.
type Translation struct {
	Target string `json:"target"`
	Freq   int64  `json:"freq"`
}

// Entry is one dictionary record: a source token and its ranked
// surviving targets.
type Entry struct {
	Source  string        `json:"source"`
	Targets []Translation `json:"targets"`
}

// Finalize applies the filters to the accumulated statistics and
// returns the dictionary, sorted by source token. Targets within an
// entry are sorted by descending frequency, ties broken by ascending
// target token, so the output is reproducible. Finalize is a read-only
// pass; the aggregate is not modified.
func (a *Aggregator) Finalize(f Filters) []Entry {
	if a.articles == 0 {
		return nil
	}
	total := float64(a.articles)

	bySource := make(map[string][]pairKey)
	for k := range a.pairTF {
		bySource[k.Source] = append(bySource[k.Source], k)
	}

	sources := make([]string, 0, len(bySource))
	for s := range bySource {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	var entries []Entry
	for _, s := range sources {
		if a.srcTF[s] < f.SourceMinTF {
			continue
		}
		if float64(a.srcDF[s])/total > f.SourceMaxDFRatio {
			continue
		}

		var targets []Translation
		for _, k := range bySource[s] {
			if a.trgTF[k.Target] < f.TransMinTF {
				continue
			}
			if float64(a.trgDF[k.Target])/total > f.TransMaxDFRatio {
				continue
			}
			targets = append(targets, Translation{Target: k.Target, Freq: a.pairTF[k]})
		}
		if len(targets) == 0 {
			continue
		}

		sort.Slice(targets, func(i, j int) bool {
			if targets[i].Freq != targets[j].Freq {
				return targets[i].Freq > targets[j].Freq
			}
			return targets[i].Target < targets[j].Target
		})
		if f.TopN > 0 && len(targets) > f.TopN {
			targets = targets[:f.TopN]
		}

		entries = append(entries, Entry{Source: s, Targets: targets})
	}

	return entries
}

// Write serializes dictionary entries as line-delimited JSON, one
// record per source token, in the order Finalize produced them.
func Write(w io.Writer, entries []Entry) error {
	enc := json.NewEncoder(w)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}
