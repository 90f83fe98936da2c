// Package bidict induces a bilingual dictionary between two closely
// related language varieties by translating a corpus through an
// external MT engine, aligning each sentence with its translation, and
// statistically filtering the harvested discrepancies.
package bidict

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/nordtext/bidict/pkg/bidict/aggregate"
	"github.com/nordtext/bidict/pkg/bidict/align"
	"github.com/nordtext/bidict/pkg/bidict/corpus"
	"github.com/nordtext/bidict/pkg/bidict/segment"
	"github.com/nordtext/bidict/pkg/bidict/store"
	"github.com/nordtext/bidict/pkg/bidict/translate"
)

// Options configures a Builder.
type Options struct {
	Engine    translate.Engine
	Direction string

	ChunkSize        int
	Workers          int
	Separator        string
	SkipFailedChunks bool

	Filters aggregate.Filters

	// Limit caps the number of admitted articles; zero means all.
	Limit int

	// Store, when set, receives the run record and its finalized
	// dictionary in addition to the output writer.
	Store store.Store

	// Segmenter falls back to segment.New() when nil.
	Segmenter *segment.Segmenter

	// Logf, when set, receives progress and warning lines.
	Logf func(format string, args ...any)
}

// Builder is the corpus-pass orchestrator.
type Builder struct {
	opts      Options
	segmenter *segment.Segmenter
	entropy   *ulid.MonotonicEntropy
}

// New creates a Builder with the given dependencies.
func New(opts Options) *Builder {
	seg := opts.Segmenter
	if seg == nil {
		seg = segment.New()
	}
	return &Builder{
		opts:      opts,
		segmenter: seg,
		entropy:   ulid.Monotonic(rand.Reader, 0),
	}
}

// Summary reports what one pass did.
type Summary struct {
	RunID     string
	Direction string
	Articles  int64
	Entries   int
	Malformed int64
	Rejected  int64
}

// BuildDictionary runs the full dictionary-building pass: stream
// admitted articles from the dump, translate them in chunks, align
// every sentence with its translation, aggregate the candidate pairs,
// and write the filtered dictionary to out.
//
// Aggregation is serialized by the translator's emit discipline: one
// article's pairs are fully folded in before the next article's, even
// though chunks translate concurrently.
func (b *Builder) BuildDictionary(ctx context.Context, r *corpus.Reader, out io.Writer) (Summary, error) {
	// The derived context releases the stream goroutine on any exit.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runID := ulid.MustNew(ulid.Now(), b.entropy).String()
	startedAt := time.Now()
	b.logf("run %s: building %s dictionary", runID, b.opts.Direction)

	agg := aggregate.New()
	err := b.translator().TranslateAll(ctx, b.stream(ctx, r), func(original, translation string) error {
		agg.Update(b.alignArticle(original, translation))
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	entries := agg.Finalize(b.opts.Filters)
	if err := aggregate.Write(out, entries); err != nil {
		return Summary{}, fmt.Errorf("write dictionary: %w", err)
	}

	summary := Summary{
		RunID:     runID,
		Direction: b.opts.Direction,
		Articles:  agg.Articles(),
		Entries:   len(entries),
		Malformed: r.Malformed(),
		Rejected:  r.Rejected(),
	}

	if b.opts.Store != nil {
		run := store.Run{
			ID:        runID,
			Direction: b.opts.Direction,
			Articles:  agg.Articles(),
			StartedAt: startedAt,
		}
		if err := b.opts.Store.SaveRun(ctx, run); err != nil {
			return Summary{}, fmt.Errorf("save run: %w", err)
		}
		if err := b.opts.Store.SaveEntries(ctx, runID, entries); err != nil {
			return Summary{}, fmt.Errorf("save entries: %w", err)
		}
	}

	b.logf("run %s: %d articles, %d entries, %d malformed lines skipped",
		runID, summary.Articles, summary.Entries, summary.Malformed)
	return summary, nil
}

// BuildPairCorpus runs the translation-corpus pass: translate admitted
// articles and append {original, translation} records to w.
func (b *Builder) BuildPairCorpus(ctx context.Context, r *corpus.Reader, w io.Writer) (Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runID := ulid.MustNew(ulid.Now(), b.entropy).String()
	b.logf("run %s: building %s translation corpus", runID, b.opts.Direction)

	sink := translate.NewPairSink(w)
	if err := b.translator().TranslateAll(ctx, b.stream(ctx, r), sink.Append); err != nil {
		return Summary{}, err
	}

	summary := Summary{
		RunID:     runID,
		Direction: b.opts.Direction,
		Articles:  sink.Count(),
		Malformed: r.Malformed(),
		Rejected:  r.Rejected(),
	}
	b.logf("run %s: %d pairs written", runID, summary.Articles)
	return summary, nil
}

// alignArticle segments both sides and collects candidate pairs from
// sentences paired by position. When the two sides disagree on
// sentence count, the unpaired tail is dropped as noise, mirroring how
// the aligner treats unequal substitution blocks.
func (b *Builder) alignArticle(original, translation string) []align.Pair {
	src := b.segmenter.Sentences(original)
	dst := b.segmenter.Sentences(translation)

	n := len(src)
	if len(dst) < n {
		n = len(dst)
	}

	var pairs []align.Pair
	for i := 0; i < n; i++ {
		pairs = append(pairs, align.Pairs(src[i], dst[i])...)
	}
	return pairs
}

// stream feeds admitted article texts into a channel, honoring the
// article limit. Read errors end the stream; the dump reader's own
// skip counters account for malformed lines.
func (b *Builder) stream(ctx context.Context, r *corpus.Reader) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		count := 0
		for {
			if b.opts.Limit > 0 && count >= b.opts.Limit {
				return
			}
			rec, err := r.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				b.logf("dump read aborted: %v", err)
				return
			}
			select {
			case out <- rec.Text:
				count++
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (b *Builder) translator() *translate.Translator {
	return &translate.Translator{
		Engine:           b.opts.Engine,
		Direction:        b.opts.Direction,
		ChunkSize:        b.opts.ChunkSize,
		Workers:          b.opts.Workers,
		Separator:        b.opts.Separator,
		SkipFailedChunks: b.opts.SkipFailedChunks,
		Logf:             b.opts.Logf,
	}
}

func (b *Builder) logf(format string, args ...any) {
	if b.opts.Logf != nil {
		b.opts.Logf(format, args...)
	}
}
