// Package translate batches article text through an external machine
// translation engine, amortizing per-invocation startup cost across
// chunks and translating chunks in parallel.
package translate

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/nordtext/bidict/pkg/bidict/internalerr"
)

// DefaultSeparator delimits articles inside a chunk. The marker is a
// nonsense token no rule-based engine has an analysis for, so it
// passes through translation unchanged.
const DefaultSeparator = "\nzqxjqzwvkxjq\n"

// DefaultChunkSize is the number of articles joined into one engine
// invocation.
const DefaultChunkSize = 100

// DefaultWorkers bounds the number of concurrent engine invocations.
const DefaultWorkers = 4

// Translator feeds chunks of articles through an Engine. Chunks are
// independent and translated concurrently; emitted results are
// serialized, so downstream consumers never see interleaved records.
type Translator struct {
	Engine    Engine
	Direction string

	// ChunkSize and Workers fall back to the package defaults when
	// zero. Separator falls back to DefaultSeparator when empty.
	ChunkSize int
	Workers   int
	Separator string

	// SkipFailedChunks switches the partial-failure policy from
	// fail-fast (the default) to skip-and-continue. Skipped chunks
	// are counted and reported through the Logf hook.
	SkipFailedChunks bool

	// Logf, when set, receives progress and warning lines.
	Logf func(format string, args ...any)
}

type chunkJob struct {
	index int
	texts []string
}

// TranslateAll drains the articles channel, translates it in chunks
// and calls emit once per (article, translation) pair. Calls to emit
// are serialized under a single mutex; within a chunk they arrive in
// input order, across chunks in completion order. On the fail-fast
// policy the first chunk error cancels the remaining work and is
// returned.
func (t *Translator) TranslateAll(ctx context.Context, articles <-chan string, emit func(original, translation string) error) error {
	chunkSize := t.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	workers := t.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		emitMu   sync.Mutex
		errMu    sync.Mutex
		firstErr error
		skipped  int
	)
	fail := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		errMu.Unlock()
	}

	jobs := make(chan chunkJob)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if ctx.Err() != nil {
					continue
				}
				translations, err := t.translateChunk(ctx, job.texts)
				if err != nil {
					if t.SkipFailedChunks && ctx.Err() == nil {
						errMu.Lock()
						skipped++
						errMu.Unlock()
						t.logf("chunk %d skipped: %v", job.index, err)
						continue
					}
					fail(fmt.Errorf("chunk %d: %w", job.index, err))
					continue
				}

				emitMu.Lock()
				for k, translation := range translations {
					if err = emit(job.texts[k], translation); err != nil {
						break
					}
				}
				emitMu.Unlock()
				if err != nil {
					fail(err)
				}
			}
		}()
	}

	// Feed consecutive articles into fixed-size chunks.
	index := 0
	buf := make([]string, 0, chunkSize)
	dispatch := func() bool {
		if len(buf) == 0 {
			return true
		}
		texts := make([]string, len(buf))
		copy(texts, buf)
		buf = buf[:0]
		select {
		case jobs <- chunkJob{index: index, texts: texts}:
			index++
			return true
		case <-ctx.Done():
			return false
		}
	}

feed:
	for {
		select {
		case text, ok := <-articles:
			if !ok {
				break feed
			}
			buf = append(buf, text)
			if len(buf) == chunkSize {
				if !dispatch() {
					break feed
				}
			}
		case <-ctx.Done():
			break feed
		}
	}
	dispatch()
	close(jobs)
	wg.Wait()

	if skipped > 0 {
		t.logf("%d chunk(s) skipped after engine failures", skipped)
	}
	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

// translateChunk writes the joined chunk to a temporary file, invokes
// the engine on it, and re-splits the output on the separator. The
// temporary file is removed on every exit path. A segment count that
// differs from the article count means the engine altered or dropped a
// separator; that chunk fails with ErrAlignmentMismatch.
func (t *Translator) translateChunk(ctx context.Context, texts []string) ([]string, error) {
	sep := t.Separator
	if sep == "" {
		sep = DefaultSeparator
	}

	tmp, err := os.CreateTemp("", "bidict-chunk-*.txt")
	if err != nil {
		return nil, fmt.Errorf("create chunk file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.WriteString(strings.Join(texts, sep)); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write chunk file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close chunk file: %w", err)
	}

	out, err := t.Engine.Translate(ctx, t.Direction, path)
	if err != nil {
		return nil, err
	}

	// Engines may rewrap whitespace around the marker; the marker
	// token itself is the framing contract.
	segments := strings.Split(out, strings.TrimSpace(sep))
	if len(segments) != len(texts) {
		return nil, fmt.Errorf("%w: %d articles in, %d segments out",
			internalerr.ErrAlignmentMismatch, len(texts), len(segments))
	}
	for i := range segments {
		segments[i] = strings.TrimSpace(segments[i])
	}

	return segments, nil
}

func (t *Translator) logf(format string, args ...any) {
	if t.Logf != nil {
		t.Logf(format, args...)
	}
}
