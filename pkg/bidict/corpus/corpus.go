// Package corpus reads gzip-compressed, line-delimited JSON wiki
// dumps. Each line is an object carrying at least a text field.
package corpus

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
)

// MinArticleLen is the admission threshold: an article is admitted
// only when its text is longer than this many bytes.
const MinArticleLen = 100

// maxLineSize bounds a single dump line. Wiki articles run long but
// stay well under this.
const maxLineSize = 16 << 20

// Record is one admitted dump line.
type Record struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Reader streams admitted records from a dump file. Malformed lines
// and articles under the admission threshold are skipped and counted,
// never aborting the pass.
type Reader struct {
	f  *os.File
	gz *gzip.Reader
	sc *bufio.Scanner

	malformed int64
	rejected  int64
}

// Open opens a gzip-compressed dump for streaming.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	sc := bufio.NewScanner(gz)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)

	return &Reader{f: f, gz: gz, sc: sc}, nil
}

// Next returns the next admitted record, or io.EOF when the dump is
// exhausted.
func (r *Reader) Next() (Record, error) {
	for r.sc.Scan() {
		line := r.sc.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			r.malformed++
			continue
		}
		if len(rec.Text) <= MinArticleLen {
			r.rejected++
			continue
		}
		return rec, nil
	}
	if err := r.sc.Err(); err != nil {
		return Record{}, err
	}
	return Record{}, io.EOF
}

// Malformed returns the number of unparsable lines skipped so far.
func (r *Reader) Malformed() int64 { return r.malformed }

// Rejected returns the number of parsed lines that failed admission.
func (r *Reader) Rejected() int64 { return r.rejected }

// Close releases the underlying file.
func (r *Reader) Close() error {
	gzErr := r.gz.Close()
	if err := r.f.Close(); err != nil {
		return err
	}
	return gzErr
}
