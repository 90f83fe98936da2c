package translate

import (
	"encoding/json"
	"io"
	"sync"
)

// PairRecord is one line of the translation-pairs corpus.
type PairRecord struct {
	Original    string `json:"original"`
	Translation string `json:"translation"`
}

// PairSink appends translation pairs as line-delimited JSON. Append
// holds a mutex for the whole encode, so records from concurrent
// producers never interleave.
type PairSink struct {
	mu    sync.Mutex
	enc   *json.Encoder
	count int64
}

// NewPairSink wraps a writer. The caller owns the writer and closes it
// after TranslateAll returns.
func NewPairSink(w io.Writer) *PairSink {
	return &PairSink{enc: json.NewEncoder(w)}
}

// Append writes one record.
func (s *PairSink) Append(original, translation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(PairRecord{Original: original, Translation: translation}); err != nil {
		return err
	}
	s.count++
	return nil
}

// Count returns the number of records written so far.
func (s *PairSink) Count() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}
