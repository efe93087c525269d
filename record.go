package docpipe

import (
	"context"
	"io"
	"iter"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/KasperOmsK/docpipe/internal/iterx"
)

// TitleLayout is the layout used to render numeric record timestamps.
const TitleLayout = "2006-01-02 15:04:05 UTC"

// Record is a timestamped unit of input with an opaque payload.
type Record struct {
	Time  string `json:"time"`
	Value string `json:"value"`
}

// Title returns a human-readable rendering of the record's timestamp.
//
// Numeric timestamps are read as Unix epoch milliseconds and rendered in UTC
// using TitleLayout. Any other timestamp is returned verbatim.
func (r Record) Title() string {
	ms, err := strconv.ParseFloat(r.Time, 64)
	if err != nil || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return r.Time
	}
	return time.UnixMilli(int64(ms)).UTC().Format(TitleLayout)
}

// RecordSource yields records one at a time, in emission order.
//
// Next returns io.EOF once the sequence is exhausted. Any other error is a
// fetch failure.
type RecordSource interface {
	Next(ctx context.Context) (Record, error)
}

// SourceFunc adapts a function to the RecordSource interface.
type SourceFunc func(ctx context.Context) (Record, error)

func (f SourceFunc) Next(ctx context.Context) (Record, error) {
	return f(ctx)
}

// SliceSource returns a RecordSource yielding records in order.
func SliceSource(records ...Record) RecordSource {
	return SeqSource(iterx.FromSlice(records))
}

// SeqSource returns a RecordSource pulling records from seq.
//
// seq is started on the first call to Next and stopped as soon as it is
// exhausted.
func SeqSource(seq iter.Seq[Record]) RecordSource {
	return &seqSource{seq: seq}
}

type seqSource struct {
	mu   sync.Mutex
	seq  iter.Seq[Record]
	next func() (Record, bool)
	stop func()
	done bool
}

func (s *seqSource) Next(ctx context.Context) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return Record{}, io.EOF
	}
	if s.next == nil {
		s.next, s.stop = iter.Pull(s.seq)
	}
	r, ok := s.next()
	if !ok {
		s.done = true
		s.stop()
		return Record{}, io.EOF
	}
	return r, nil
}

// ChanSource returns a RecordSource receiving records from ch until it is
// closed.
func ChanSource(ch <-chan Record) RecordSource {
	return SourceFunc(func(ctx context.Context) (Record, error) {
		select {
		case r, ok := <-ch:
			if !ok {
				return Record{}, io.EOF
			}
			return r, nil
		case <-ctx.Done():
			return Record{}, ctx.Err()
		}
	})
}
