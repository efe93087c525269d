package docpipe_test

import (
	"context"
	"io"
	"iter"
	"sync"
	"sync/atomic"

	"github.com/KasperOmsK/docpipe"
	"github.com/KasperOmsK/docpipe/render"
)

func seqOf[T any](values ...T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range values {
			if !yield(v) {
				return
			}
		}
	}
}

var helloWorld = []docpipe.Record{
	{Time: "1000", Value: "hello"},
	{Time: "2000", Value: "world"},
}

// countingSource serves records and optionally fails the call numbered
// failOn (1-based).
type countingSource struct {
	records []docpipe.Record
	failOn  int
	err     error
	calls   int
}

func (s *countingSource) Next(ctx context.Context) (docpipe.Record, error) {
	s.calls++
	if s.calls == s.failOn {
		return docpipe.Record{}, s.err
	}
	i := s.calls - 1
	if i >= len(s.records) {
		return docpipe.Record{}, io.EOF
	}
	return s.records[i], nil
}

// counting wraps f and counts its invocations.
func counting(f docpipe.Formatter, n *atomic.Int32) docpipe.Formatter {
	return func(records []docpipe.Record, label string) (string, error) {
		n.Add(1)
		return f(records, label)
	}
}

// fakeEngines hands out engines that echo their input markup.
type fakeEngines struct {
	mu         sync.Mutex
	acquired   int
	released   int
	renders    int
	markups    []string
	renderErr  error
	releaseErr error
	panicMsg   string
}

func (f *fakeEngines) provider() render.Provider {
	return func(ctx context.Context) (render.Engine, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.acquired++
		return fakeEngine{f}, nil
	}
}

type fakeEngine struct {
	f *fakeEngines
}

func (e fakeEngine) Render(_ context.Context, markup string, _ render.Options) ([]byte, error) {
	e.f.mu.Lock()
	e.f.renders++
	e.f.markups = append(e.f.markups, markup)
	e.f.mu.Unlock()

	if e.f.panicMsg != "" {
		panic(e.f.panicMsg)
	}
	if e.f.renderErr != nil {
		return nil, e.f.renderErr
	}
	return []byte("DOC:" + markup), nil
}

func (e fakeEngine) Release() error {
	e.f.mu.Lock()
	defer e.f.mu.Unlock()
	e.f.released++
	return e.f.releaseErr
}
