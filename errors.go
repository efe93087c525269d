package docpipe

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/KasperOmsK/docpipe/internal/iterx"
)

var (
	// ErrFetch marks failures of the upstream record source.
	ErrFetch = errors.New("fetch failed")
	// ErrFormat marks failures of a formatter.
	ErrFormat = errors.New("format failed")
	// ErrRender marks failures of the document-rendering engine.
	ErrRender = errors.New("render failed")
	// ErrStageNotSelected is returned when resolving a stage that was never
	// selected on the pipeline.
	ErrStageNotSelected = errors.New("stage not selected")
	// ErrNoEngine is the render failure cause when no engine provider is
	// configured.
	ErrNoEngine = errors.New("no rendering engine configured")
)

// StageError reports which stage of a pipeline failed.
//
// It matches both its Kind (ErrFetch, ErrFormat or ErrRender) and its cause
// with errors.Is.
type StageError struct {
	Stage Stage
	Kind  error
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v: %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// RecordError reports the record a formatter failed on.
type RecordError struct {
	Index  int
	Record Record
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d (time %q): %v", e.Index, e.Record.Time, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

func recordError(err error) error {
	var itemErr *iterx.ItemError
	if !errors.As(err, &itemErr) {
		return err
	}
	rec, _ := itemErr.Item.(Record)
	return &RecordError{Index: itemErr.Index, Record: rec, Err: itemErr.Reason}
}
