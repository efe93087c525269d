package docpipe

import (
	"bytes"
	"context"
	"iter"
	"slices"
	"sync"
	"time"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KasperOmsK/docpipe/internal/iterx"
	"github.com/KasperOmsK/docpipe/render"
	"github.com/KasperOmsK/docpipe/render/pdf"
)

// Output is the resolved value of one stage.
//
// Records is set for RawRecords; Data holds the text, markup or document
// bytes of the other stages. Both are copies owned by the caller.
type Output struct {
	Stage   Stage
	Data    []byte
	Records []Record
}

// Seq returns the records of a RawRecords output as a sequence.
func (o Output) Seq() iter.Seq[Record] {
	return iterx.FromSlice(o.Records)
}

// Pipeline converts the records of a source into structured text, styled
// markup or a paginated document.
//
// Stage-selection methods only register deferred computations and can be
// called in any order; each stage is registered at most once and every
// formatter and the rendering engine run at most once per pipeline, however
// many times the pipeline is resolved. A Pipeline is safe for concurrent use.
type Pipeline struct {
	label      string
	records    *Deferred[[]Record]
	engine     render.Provider
	renderOpts render.Options
	log        *zap.Logger
	metrics    *Metrics

	mu     sync.Mutex
	stages map[Stage]*Deferred[[]byte]
}

// New returns a pipeline over the records of src. The source is not read
// until the pipeline is resolved.
func New(src RecordSource, opts ...Option) *Pipeline {
	p := &Pipeline{
		label:      DefaultLabel,
		engine:     pdf.Provider(),
		renderOpts: render.DefaultOptions(),
		log:        zap.NewNop(),
		stages:     make(map[Stage]*Deferred[[]byte]),
	}
	for _, o := range opts {
		o(p)
	}
	p.records = collect(src, p.log, p.metrics)
	return p
}

// StructuredText selects the structured-text stage, rendered by f or by
// DefaultStructuredText when f is nil. Selecting it again has no effect.
func (p *Pipeline) StructuredText(f Formatter) *Pipeline {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selectFormatted(StructuredText, f, DefaultStructuredText)
	return p
}

// StyledMarkup selects the styled-markup stage, rendered by f or by
// DefaultStyledMarkup when f is nil. Selecting it again has no effect.
func (p *Pipeline) StyledMarkup(f Formatter) *Pipeline {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selectFormatted(StyledMarkup, f, DefaultStyledMarkup)
	return p
}

// PaginatedDocument selects the paginated-document stage.
//
// The document is rendered from styled markup when that stage is selected.
// Otherwise, if structured text is selected, the text is wrapped with
// WrapTextAsMarkup and rendered. With neither selected, the default styled
// markup stage is selected first. Selecting it again has no effect.
func (p *Pipeline) PaginatedDocument() *Pipeline {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.registered(PaginatedDocument) {
		return p
	}

	upstream, wrap := p.stages[StyledMarkup], false
	if upstream == nil {
		if text := p.stages[StructuredText]; text != nil {
			upstream, wrap = text, true
		} else {
			p.selectFormatted(StyledMarkup, nil, DefaultStyledMarkup)
			upstream = p.stages[StyledMarkup]
		}
	}

	p.stages[PaginatedDocument] = Then(upstream, func(ctx context.Context, in []byte) ([]byte, error) {
		return p.run(PaginatedDocument, func() ([]byte, error) {
			markup := string(in)
			if wrap {
				markup = WrapTextAsMarkup(markup, p.label)
			}
			return p.renderDocument(ctx, markup)
		})
	})
	p.log.Debug("stage selected", zap.Stringer("stage", PaginatedDocument), zap.Bool("from_text", wrap))
	return p
}

// Selected returns the selected stages in ascending precedence.
func (p *Pipeline) Selected() []Stage {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []Stage
	for _, s := range []Stage{StructuredText, StyledMarkup, PaginatedDocument} {
		if p.registered(s) {
			out = append(out, s)
		}
	}
	return out
}

// Materialize resolves the pipeline's terminal stage: the paginated document
// if selected, else the styled markup, else the structured text, else the
// raw records.
//
// Materialize may be called any number of times; later calls return the
// memoized result of the first. A call cut short by the end of ctx returns
// the context's error, unlabeled, and memoizes nothing: a later call with a
// live context carries on with the same source.
func (p *Pipeline) Materialize(ctx context.Context) (Output, error) {
	terminal := RawRecords
	if sel := p.Selected(); len(sel) > 0 {
		terminal = sel[len(sel)-1]
	}
	return p.Stage(ctx, terminal)
}

// Stage resolves a single stage. RawRecords is always available; any other
// stage must have been selected.
func (p *Pipeline) Stage(ctx context.Context, s Stage) (Output, error) {
	if s == RawRecords {
		records, err := p.records.Await(ctx)
		if err != nil {
			return Output{}, err
		}
		return Output{Stage: RawRecords, Records: slices.Clone(records)}, nil
	}

	p.mu.Lock()
	d := p.stages[s]
	p.mu.Unlock()
	if d == nil {
		return Output{}, errors.Wrap(ErrStageNotSelected, s.String())
	}

	data, err := d.Await(ctx)
	if err != nil {
		return Output{}, err
	}
	return Output{Stage: s, Data: bytes.Clone(data)}, nil
}

// Outputs resolves the raw records and every selected stage concurrently.
func (p *Pipeline) Outputs(ctx context.Context) (map[Stage]Output, error) {
	stages := append([]Stage{RawRecords}, p.Selected()...)
	outs := make([]Output, len(stages))

	// A plain group: a failing stage must not cancel computations that
	// other stages share.
	var g errgroup.Group
	for i, s := range stages {
		g.Go(func() error {
			o, err := p.Stage(ctx, s)
			outs[i] = o
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := make(map[Stage]Output, len(outs))
	for _, o := range outs {
		res[o.Stage] = o
	}
	return res, nil
}

// registered must be called with p.mu held.
func (p *Pipeline) registered(s Stage) bool {
	_, ok := p.stages[s]
	return ok
}

// selectFormatted must be called with p.mu held.
func (p *Pipeline) selectFormatted(s Stage, f, def Formatter) {
	if p.registered(s) {
		p.log.Debug("stage already selected", zap.Stringer("stage", s))
		return
	}
	if f == nil {
		f = def
	}
	label := p.label
	p.stages[s] = Then(p.records, func(_ context.Context, records []Record) ([]byte, error) {
		return p.run(s, func() ([]byte, error) {
			out, err := f(records, label)
			if err != nil {
				return nil, &StageError{Stage: s, Kind: ErrFormat, Err: err}
			}
			return []byte(out), nil
		})
	})
	p.log.Debug("stage selected", zap.Stringer("stage", s))
}

func (p *Pipeline) run(s Stage, fn func() ([]byte, error)) ([]byte, error) {
	p.metrics.computed(s)
	p.log.Debug("computing stage", zap.Stringer("stage", s))

	out, err := fn()
	if err != nil {
		p.metrics.failed(s)
		p.log.Debug("stage failed", zap.Stringer("stage", s), zap.Error(err))
		return nil, err
	}

	p.log.Debug("stage computed", zap.Stringer("stage", s), zap.Int("bytes", len(out)))
	return out, nil
}

// renderDocument acquires an engine, renders markup and releases the engine
// on every path, including a panicking Render.
func (p *Pipeline) renderDocument(ctx context.Context, markup string) (doc []byte, err error) {
	if p.engine == nil {
		return nil, &StageError{Stage: PaginatedDocument, Kind: ErrRender, Err: ErrNoEngine}
	}

	eng, err := p.engine(ctx)
	if err != nil && interrupted(ctx, err) {
		return nil, errors.Wrap(err, "acquire engine")
	}
	if err != nil {
		return nil, &StageError{Stage: PaginatedDocument, Kind: ErrRender, Err: errors.Wrap(err, "acquire engine")}
	}
	p.log.Debug("engine acquired")

	var renderErr error
	defer func() {
		relErr := eng.Release()
		if relErr != nil {
			p.log.Warn("engine release failed", zap.Error(relErr))
		} else {
			p.log.Debug("engine released")
		}
		if renderErr == nil {
			return
		}
		cause := renderErr
		if relErr != nil {
			cause = multierror.Append(renderErr, errors.Wrap(relErr, "release engine"))
		}
		doc, err = nil, &StageError{Stage: PaginatedDocument, Kind: ErrRender, Err: cause}
	}()

	start := time.Now()
	doc, renderErr = eng.Render(ctx, markup, p.renderOpts)
	p.metrics.rendered(time.Since(start))
	return doc, nil
}
