// Package pdf implements a render.Engine producing PDF documents with fpdf.
//
// The engine understands the block structure of the markup produced by
// docpipe (headings, paragraphs, list items, preformatted text and
// horizontal rules); inline styling is ignored.
package pdf

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	"golang.org/x/net/html"

	"github.com/KasperOmsK/docpipe/render"
)

// ErrReleased is returned by Render once the engine has been released.
var ErrReleased = errors.New("pdf engine already released")

type config struct {
	clock func() time.Time
	font  string
}

// Option configures engines created by Provider.
type Option func(*config)

// WithClock sets the time source for the document creation and
// modification dates. By default both dates are the Unix epoch, so identical
// markup always renders identical bytes.
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithFont sets the core font family used for body text.
func WithFont(family string) Option {
	return func(c *config) {
		c.font = family
	}
}

func epoch() time.Time {
	return time.Unix(0, 0).UTC()
}

// Provider returns a render.Provider handing out a new Engine on each call.
func Provider(opts ...Option) render.Provider {
	cfg := config{
		clock: epoch,
		font:  "Helvetica",
	}
	for _, o := range opts {
		o(&cfg)
	}
	return func(ctx context.Context) (render.Engine, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &Engine{cfg: cfg}, nil
	}
}

// Engine renders markup into a PDF document.
type Engine struct {
	cfg config

	mu       sync.Mutex
	released bool
}

var _ render.Engine = (*Engine)(nil)

func (e *Engine) Render(ctx context.Context, markup string, opts render.Options) ([]byte, error) {
	e.mu.Lock()
	released := e.released
	e.mu.Unlock()
	if released {
		return nil, ErrReleased
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid render options")
	}

	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, errors.Wrap(err, "parse markup")
	}
	title, blocks := extractBlocks(root)

	doc := fpdf.New("P", "mm", opts.PageFormat, "")
	if doc.Err() {
		return nil, errors.Wrap(doc.Error(), "create document")
	}
	now := e.cfg.clock()
	doc.SetCreationDate(now)
	doc.SetModificationDate(now)
	doc.SetCatalogSort(true)
	doc.SetMargins(opts.Margins.Left, opts.Margins.Top, opts.Margins.Right)
	doc.SetAutoPageBreak(true, opts.Margins.Bottom)
	if title != "" {
		doc.SetTitle(title, true)
	}

	l := layout{doc: doc, font: e.cfg.font, backgrounds: opts.PrintBackgrounds, tr: doc.UnicodeTranslatorFromDescriptor("")}
	doc.AddPage()
	for _, b := range blocks {
		l.write(b)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "write document")
	}
	return buf.Bytes(), nil
}

func (e *Engine) Release() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.released {
		return ErrReleased
	}
	e.released = true
	return nil
}

type layout struct {
	doc         *fpdf.Fpdf
	font        string
	backgrounds bool
	tr          func(string) string
}

func (l layout) write(b block) {
	switch b.kind {
	case heading1:
		l.heading(b.text, 18, 9)
	case heading2:
		l.heading(b.text, 14, 7)
	case heading3:
		l.heading(b.text, 12, 6)
	case listItem:
		l.doc.SetFont(l.font, "", 11)
		l.doc.MultiCell(0, 5.5, l.tr("- "+b.text), "", "L", false)
	case preformatted:
		l.doc.SetFont("Courier", "", 10)
		l.doc.MultiCell(0, 5, l.tr(b.text), "", "L", false)
		l.doc.Ln(2)
	case rule:
		l.doc.Ln(2)
		w, _ := l.doc.GetPageSize()
		left, _, right, _ := l.doc.GetMargins()
		y := l.doc.GetY()
		l.doc.Line(left, y, w-right, y)
		l.doc.Ln(2)
	default:
		l.doc.SetFont(l.font, "", 11)
		l.doc.MultiCell(0, 5.5, l.tr(b.text), "", "L", false)
		l.doc.Ln(2)
	}
}

func (l layout) heading(text string, size, height float64) {
	l.doc.SetFont(l.font, "B", size)
	if l.backgrounds {
		l.doc.SetFillColor(235, 235, 235)
	}
	l.doc.MultiCell(0, height, l.tr(text), "", "L", l.backgrounds)
	l.doc.Ln(1)
}
