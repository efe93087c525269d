package docpipe

import (
	"go.uber.org/zap"

	"github.com/KasperOmsK/docpipe/render"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLabel sets the context label passed to formatters. An empty label
// keeps DefaultLabel.
func WithLabel(label string) Option {
	return func(p *Pipeline) {
		if label != "" {
			p.label = label
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithEngine sets the provider of document-rendering engines. The default
// renders PDF documents with render/pdf.
func WithEngine(provider render.Provider) Option {
	return func(p *Pipeline) {
		p.engine = provider
	}
}

// WithRenderOptions sets the page layout of rendered documents.
func WithRenderOptions(opts render.Options) Option {
	return func(p *Pipeline) {
		p.renderOpts = opts
	}
}
