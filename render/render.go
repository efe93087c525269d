// Package render defines the contract between a docpipe pipeline and the
// engine that turns styled markup into a paginated document.
//
// Engines are acquired from a Provider once per document resolution and must
// be released afterwards, whether rendering succeeded or not.
package render

import (
	"context"

	"github.com/pkg/errors"
)

// Margins are page margins in millimetres.
type Margins struct {
	Top    float64 `mapstructure:"top"`
	Right  float64 `mapstructure:"right"`
	Bottom float64 `mapstructure:"bottom"`
	Left   float64 `mapstructure:"left"`
}

// Options control the page layout of a rendered document.
type Options struct {
	// PageFormat is a named paper size such as "A4" or "Letter".
	PageFormat string  `mapstructure:"page_format"`
	Margins    Margins `mapstructure:"margins"`

	// PrintBackgrounds enables background fills defined by the markup.
	PrintBackgrounds bool `mapstructure:"print_backgrounds"`
}

// DefaultOptions returns A4 pages with 10mm margins and backgrounds enabled.
func DefaultOptions() Options {
	return Options{
		PageFormat:       "A4",
		Margins:          Margins{Top: 10, Right: 10, Bottom: 10, Left: 10},
		PrintBackgrounds: true,
	}
}

// Validate reports options that no engine could honor.
func (o Options) Validate() error {
	if o.PageFormat == "" {
		return errors.New("page format is empty")
	}
	for name, v := range map[string]float64{
		"top":    o.Margins.Top,
		"right":  o.Margins.Right,
		"bottom": o.Margins.Bottom,
		"left":   o.Margins.Left,
	} {
		if v < 0 {
			return errors.Errorf("%s margin is negative: %v", name, v)
		}
	}
	return nil
}

// Engine renders styled markup into document bytes.
type Engine interface {
	Render(ctx context.Context, markup string, opts Options) ([]byte, error)

	// Release frees the engine. It is called exactly once per acquired
	// engine, after the last Render.
	Release() error
}

// Provider acquires a fresh Engine.
type Provider func(ctx context.Context) (Engine, error)
