package render_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KasperOmsK/docpipe/render"
)

func TestDefaultOptions_Valid(t *testing.T) {
	require.NoError(t, render.DefaultOptions().Validate())
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		mutate func(*render.Options)
		want   string
	}{
		"empty page format": {
			mutate: func(o *render.Options) { o.PageFormat = "" },
			want:   "page format is empty",
		},
		"negative top": {
			mutate: func(o *render.Options) { o.Margins.Top = -2 },
			want:   "top margin is negative: -2",
		},
		"negative left": {
			mutate: func(o *render.Options) { o.Margins.Left = -0.5 },
			want:   "left margin is negative: -0.5",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			opts := render.DefaultOptions()
			tc.mutate(&opts)

			err := opts.Validate()
			require.EqualError(t, err, tc.want)
			// errors carry the call site
			require.Contains(t, fmt.Sprintf("%+v", err), "render.Options.Validate")
		})
	}
}

func TestValidate_ZeroMarginsAllowed(t *testing.T) {
	opts := render.DefaultOptions()
	opts.Margins = render.Margins{}
	require.NoError(t, opts.Validate())
}
