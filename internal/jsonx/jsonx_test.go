package jsonx_test

import (
	"encoding/json"
	"testing"

	"github.com/KasperOmsK/docpipe/internal/jsonx"

	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	cases := map[string]struct {
		raw  json.RawMessage
		want string
	}{
		"absent":       {raw: nil, want: ""},
		"null":         {raw: json.RawMessage(`null`), want: ""},
		"string":       {raw: json.RawMessage(`"a \"b\""`), want: `a "b"`},
		"number":       {raw: json.RawMessage(`1.50`), want: "1.50"},
		"object":       {raw: json.RawMessage(`{"k":[1,2]}`), want: `{"k":[1,2]}`},
		"empty string": {raw: json.RawMessage(`""`), want: ""},
		"bool":         {raw: json.RawMessage(`true`), want: "true"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.want, jsonx.Text(tc.raw))
		})
	}
}
