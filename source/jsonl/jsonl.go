// Package jsonl provides a docpipe.RecordSource decoding a stream of JSON
// objects, typically one per line.
//
// Each object carries a "time" and a "value" member. Numeric times are kept
// in their literal form; a value that is not a JSON string is kept as its
// JSON encoding, so structured payloads reach field-projecting formatters
// intact.
package jsonl

import (
	"context"
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/KasperOmsK/docpipe"
	"github.com/KasperOmsK/docpipe/internal/jsonx"
)

// Source decodes records from a reader.
type Source struct {
	dec *json.Decoder
	n   int
}

var _ docpipe.RecordSource = (*Source)(nil)

// New returns a Source reading from r.
func New(r io.Reader) *Source {
	return &Source{dec: json.NewDecoder(r)}
}

type line struct {
	Time  json.RawMessage `json:"time"`
	Value json.RawMessage `json:"value"`
}

func (s *Source) Next(ctx context.Context) (docpipe.Record, error) {
	if err := ctx.Err(); err != nil {
		return docpipe.Record{}, err
	}

	var l line
	if err := s.dec.Decode(&l); err != nil {
		if err == io.EOF {
			return docpipe.Record{}, io.EOF
		}
		return docpipe.Record{}, errors.Wrapf(err, "decode record %d", s.n)
	}
	if len(l.Time) == 0 {
		return docpipe.Record{}, errors.Errorf("record %d: missing time", s.n)
	}
	s.n++

	return docpipe.Record{Time: jsonx.Text(l.Time), Value: jsonx.Text(l.Value)}, nil
}
