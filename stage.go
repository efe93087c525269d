package docpipe

import (
	"strings"

	"github.com/pkg/errors"
)

// Stage identifies one of the output representations of a pipeline.
//
// Stages are ordered by resolution precedence: when several are selected,
// Materialize resolves the greatest one.
type Stage int

const (
	RawRecords Stage = iota
	StructuredText
	StyledMarkup
	PaginatedDocument
)

var stageNames = [...]string{
	RawRecords:        "raw records",
	StructuredText:    "structured text",
	StyledMarkup:      "styled markup",
	PaginatedDocument: "paginated document",
}

var stageAliases = map[string]Stage{
	"raw":      RawRecords,
	"records":  RawRecords,
	"text":     StructuredText,
	"markup":   StyledMarkup,
	"html":     StyledMarkup,
	"document": PaginatedDocument,
	"pdf":      PaginatedDocument,
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// ParseStage returns the stage named by name, accepting both the String form
// and the short aliases raw, records, text, markup, html, document and pdf.
func ParseStage(name string) (Stage, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if s, ok := stageAliases[n]; ok {
		return s, nil
	}
	for i, sn := range stageNames {
		if sn == n {
			return Stage(i), nil
		}
	}
	return 0, errors.Errorf("unknown stage %q", name)
}
