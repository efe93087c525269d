package docpipe

import (
	"encoding/json"
	"strings"

	"github.com/KasperOmsK/docpipe/internal/jsonx"
)

// FallbackField is the field name under which an unparseable payload is
// rendered by the field-projecting formatters.
const FallbackField = "value"

type field struct {
	Name  string
	Value string
}

// payload is the parsed form of a record value: either the members of a
// JSON object, or the raw text when the value is not a JSON object.
type payload struct {
	fields   map[string]json.RawMessage
	fallback string
}

func parsePayload(value string) payload {
	var m map[string]json.RawMessage
	if err := json.Unmarshal([]byte(value), &m); err != nil || m == nil {
		return payload{fallback: value}
	}
	return payload{fields: m}
}

func (p payload) parsed() bool {
	return p.fields != nil
}

// project returns the requested fields in order. Absent and null members are
// empty; strings are unquoted and other JSON values keep their encoding.
// A fallback payload yields the single FallbackField.
func (p payload) project(names []string) []field {
	if !p.parsed() {
		return []field{{Name: FallbackField, Value: p.fallback}}
	}
	out := make([]field, 0, len(names))
	for _, name := range names {
		out = append(out, field{Name: name, Value: jsonx.Text(p.fields[name])})
	}
	return out
}

// StructuredTextFields returns a Formatter rendering, for each record, a
// titled section listing only the given payload fields, one per line.
//
// Record values that are not JSON objects are rendered as a single
// FallbackField line; the formatter never fails on payload data.
func StructuredTextFields(fields ...string) Formatter {
	names := append([]string(nil), fields...)
	return func(records []Record, _ string) (string, error) {
		sections, err := eachRecord(records, func(r Record) (string, error) {
			var sb strings.Builder
			sb.WriteString("## ")
			sb.WriteString(r.Title())
			sb.WriteString("\n")
			for _, f := range parsePayload(r.Value).project(names) {
				sb.WriteString("\n- ")
				sb.WriteString(f.Name)
				sb.WriteString(": ")
				sb.WriteString(f.Value)
			}
			return sb.String(), nil
		})
		if err != nil {
			return "", err
		}
		return strings.Join(sections, textDivider), nil
	}
}

// StyledMarkupFields is the markup counterpart of StructuredTextFields: each
// record becomes a section with a bullet list of the given fields.
func StyledMarkupFields(fields ...string) Formatter {
	names := append([]string(nil), fields...)
	return func(records []Record, label string) (string, error) {
		sections, err := eachRecord(records, func(r Record) (string, error) {
			return execute(fieldsTemplate, struct {
				Title  string
				Fields []field
			}{r.Title(), parsePayload(r.Value).project(names)})
		})
		if err != nil {
			return "", err
		}
		return markupPage(label, sections)
	}
}
