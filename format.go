package docpipe

import (
	"html/template"
	"strings"

	"github.com/KasperOmsK/docpipe/internal/iterx"
)

// Formatter renders a whole record sequence into text. label is the
// pipeline's context label.
type Formatter func(records []Record, label string) (string, error)

// DefaultLabel is the context label of pipelines created without WithLabel.
const DefaultLabel = "Records"

const (
	textDivider   = "\n\n---\n\n"
	markupDivider = "\n<hr>\n"
)

var (
	pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Label}}</title>
<style>
body { font-family: sans-serif; max-width: 48em; margin: 0 auto; }
h2 { background: #ebebeb; padding: 0.2em 0.4em; }
hr { border: 0; border-top: 1px solid #999; }
</style>
</head>
<body>
<h1>{{.Label}}</h1>
{{.Body}}
</body>
</html>
`))

	wrapTemplate = template.Must(template.New("wrap").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Label}}</title>
</head>
<body>
<section>{{.Body}}</section>
</body>
</html>
`))

	sectionTemplate = template.Must(template.New("section").Parse(
		`<section><h2>{{.Title}}</h2><p>{{.Value}}</p></section>`))

	fieldsTemplate = template.Must(template.New("fields").Parse(
		`<section><h2>{{.Title}}</h2><ul>{{range .Fields}}<li><strong>{{.Name}}</strong>: {{.Value}}</li>{{end}}</ul></section>`))
)

type page struct {
	Label string
	Body  template.HTML
}

func execute(t *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// eachRecord renders every record with fn and stops at the first failure,
// reported as a *RecordError.
func eachRecord(records []Record, fn func(Record) (string, error)) ([]string, error) {
	out, err := iterx.TryMap(iterx.FromSlice(records), fn)
	if err != nil {
		return nil, recordError(err)
	}
	return out, nil
}

func markupPage(label string, sections []string) (string, error) {
	return execute(pageTemplate, page{
		Label: label,
		Body:  template.HTML(strings.Join(sections, markupDivider)),
	})
}

// DefaultStructuredText renders one section per record: a heading with the
// record's title followed by its value. Sections are separated by a
// horizontal rule.
func DefaultStructuredText(records []Record, _ string) (string, error) {
	sections, err := eachRecord(records, func(r Record) (string, error) {
		return "## " + r.Title() + "\n\n" + r.Value, nil
	})
	if err != nil {
		return "", err
	}
	return strings.Join(sections, textDivider), nil
}

// DefaultStyledMarkup renders one section per record inside an HTML
// document titled by label.
func DefaultStyledMarkup(records []Record, label string) (string, error) {
	sections, err := eachRecord(records, func(r Record) (string, error) {
		return execute(sectionTemplate, struct{ Title, Value string }{r.Title(), r.Value})
	})
	if err != nil {
		return "", err
	}
	return markupPage(label, sections)
}

// WrapTextAsMarkup wraps structured text into a minimal HTML document with a
// single section. Line breaks become <br> elements.
func WrapTextAsMarkup(text, label string) string {
	body := strings.ReplaceAll(template.HTMLEscapeString(text), "\n", "<br>\n")
	out, err := execute(wrapTemplate, page{Label: label, Body: template.HTML(body)})
	if err != nil {
		// the template only interpolates strings
		panic(err)
	}
	return out
}
