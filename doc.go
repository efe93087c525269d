/*
Package docpipe converts an ordered sequence of timestamped records into
structured text, styled markup or a paginated document.

The package is built around the Pipeline, a lazily-evaluated conversion
graph bound to a RecordSource. Each output representation is a Stage.
Selecting a stage only registers a deferred computation; nothing is read or
rendered until the pipeline is resolved with Materialize.

Stages may be selected in any order and any number of times. A stage is
registered once per pipeline, and every computation (draining the source,
running a formatter, rendering a document) happens at most once, so
resolving a pipeline repeatedly always yields the same bytes.

Example of a simple pipeline:

	src := docpipe.SliceSource(
		docpipe.Record{Time: "1000", Value: `{"title":"boot","description":"cold start"}`},
		docpipe.Record{Time: "2000", Value: `{"title":"ready"}`},
	)

	// Markdown-like text listing two payload fields per record,
	// rendered into a PDF document.
	p := docpipe.New(src, docpipe.WithLabel("Boot log")).
		StructuredText(docpipe.StructuredTextFields("title", "description")).
		PaginatedDocument()

	out, err := p.Materialize(ctx)
	if err != nil {
		return err
	}
	os.WriteFile("boot.pdf", out.Data, 0o644)

Materialize resolves the stage with the highest precedence among those
selected: PaginatedDocument, then StyledMarkup, then StructuredText. With no
stage selected it returns the raw records.

A document is rendered from styled markup when that stage is selected. If
only structured text is selected, the text is wrapped into a minimal markup
document first. If neither is, PaginatedDocument selects the default styled
markup itself.

Errors are never downgraded to partial output. Every failure surfaces from
Materialize as a *StageError naming the failed stage and matching ErrFetch,
ErrFormat or ErrRender. The only local recovery is in the field-projecting
formatters, which render payloads that are not JSON objects as a single
FallbackField.

Rendering engines are acquired from a render.Provider for the resolution that
needs them and released on every path. The default provider renders PDF
documents with package render/pdf.
*/
package docpipe
