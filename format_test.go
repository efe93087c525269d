package docpipe_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KasperOmsK/docpipe"
)

func TestDefaultStructuredText(t *testing.T) {
	out, err := docpipe.DefaultStructuredText(helloWorld, "ignored")

	require.NoError(t, err)
	require.Equal(t,
		"## 1970-01-01 00:00:01 UTC\n\nhello\n\n---\n\n## 1970-01-01 00:00:02 UTC\n\nworld",
		out)
}

func TestDefaultStructuredText_NonNumericTime(t *testing.T) {
	out, err := docpipe.DefaultStructuredText([]docpipe.Record{{Time: "noon", Value: "v"}}, "")

	require.NoError(t, err)
	require.Equal(t, "## noon\n\nv", out)
}

func TestDefaultStyledMarkup(t *testing.T) {
	records := []docpipe.Record{
		{Time: "1000", Value: "hello"},
		{Time: "later", Value: "<script>alert(1)</script>"},
	}

	out, err := docpipe.DefaultStyledMarkup(records, "Ops & Co")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	require.Contains(t, out, "<title>Ops &amp; Co</title>")
	require.Contains(t, out, "<h1>Ops &amp; Co</h1>")
	require.Contains(t, out,
		"<section><h2>1970-01-01 00:00:01 UTC</h2><p>hello</p></section>\n<hr>\n"+
			"<section><h2>later</h2><p>&lt;script&gt;alert(1)&lt;/script&gt;</p></section>")
	require.Equal(t, 1, strings.Count(out, "<hr>"))
}

func TestDefaultStyledMarkup_NoRecords(t *testing.T) {
	out, err := docpipe.DefaultStyledMarkup(nil, "Empty")

	require.NoError(t, err)
	require.Contains(t, out, "<h1>Empty</h1>")
	require.NotContains(t, out, "<section>")
}

func TestWrapTextAsMarkup(t *testing.T) {
	out := docpipe.WrapTextAsMarkup("## title\n\na < b", "Log")

	require.Contains(t, out, "<title>Log</title>")
	require.Contains(t, out, "<section>## title<br>\n<br>\na &lt; b</section>")
	require.Equal(t, 1, strings.Count(out, "<section>"))
}

func TestStructuredTextFields(t *testing.T) {
	f := docpipe.StructuredTextFields("title", "description")
	records := []docpipe.Record{
		{Time: "1000", Value: `{"title":"A","description":"B","ignored":"C"}`},
		{Time: "2000", Value: `{"description":"only"}`},
	}

	out, err := f(records, "")

	require.NoError(t, err)
	require.Equal(t,
		"## 1970-01-01 00:00:01 UTC\n\n- title: A\n- description: B"+
			"\n\n---\n\n"+
			"## 1970-01-01 00:00:02 UTC\n\n- title: \n- description: only",
		out)
}

func TestStructuredTextFields_FieldOrderFollowsCaller(t *testing.T) {
	out, err := docpipe.StructuredTextFields("b", "a")(
		[]docpipe.Record{{Time: "t", Value: `{"a":1,"b":[true,null]}`}}, "")

	require.NoError(t, err)
	require.Equal(t, "## t\n\n- b: [true,null]\n- a: 1", out)
}

func TestStructuredTextFields_Fallback(t *testing.T) {
	records := []docpipe.Record{
		{Time: "1", Value: "not json"},
		{Time: "2", Value: `["an","array"]`},
		{Time: "3", Value: "null"},
	}

	out, err := docpipe.StructuredTextFields("title", "description")(records, "")

	require.NoError(t, err)
	require.Equal(t, 3, strings.Count(out, "- "+docpipe.FallbackField+": "))
	require.Contains(t, out, "- value: not json")
	require.Contains(t, out, `- value: ["an","array"]`)
	require.NotContains(t, out, "title")
}

func TestStyledMarkupFields(t *testing.T) {
	f := docpipe.StyledMarkupFields("title", "description")
	records := []docpipe.Record{
		{Time: "1000", Value: `{"title":"A","description":"<b>B</b>"}`},
		{Time: "2000", Value: "oops"},
	}

	out, err := f(records, "Fields")

	require.NoError(t, err)
	require.Contains(t, out, "<h1>Fields</h1>")
	require.Contains(t, out,
		"<ul><li><strong>title</strong>: A</li><li><strong>description</strong>: &lt;b&gt;B&lt;/b&gt;</li></ul>")
	require.Contains(t, out, "<ul><li><strong>value</strong>: oops</li></ul>")
}

func TestFieldFormatters_CopyFieldList(t *testing.T) {
	fields := []string{"title"}
	f := docpipe.StructuredTextFields(fields...)
	fields[0] = "mutated"

	out, err := f([]docpipe.Record{{Time: "t", Value: `{"title":"A"}`}}, "")

	require.NoError(t, err)
	require.Equal(t, "## t\n\n- title: A", out)
}
