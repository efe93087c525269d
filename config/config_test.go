package config_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KasperOmsK/docpipe"
	"github.com/KasperOmsK/docpipe/config"
	"github.com/KasperOmsK/docpipe/render"
)

const sample = `
label: Deploy log
stages: [text, markup]
text_fields: [title, description]
render:
  page_format: Letter
  margins:
    top: 15
    right: 10
    bottom: 15
    left: 12
  print_backgrounds: false
`

func TestRead_YAML(t *testing.T) {
	c, err := config.Read(strings.NewReader(sample), "yaml")
	require.NoError(t, err)

	require.Equal(t, "Deploy log", c.Label)
	require.Equal(t, []string{"text", "markup"}, c.Stages)
	require.Equal(t, []string{"title", "description"}, c.TextFields)
	require.Empty(t, c.MarkupFields)
	require.Equal(t, render.Options{
		PageFormat:       "Letter",
		Margins:          render.Margins{Top: 15, Right: 10, Bottom: 15, Left: 12},
		PrintBackgrounds: false,
	}, c.Render)
}

func TestLoad_Defaults(t *testing.T) {
	c, err := config.Load("")
	require.NoError(t, err)

	require.Equal(t, docpipe.DefaultLabel, c.Label)
	require.Empty(t, c.Stages)
	require.Equal(t, render.DefaultOptions(), c.Render)
}

func TestLoad_FileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docpipe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))
	t.Setenv("DOCPIPE_RENDER_PAGE_FORMAT", "A5")
	t.Setenv("DOCPIPE_LABEL", "Overridden")

	c, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, "A5", c.Render.PageFormat)
	require.Equal(t, "Overridden", c.Label)
	require.Equal(t, []string{"text", "markup"}, c.Stages)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorContains(t, err, "read config")
}

func TestRead_UnknownStage(t *testing.T) {
	_, err := config.Read(strings.NewReader("stages: [text, slides]"), "yaml")
	require.EqualError(t, err, `unknown stage "slides"`)
}

func TestRead_NegativeMargin(t *testing.T) {
	_, err := config.Read(strings.NewReader("render: {margins: {top: -1}}"), "yaml")
	require.ErrorContains(t, err, "top margin is negative")
}

func TestConfig_NewSelectsStages(t *testing.T) {
	c, err := config.Read(strings.NewReader(sample), "yaml")
	require.NoError(t, err)

	src := docpipe.SliceSource(docpipe.Record{Time: "1000", Value: `{"title":"A","description":"B"}`})
	p, err := c.New(src)
	require.NoError(t, err)
	require.Equal(t, []docpipe.Stage{docpipe.StructuredText, docpipe.StyledMarkup}, p.Selected())

	text, err := p.Stage(context.Background(), docpipe.StructuredText)
	require.NoError(t, err)
	require.Equal(t, "## 1970-01-01 00:00:01 UTC\n\n- title: A\n- description: B", string(text.Data))

	markup, err := p.Materialize(context.Background())
	require.NoError(t, err)
	require.Equal(t, docpipe.StyledMarkup, markup.Stage)
	require.Contains(t, string(markup.Data), "<title>Deploy log</title>")
}
