// Package config loads declarative pipeline configuration from YAML, JSON or
// TOML files and DOCPIPE_* environment variables.
//
// Example file:
//
//	label: Deploy log
//	stages: [text, document]
//	text_fields: [title, description]
//	render:
//	  page_format: Letter
//	  margins: {top: 15, right: 10, bottom: 15, left: 10}
//	  print_backgrounds: false
//
// Environment variables override file values, with nested keys joined by
// underscores (DOCPIPE_RENDER_PAGE_FORMAT=A5).
package config

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/KasperOmsK/docpipe"
	"github.com/KasperOmsK/docpipe/render"
)

const envPrefix = "DOCPIPE"

// Config describes how a pipeline is built and which stages it selects.
type Config struct {
	Label  string   `mapstructure:"label"`
	Stages []string `mapstructure:"stages"`

	// TextFields, when set, selects StructuredTextFields for the text stage.
	TextFields []string `mapstructure:"text_fields"`

	// MarkupFields, when set, selects StyledMarkupFields for the markup stage.
	MarkupFields []string `mapstructure:"markup_fields"`

	Render render.Options `mapstructure:"render"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := render.DefaultOptions()
	v.SetDefault("label", docpipe.DefaultLabel)
	v.SetDefault("stages", []string{})
	v.SetDefault("text_fields", []string{})
	v.SetDefault("markup_fields", []string{})
	v.SetDefault("render.page_format", def.PageFormat)
	v.SetDefault("render.margins.top", def.Margins.Top)
	v.SetDefault("render.margins.right", def.Margins.Right)
	v.SetDefault("render.margins.bottom", def.Margins.Bottom)
	v.SetDefault("render.margins.left", def.Margins.Left)
	v.SetDefault("render.print_backgrounds", def.PrintBackgrounds)
	return v
}

// Load reads the configuration file at path, if any, and applies
// environment overrides and defaults.
func Load(path string) (Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", path)
		}
	}
	return decode(v)
}

// Read parses configuration of the given format ("yaml", "json", "toml")
// from r.
func Read(r io.Reader, format string) (Config, error) {
	v := newViper()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	return decode(v)
}

func decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks stage names and render options.
func (c Config) Validate() error {
	if _, err := c.stages(); err != nil {
		return err
	}
	return errors.Wrap(c.Render.Validate(), "render")
}

func (c Config) stages() ([]docpipe.Stage, error) {
	out := make([]docpipe.Stage, 0, len(c.Stages))
	for _, name := range c.Stages {
		s, err := docpipe.ParseStage(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Options returns the pipeline options described by c.
func (c Config) Options() []docpipe.Option {
	return []docpipe.Option{
		docpipe.WithLabel(c.Label),
		docpipe.WithRenderOptions(c.Render),
	}
}

// Apply selects the configured stages on p, in the configured order.
func (c Config) Apply(p *docpipe.Pipeline) (*docpipe.Pipeline, error) {
	stages, err := c.stages()
	if err != nil {
		return nil, err
	}
	for _, s := range stages {
		switch s {
		case docpipe.StructuredText:
			var f docpipe.Formatter
			if len(c.TextFields) > 0 {
				f = docpipe.StructuredTextFields(c.TextFields...)
			}
			p.StructuredText(f)
		case docpipe.StyledMarkup:
			var f docpipe.Formatter
			if len(c.MarkupFields) > 0 {
				f = docpipe.StyledMarkupFields(c.MarkupFields...)
			}
			p.StyledMarkup(f)
		case docpipe.PaginatedDocument:
			p.PaginatedDocument()
		}
	}
	return p, nil
}

// New builds a pipeline over src configured and selected as c describes.
// Extra options are applied after those derived from c.
func (c Config) New(src docpipe.RecordSource, opts ...docpipe.Option) (*docpipe.Pipeline, error) {
	return c.Apply(docpipe.New(src, append(c.Options(), opts...)...))
}
