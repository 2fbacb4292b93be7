// Package pipeline provides the template → fill → render pipeline shared by
// the CLI and the fill service.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Decode the template (TOML or YAML) and the records (JSON or CSV)
//  2. Fill: Paginate the report into a [fill.Document]
//  3. Render: Write the document as JSON, SVG or PDF
//
// The filled document is cached under a key derived from the template and
// the data; each artifact is cached under a key derived from the document
// and the render settings.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    TemplatePath: "orders.toml",
//	    DataPath:     "orders.json",
//	    Formats:      []string{"pdf"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pdf := result.Artifacts["pdf"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bandfill/pkg/cache"
	errs "github.com/matzehuels/bandfill/pkg/errors"
	"github.com/matzehuels/bandfill/pkg/fill"
	"github.com/matzehuels/bandfill/pkg/render"
	"github.com/matzehuels/bandfill/pkg/template"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultFontSize is the text size of SVG and PDF output, in points.
	DefaultFontSize = 10.0

	// DefaultReportName names templates that carry no name of their own.
	DefaultReportName = "report"

	// DocumentVersion identifies the fill engine in document cache keys.
	// Bump it when a change alters the pages produced for the same input.
	DocumentVersion = "1"
)

// DefaultFormats are rendered when no format is requested.
var DefaultFormats = []string{render.FormatJSON}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	render.FormatJSON: true,
	render.FormatSVG:  true,
	render.FormatPDF:  true,
}

// ValidTemplateFormats is the set of supported template formats.
var ValidTemplateFormats = map[string]bool{
	template.FormatTOML: true,
	template.FormatYAML: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for service requests.
type Options struct {
	// Template source: a file, or inline text with an explicit format.
	TemplatePath   string `json:"-"`
	Template       string `json:"template,omitempty"`
	TemplateFormat string `json:"template_format,omitempty"`

	// Data source: a file, or inline bytes. No data fills the no-data report.
	DataPath   string `json:"-"`
	Data       []byte `json:"data,omitempty"`
	DataFormat string `json:"data_format,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	FontSize float64  `json:"font_size,omitempty"`
	Outlines bool     `json:"outlines,omitempty"`

	// Refresh bypasses cached documents and artifacts.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document holds the filled pages.
	Document *fill.Document

	// DocumentHash is the content hash of the filled document.
	DocumentHash string

	// FillID identifies the fill pass that produced the document.
	FillID string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records    int
	Pages      int
	Elements   int
	LoadTime   time.Duration
	FillTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	DocumentHit bool // Whether the filled document came from cache
	RenderHit   bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(render.Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTemplateFormat checks that a template format is valid.
func ValidateTemplateFormat(format string) error {
	if !ValidTemplateFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid template_format: %q (must be one of: toml, yaml)", format)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the template and data sources.
func (o *Options) ValidateForLoad() error {
	switch {
	case o.TemplatePath == "" && o.Template == "":
		return errs.New(errs.ErrCodeInvalidInput, "template or template path is required")
	case o.TemplatePath != "" && o.Template != "":
		return errs.New(errs.ErrCodeInvalidInput, "template and template path are mutually exclusive")
	case o.Template != "":
		if o.TemplateFormat == "" {
			o.TemplateFormat = template.FormatTOML
		}
		if err := ValidateTemplateFormat(o.TemplateFormat); err != nil {
			return err
		}
	}
	if o.DataPath != "" && len(o.Data) > 0 {
		return errs.New(errs.ErrCodeInvalidInput, "data and data path are mutually exclusive")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = slices.Clone(DefaultFormats)
	}
	if o.FontSize == 0 {
		o.FontSize = DefaultFontSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.FontSize < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "font_size must be positive, got %g", o.FontSize)
	}
	return ValidateFormats(o.Formats)
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	if format != render.FormatJSON {
		opts.FontSize = o.FontSize
		opts.Outlines = o.Outlines
	}
	return opts
}
