package render

import (
	"slices"
	"strings"

	errs "github.com/matzehuels/bandfill/pkg/errors"
	"github.com/matzehuels/bandfill/pkg/fill"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
)

// Formats lists the supported output formats.
var Formats = []string{FormatJSON, FormatSVG, FormatPDF}

// ContentType returns the media type of a format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatSVG:
		return "image/svg+xml"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates. Unknown formats are an error.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(out, f) {
			continue
		}
		if !slices.Contains(Formats, f) {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown output format %q (want one of %s)", f, strings.Join(Formats, ", "))
		}
		out = append(out, f)
	}
	return out, nil
}

// Render writes doc in the given format with default options.
func Render(doc *fill.Document, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return RenderJSON(doc)
	case FormatSVG:
		return RenderSVG(doc), nil
	case FormatPDF:
		return RenderPDF(doc)
	}
	return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown output format %q", format)
}
