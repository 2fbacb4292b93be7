package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/bandfill/pkg/dataset"
	errs "github.com/matzehuels/bandfill/pkg/errors"
	"github.com/matzehuels/bandfill/pkg/observability"
	"github.com/matzehuels/bandfill/pkg/template"
)

// LoadTemplate decodes and validates the template named by opts. It also
// returns the raw template bytes for cache keys.
func LoadTemplate(ctx context.Context, opts Options) (*template.Spec, []byte, error) {
	source := opts.TemplatePath
	if source == "" {
		source = "inline"
	}
	hooks := observability.Pipeline()
	hooks.OnTemplateLoadStart(ctx, source)
	start := time.Now()

	s, raw, err := loadTemplate(opts)
	name := ""
	if s != nil {
		name = s.Name
	}
	hooks.OnTemplateLoadComplete(ctx, name, time.Since(start), err)
	return s, raw, err
}

func loadTemplate(opts Options) (*template.Spec, []byte, error) {
	raw := []byte(opts.Template)
	format := opts.TemplateFormat
	name := DefaultReportName

	if path := opts.TemplatePath; path != "" {
		if format = template.FormatOf(path); format == "" {
			return nil, nil, errs.New(errs.ErrCodeInvalidFormat, "template %s: expected a .toml, .yaml or .yml file", path)
		}
		data, err := readFile("template", path)
		if err != nil {
			return nil, nil, err
		}
		raw = data
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	s, err := template.Decode(raw, format)
	if err != nil {
		return nil, nil, err
	}
	if s.Name == "" {
		s.Name = name
	}
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	return s, raw, nil
}

// LoadData decodes the records named by opts. Without a data source the
// dataset is empty. It also returns the raw bytes for cache keys.
func LoadData(opts Options) (*dataset.Dataset, []byte, error) {
	raw := opts.Data
	format := opts.DataFormat
	if path := opts.DataPath; path != "" {
		data, err := readFile("data", path)
		if err != nil {
			return nil, nil, err
		}
		raw = data
		if format == "" {
			format = dataset.FormatOf(path)
		}
	}
	if len(raw) == 0 {
		return dataset.New(nil), nil, nil
	}
	ds, err := dataset.Decode(raw, format)
	if err != nil {
		return nil, nil, err
	}
	return ds, raw, nil
}

func readFile(kind, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "%s %s", kind, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
