package template

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/bandfill/pkg/errors"
)

// Template formats.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// FormatOf returns the template format implied by a file name, or "" if
// the extension is not known.
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	}
	return ""
}

// Decode parses a template. Unknown keys are rejected so that a misspelt
// option does not silently fall back to its default.
func Decode(data []byte, format string) (*Spec, error) {
	var s Spec
	switch strings.ToLower(format) {
	case FormatTOML:
		md, err := toml.Decode(string(data), &s)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidTemplate, err, "parse toml")
		}
		if und := md.Undecoded(); len(und) > 0 {
			return nil, errs.New(errs.ErrCodeInvalidTemplate, "unknown template key %q", und[0].String())
		}
	case FormatYAML, "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
			return nil, errs.Wrap(errs.ErrCodeInvalidTemplate, err, "parse yaml")
		}
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown template format: %q", format)
	}
	return &s, nil
}

// Load reads and validates a template file.
func Load(path string) (*Spec, error) {
	format := FormatOf(path)
	if format == "" {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "template %s: expected a .toml, .yaml or .yml file", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "template %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	s, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
