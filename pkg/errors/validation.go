package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// nameRegex matches section, group, field and element names.
var nameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// ValidateName validates an identifier used inside a template (section, group,
// field or element name). Names end up in cache keys and log lines, so the
// rules are conservative:
//   - No empty names
//   - Maximum length of 128 characters
//   - Must start with a letter or underscore
//   - Only letters, digits, '_', '.', '-'
func ValidateName(kind, name string) error {
	if name == "" {
		return New(ErrCodeInvalidTemplate, "%s name cannot be empty", kind)
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidTemplate, "%s name too long (max 128 characters)", kind)
	}

	if !nameRegex.MatchString(name) {
		return New(ErrCodeInvalidTemplate, "invalid %s name: %q", kind, name)
	}

	return nil
}

// ValidatePath validates a template or data file path received from a remote
// caller. It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a scheme the shared cache client understands.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	for _, scheme := range []string{"redis://", "rediss://", "unix://"} {
		if strings.HasPrefix(rawURL, scheme) {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use redis, rediss or unix scheme")
}
