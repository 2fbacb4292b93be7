package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidTemplate, "unknown section: %s", "footer")

	if err.Code != ErrCodeInvalidTemplate {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidTemplate)
	}

	if err.Message != "unknown section: footer" {
		t.Errorf("Message = %v, want %v", err.Message, "unknown section: footer")
	}

	expected := "INVALID_TEMPLATE: unknown section: footer"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("variable overflow")
	err := Wrap(ErrCodeCollaborator, cause, "calculate variables")

	if err.Code != ErrCodeCollaborator {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeCollaborator)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "COLLABORATOR_FAILED: calculate variables: variable overflow"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodePageOverflowLoop, "test"),
			code:     ErrCodePageOverflowLoop,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeNetwork,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeCollaborator, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeCollaborator,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeKeepTogetherOverflow, "test"),
			expected: ErrCodeKeepTogetherOverflow,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsLayout(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"page overflow loop", New(ErrCodePageOverflowLoop, "page header"), true},
		{"keep together", New(ErrCodeKeepTogetherOverflow, "group"), true},
		{"wrapped", Wrap(ErrCodeKeepTogetherOverflow, errors.New("x"), "y"), true},
		{"template", New(ErrCodeInvalidTemplate, "bad"), false},
		{"plain", errors.New("plain"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLayout(tt.err); got != tt.want {
				t.Errorf("IsLayout() = %v, want %v", got, tt.want)
			}
		})
	}
}
