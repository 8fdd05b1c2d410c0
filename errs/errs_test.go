package errs

import (
	"errors"
	"testing"
)

func TestErrorConstants(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "ErrInvalidURL",
			err:      ErrInvalidURL,
			expected: "invalid doodstream url",
		},
		{
			name:     "ErrTokenNotFound",
			err:      ErrTokenNotFound,
			expected: "pass_md5 token not found",
		},
		{
			name:     "ErrVideoUnavailable",
			err:      ErrVideoUnavailable,
			expected: "video unavailable",
		},
		{
			name:     "ErrRateLimited",
			err:      ErrRateLimited,
			expected: "rate limited",
		},
		{
			name:     "ErrEmptyDownload",
			err:      ErrEmptyDownload,
			expected: "empty download: 0 bytes written",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expected {
				t.Errorf("Expected error message '%s', got '%s'", tt.expected, tt.err.Error())
			}
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	wrapped := errors.Join(errors.New("fetch embed page"), ErrTokenNotFound)
	if !errors.Is(wrapped, ErrTokenNotFound) {
		t.Error("wrapped error should match ErrTokenNotFound")
	}
	if errors.Is(wrapped, ErrVideoUnavailable) {
		t.Error("wrapped error should not match ErrVideoUnavailable")
	}
}

func TestErrorUniqueness(t *testing.T) {
	errorList := []error{
		ErrInvalidURL,
		ErrTokenNotFound,
		ErrVideoUnavailable,
		ErrRateLimited,
		ErrEmptyDownload,
	}

	for i, err1 := range errorList {
		for j, err2 := range errorList {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Error %d and %d should not be equal", i, j)
			}
		}
	}
}
