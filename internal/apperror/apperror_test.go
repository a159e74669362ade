package apperror

import (
	"errors"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("profile", "abc123"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("text", "learning text is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Unavailable wraps ErrUnavailable",
			err:       Unavailable("saving profile", errors.New("connection refused")),
			target:    ErrUnavailable,
			wantMatch: true,
		},
		{
			name:      "Unauthorized wraps ErrUnauthorized",
			err:       Unauthorized("valid session required"),
			target:    ErrUnauthorized,
			wantMatch: true,
		},
		{
			name:      "NotFound does not match ErrValidation",
			err:       NotFound("profile", "abc123"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "Unavailable does not match ErrNotFound",
			err:       Unavailable("loading profile", errors.New("timeout")),
			target:    ErrNotFound,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := NotFound("user", "u42")
	want := "user not found with id u42"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestValidationField(t *testing.T) {
	err := ValidationFailed("text", "learning text is required")
	if err.Field != "text" {
		t.Errorf("Field = %q, want %q", err.Field, "text")
	}
}

// Wrapping an AppError with fmt.Errorf %w must keep the sentinel reachable.
func TestWrappedAppError(t *testing.T) {
	inner := NotFound("record", "DEVTRACK_STREAK:u1")
	wrapped := errors.Join(errors.New("loading streak"), inner)

	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("wrapped AppError no longer matches ErrNotFound")
	}
}
