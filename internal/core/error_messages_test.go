package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "reason error keeps its own text",
			err:         newReason(ReasonEmptyFile),
			wantCode:    "FILE003",
			wantMessage: "The CSV file is empty.",
		},
		{
			name:        "wrapped reason error is unwrapped",
			err:         fmt.Errorf("load: %w", fileTooLarge(3*1024*1024)),
			wantCode:    "FILE002",
			wantMessage: "Your file is 3.00MB. Maximum file size is 2MB.",
		},
		{
			name:        "missing file part",
			err:         errors.New("no file provided"),
			wantCode:    "FILE007",
			wantMessage: "No file was selected",
		},
		{
			name:        "unknown session",
			err:         fmt.Errorf("%w: abc", ErrSessionNotFound),
			wantCode:    "SES001",
			wantMessage: "Validation session not found",
		},
		{
			name:        "superseded load",
			err:         ErrSuperseded,
			wantCode:    "SES002",
			wantMessage: "A newer file replaced this one",
		},
		{
			name:        "submission already running",
			err:         ErrSubmissionInProgress,
			wantCode:    "SUB001",
			wantMessage: "A submission is already in progress",
		},
		{
			name:        "nothing to submit",
			err:         ErrNoBatch,
			wantCode:    "SUB002",
			wantMessage: "There are no policy numbers to submit",
		},
		{
			name:        "submission not configured",
			err:         ErrSubmissionDisabled,
			wantCode:    "SUB003",
			wantMessage: "Submission is not available",
		},
		{
			name:        "limiter full",
			err:         fmt.Errorf("validate: %w", ErrTooManyValidations),
			wantCode:    "UPL002",
			wantMessage: "System is busy validating other files",
		},
		{
			name:        "deadline",
			err:         fmt.Errorf("load file: %w", context.DeadlineExceeded),
			wantCode:    "UPL005",
			wantMessage: "Request timed out",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("SESSION NOT FOUND"),
			wantCode:    "SES001",
			wantMessage: "Validation session not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() Code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() Message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(ErrNoBatch)
	want := "There are no policy numbers to submit (Code: SUB002). Select a valid CSV file first"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}

	// ParseError carries no action line.
	got = FormatUserError(newReason(ReasonParseError))
	if !strings.HasSuffix(got, "(Code: FILE006)") {
		t.Errorf("FormatUserError(ParseError) = %q, want code suffix", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"reason error", newReason(ReasonInvalidCharacters), true},
		{"known pattern", ErrSubmissionInProgress, true},
		{"unknown", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}
