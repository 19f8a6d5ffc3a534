// Package core provides the business logic for policy-number file validation.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// File-level rejections (FILE001-FILE006) come straight from the validation
// pipeline as [ReasonError] values and carry their own text. Everything else is
// a technical error that is matched against the pattern catalogue below.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Invalid file type: name does not end in .csv and MIME is not text/csv
//	FILE002 - File too large: declared size exceeds 2MB
//	FILE003 - Empty file: no non-blank lines
//	FILE004 - Invalid characters: anything other than digits, commas and whitespace
//	FILE005 - Read error: the file could not be read or decoded
//	FILE006 - Parse error: tokenizing the decoded text failed unexpectedly
//	FILE007 - No file: the request carried no file part
//	          Patterns: "no file provided"
//	FILE008 - Request too large: the upload exceeded the request body cap
//	          Patterns: "request body too large"
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session not found: the session expired or never existed
//	         Patterns: "session not found"
//	SES002 - Superseded: a newer file replaced this one while it was validating
//	         Patterns: "superseded"
//
// # Submission Errors (SUB001-SUB099)
//
//	SUB001 - In progress: a submission is already running for this session
//	         Patterns: "submission in progress"
//	SUB002 - No batch: there is no accepted batch with policy numbers to submit
//	         Patterns: "no policy batch"
//	SUB003 - Disabled: no submission endpoint is configured
//	         Patterns: "submission disabled"
//	SUB004 - Failed: the remote endpoint rejected or did not answer
//	         Patterns: "submission failed"
//
// # Capacity and Request Errors
//
//	UPL002 - System busy: too many validations running
//	         Patterns: "too many validations"
//	UPL004 - Request cancelled
//	         Patterns: "context canceled"
//	UPL005 - Request timeout
//	         Patterns: "context deadline exceeded"
//	RATE001 - Rate limited
//	         Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones.
package core

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Order matters: more specific patterns come before general ones.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Request-level file errors (FILE007-FILE008)
	// =========================================================================
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file to validate",
			Code:    "FILE007",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "The upload is larger than the server accepts",
			Action:  "Maximum file size is 2MB",
			Code:    "FILE008",
		},
	},

	// =========================================================================
	// Session Errors (SES001-SES002)
	// =========================================================================
	{
		pattern: "session not found",
		msg: UserMessage{
			Message: "Validation session not found",
			Action:  "The session may have expired. Please start again",
			Code:    "SES001",
		},
	},
	{
		pattern: "superseded",
		msg: UserMessage{
			Message: "A newer file replaced this one",
			Action:  "Results are shown for the most recently selected file",
			Code:    "SES002",
		},
	},

	// =========================================================================
	// Submission Errors (SUB001-SUB004)
	// =========================================================================
	{
		pattern: "submission in progress",
		msg: UserMessage{
			Message: "A submission is already in progress",
			Action:  "Wait for the current submission to finish",
			Code:    "SUB001",
		},
	},
	{
		pattern: "no policy batch",
		msg: UserMessage{
			Message: "There are no policy numbers to submit",
			Action:  "Select a valid CSV file first",
			Code:    "SUB002",
		},
	},
	{
		pattern: "submission disabled",
		msg: UserMessage{
			Message: "Submission is not available",
			Action:  "Contact support to enable batch submission",
			Code:    "SUB003",
		},
	},
	{
		pattern: "submission failed",
		msg: UserMessage{
			Message: "Submission failed",
			Action:  "Please try again",
			Code:    "SUB004",
		},
	},

	// =========================================================================
	// Capacity and request errors
	// =========================================================================
	{
		pattern: "too many validations",
		msg: UserMessage{
			Message: "System is busy validating other files",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try again or check your connection",
			Code:    "UPL005",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-friendly message.
// Pipeline rejections ([ReasonError]) map to their own message; anything else
// is searched against the known patterns and falls back to ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var re *ReasonError
	if errors.As(err, &re) {
		return re.UserMessage()
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	if msg.Action == "" {
		return fmt.Sprintf("%s (Code: %s)", msg.Message, msg.Code)
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
