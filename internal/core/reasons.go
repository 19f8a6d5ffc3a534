package core

import (
	"encoding/json"
	"fmt"
)

// Reason identifies why a file was rejected. The set is closed; every
// rejection produced by the pipeline carries exactly one of these.
type Reason string

const (
	ReasonInvalidFileType   Reason = "InvalidFileType"
	ReasonFileTooLarge      Reason = "FileTooLarge"
	ReasonEmptyFile         Reason = "EmptyFile"
	ReasonInvalidCharacters Reason = "InvalidCharacters"
	ReasonReadError         Reason = "ReadError"
	ReasonParseError        Reason = "ParseError"
)

// ReasonError is a pipeline rejection with its user-facing text.
type ReasonError struct {
	Reason  Reason
	Code    string
	Message string
	Action  string
}

func (e *ReasonError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// UserMessage returns the rejection in the shape used for all error output.
func (e *ReasonError) UserMessage() UserMessage {
	return UserMessage{Message: e.Message, Action: e.Action, Code: e.Code}
}

// MarshalJSON renders the rejection as {"reason","code","message","action"}.
func (e *ReasonError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Reason  Reason `json:"reason"`
		Code    string `json:"code"`
		Message string `json:"message"`
		Action  string `json:"action,omitempty"`
	}{e.Reason, e.Code, e.Message, e.Action})
}

var reasonText = map[Reason]ReasonError{
	ReasonInvalidFileType: {
		Code:    "FILE001",
		Message: "Your file does not appear to be a CSV file.",
		Action:  "Please select a valid CSV file.",
	},
	ReasonEmptyFile: {
		Code:    "FILE003",
		Message: "The CSV file is empty.",
		Action:  "Please select a CSV file containing policy numbers.",
	},
	ReasonInvalidCharacters: {
		Code:    "FILE004",
		Message: "The file must only contain numbers, commas, and spaces.",
		Action:  "Remove any letters, quotes or other symbols and try again.",
	},
	ReasonReadError: {
		Code:    "FILE005",
		Message: "Error reading file.",
		Action:  "Please select the file again.",
	},
	ReasonParseError: {
		Code:    "FILE006",
		Message: "Error parsing CSV file. Please ensure it is properly formatted.",
	},
}

// newReason returns the fixed-text rejection for r.
// FileTooLarge has variable text; use fileTooLarge for it.
func newReason(r Reason) *ReasonError {
	e := reasonText[r]
	e.Reason = r
	return &e
}

// fileTooLarge builds the size rejection. Both lines quote the size in MB
// rounded to two decimals and the fixed 2MB limit.
func fileTooLarge(size int64) *ReasonError {
	mb := float64(size) / (1024 * 1024)
	return &ReasonError{
		Reason:  ReasonFileTooLarge,
		Code:    "FILE002",
		Message: fmt.Sprintf("Your file is %.2fMB. Maximum file size is 2MB.", mb),
		Action:  fmt.Sprintf("File size exceeds 2MB. Your file is %.2fMB.", mb),
	}
}
