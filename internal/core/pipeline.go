package core

// pipeline.go runs one validation of a selected file:
//
//	FileGate -> decode -> ContentValidator -> Tokenizer -> Checksum -> Assemble
//
// The first failing stage ends the run and the report carries its reason
// instead of policy records. Nothing here panics or returns an error to the
// caller; every failure becomes part of the report.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/JonMunkholm/policycheck/internal/logging"
)

// RawFile is the upload as handed over by the file-selection collaborator.
// It is read once and then discarded.
type RawFile struct {
	Name string    // declared file name
	Type string    // declared MIME type
	Size int64     // declared size in bytes
	Body io.Reader // file content
}

// CheckState is the tri-state of one checklist item.
type CheckState string

const (
	CheckDefault CheckState = "default"
	CheckPassed  CheckState = "passed"
	CheckFailed  CheckState = "failed"
)

// Checks is the per-run checklist shown next to a selected file.
type Checks struct {
	FileType   CheckState `json:"fileType"`
	FileSize   CheckState `json:"fileSize"`
	Characters CheckState `json:"characters"`
}

func defaultChecks() Checks {
	return Checks{FileType: CheckDefault, FileSize: CheckDefault, Characters: CheckDefault}
}

// Report is the outcome of a validation run. Exactly one of Policies and
// Errors is non-empty, except that an accepted file may hold no tokens at
// all (for example a file of bare commas).
type Report struct {
	FileName   string
	Policies   []PolicyRecord
	ValidCount int
	Errors     []*ReasonError
	Checks     Checks
}

// Accepted reports whether the file passed every gate.
func (r Report) Accepted() bool {
	return len(r.Errors) == 0
}

// Reason returns the active rejection reason, or "" for an accepted file.
func (r Report) Reason() Reason {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Reason
}

// MarshalJSON renders {"policies":[...],"validCount":n} for an accepted
// file and {"errors":[...],"policies":[]} for a rejected one.
func (r Report) MarshalJSON() ([]byte, error) {
	policies := r.Policies
	if policies == nil {
		policies = []PolicyRecord{}
	}
	if r.Accepted() {
		return json.Marshal(struct {
			FileName   string         `json:"fileName,omitempty"`
			Policies   []PolicyRecord `json:"policies"`
			ValidCount int            `json:"validCount"`
			Checks     Checks         `json:"checks"`
		}{r.FileName, policies, r.ValidCount, r.Checks})
	}
	return json.Marshal(struct {
		FileName string         `json:"fileName,omitempty"`
		Errors   []*ReasonError `json:"errors"`
		Policies []PolicyRecord `json:"policies"`
		Checks   Checks         `json:"checks"`
	}{r.FileName, r.Errors, []PolicyRecord{}, r.Checks})
}

func (r Report) reject(reason *ReasonError) Report {
	r.Policies = []PolicyRecord{}
	r.ValidCount = 0
	r.Errors = []*ReasonError{reason}
	return r
}

// Validator runs the pipeline under a chosen character-set policy.
// The zero value uses the whole-document policy.
type Validator struct {
	Charset CharsetPolicy
}

// Validate runs the pipeline with the default Validator.
func Validate(ctx context.Context, f RawFile) Report {
	return Validator{}.Validate(ctx, f)
}

// Validate runs every stage on f and returns the resulting report.
func (v Validator) Validate(ctx context.Context, f RawFile) Report {
	log := logging.WithFields(ctx, "file", f.Name, "declared_type", f.Type, "declared_size", f.Size)

	report := Report{
		FileName: f.Name,
		Policies: []PolicyRecord{},
		Checks:   defaultChecks(),
	}

	if reason := EvaluateFile(f.Name, f.Type, f.Size); reason != nil {
		switch reason.Reason {
		case ReasonInvalidFileType:
			report.Checks.FileType = CheckFailed
		case ReasonFileTooLarge:
			report.Checks.FileSize = CheckFailed
		}
		log.Info("file rejected", "reason", reason.Reason)
		return report.reject(reason)
	}
	report.Checks.FileSize = CheckPassed

	text, err := DecodeText(ctx, f.Body)
	if err != nil {
		if errors.Is(err, ErrBinaryContent) {
			report.Checks.Characters = CheckFailed
			log.Info("file rejected", "reason", ReasonInvalidCharacters, "detected", err.Error())
			return report.reject(newReason(ReasonInvalidCharacters))
		}
		report.Checks.FileType = CheckFailed
		log.Warn("file unreadable", "reason", ReasonReadError, "error", err)
		return report.reject(newReason(ReasonReadError))
	}

	if reason := EvaluateContentWithPolicy(text, v.Charset); reason != nil {
		switch reason.Reason {
		case ReasonEmptyFile:
			report.Checks.FileType = CheckFailed
		case ReasonInvalidCharacters:
			report.Checks.Characters = CheckFailed
		}
		log.Info("file rejected", "reason", reason.Reason, "charset_policy", v.Charset.String())
		return report.reject(reason)
	}
	report.Checks.Characters = CheckPassed
	report.Checks.FileType = CheckPassed

	records, err := tokenizeAndAssemble(text)
	if err != nil {
		report.Checks.FileType = CheckFailed
		log.Error("file parse failed", "reason", ReasonParseError, "error", err)
		return report.reject(newReason(ReasonParseError))
	}

	report.Policies = records
	report.ValidCount = ValidCount(records)
	log.Info("file accepted", "policies", len(records), "valid_count", report.ValidCount)
	return report
}

// tokenizeAndAssemble converts a panic in the parsing stages into an error
// so the run ends with ParseError instead of crashing the caller.
func tokenizeAndAssemble(text string) (records []PolicyRecord, err error) {
	defer func() {
		if p := recover(); p != nil {
			records = nil
			err = fmt.Errorf("parse: %v", p)
		}
	}()
	return Assemble(Tokenize(text)), nil
}
