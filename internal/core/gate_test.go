package core

import (
	"strings"
	"testing"
)

func TestEvaluateFile(t *testing.T) {
	tests := []struct {
		name       string
		file       string
		mime       string
		size       int64
		wantReason Reason
	}{
		{"csv name and mime", "policies.csv", "text/csv", 100, ""},
		{"upper-case extension", "x.CSV", "application/octet-stream", 100, ""},
		{"mime only", "x.txt", "text/csv", 100, ""},
		{"neither", "x.txt", "text/plain", 100, ReasonInvalidFileType},
		{"no extension no mime", "policies", "", 100, ReasonInvalidFileType},
		{"mime must match exactly", "x.txt", "text/csv; charset=utf-8", 100, ReasonInvalidFileType},
		{"csv inside name", "x.csv.txt", "", 100, ReasonInvalidFileType},
		{"exactly 2MiB", "x.csv", "", MaxFileSize, ""},
		{"one byte over", "x.csv", "", MaxFileSize + 1, ReasonFileTooLarge},
		{"type checked before size", "x.txt", "text/plain", 10 * MaxFileSize, ReasonInvalidFileType},
		{"empty declared size", "x.csv", "", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateFile(tt.file, tt.mime, tt.size)
			if tt.wantReason == "" {
				if got != nil {
					t.Fatalf("EvaluateFile() = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("EvaluateFile() = nil, want %s", tt.wantReason)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("EvaluateFile() reason = %s, want %s", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestEvaluateFile_TooLargeMessage(t *testing.T) {
	got := EvaluateFile("big.csv", "text/csv", 3*1024*1024)
	if got == nil {
		t.Fatal("expected FileTooLarge")
	}

	wantMsg := "Your file is 3.00MB. Maximum file size is 2MB."
	if got.Message != wantMsg {
		t.Errorf("Message = %q, want %q", got.Message, wantMsg)
	}
	if !strings.Contains(got.Action, "2MB") || !strings.Contains(got.Action, "3.00MB") {
		t.Errorf("Action = %q, want both sizes", got.Action)
	}
	if got.Code != "FILE002" {
		t.Errorf("Code = %q, want FILE002", got.Code)
	}
}

func TestEvaluateFile_RoundsToTwoDecimals(t *testing.T) {
	got := EvaluateFile("big.csv", "", 2*1024*1024+10*1024)
	if got == nil {
		t.Fatal("expected FileTooLarge")
	}
	if !strings.Contains(got.Message, "2.01MB") {
		t.Errorf("Message = %q, want 2.01MB", got.Message)
	}
}
