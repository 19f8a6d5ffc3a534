package core

import "testing"

func TestEvaluateContent(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantReason Reason
	}{
		{"digits and commas", "123456789,111111111", ""},
		{"multi-line", "123456789\n111111111\n", ""},
		{"tabs and crlf", "123456789,\t111111111\r\n000000000\r\n", ""},
		{"only commas", ",,,", ""},
		{"empty", "", ReasonEmptyFile},
		{"whitespace only", " \n\t\n  \r\n", ReasonEmptyFile},
		{"letters", "12345,abcde", ReasonInvalidCharacters},
		{"letters on later line", "123456789\n12345678x", ReasonInvalidCharacters},
		{"semicolon separator", "123456789;111111111", ReasonInvalidCharacters},
		{"quoted field", "\"123456789\"", ReasonInvalidCharacters},
		{"minus sign", "-123", ReasonInvalidCharacters},
		{"replacement character", "123�456", ReasonInvalidCharacters},
		{"non-ascii digits", "١٢٣", ReasonInvalidCharacters},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateContent(tt.text)
			if tt.wantReason == "" {
				if got != nil {
					t.Fatalf("EvaluateContent() = %v, want nil", got)
				}
				return
			}
			if got == nil || got.Reason != tt.wantReason {
				t.Fatalf("EvaluateContent() = %v, want %s", got, tt.wantReason)
			}
		})
	}
}

func TestEvaluateContent_Message(t *testing.T) {
	got := EvaluateContent("abc")
	want := "The file must only contain numbers, commas, and spaces."
	if got == nil || got.Message != want {
		t.Fatalf("EvaluateContent() = %v, want message %q", got, want)
	}
}

func TestEvaluateContentWithPolicy_FirstLine(t *testing.T) {
	text := "123456789\n12345678x"

	if got := EvaluateContentWithPolicy(text, CharsetFirstLine); got != nil {
		t.Errorf("first-line policy rejected later-line letters: %v", got)
	}
	if got := EvaluateContentWithPolicy(text, CharsetWholeDocument); got == nil {
		t.Error("whole-document policy accepted later-line letters")
	}
	if got := EvaluateContentWithPolicy("abc\n123", CharsetFirstLine); got == nil || got.Reason != ReasonInvalidCharacters {
		t.Errorf("first-line policy accepted a bad first line: %v", got)
	}
	if got := EvaluateContentWithPolicy("\n\n", CharsetFirstLine); got == nil || got.Reason != ReasonEmptyFile {
		t.Errorf("first-line policy on empty text = %v, want EmptyFile", got)
	}
}

func TestCharsetPolicy_String(t *testing.T) {
	if CharsetWholeDocument.String() != "whole-document" {
		t.Errorf("CharsetWholeDocument.String() = %q", CharsetWholeDocument.String())
	}
	if CharsetFirstLine.String() != "first-line" {
		t.Errorf("CharsetFirstLine.String() = %q", CharsetFirstLine.String())
	}
}
