package core

import (
	"strings"
	"unicode"
)

// CharsetPolicy selects which part of a document the character-set rule
// inspects.
type CharsetPolicy int

const (
	// CharsetWholeDocument checks every line of the trimmed document.
	CharsetWholeDocument CharsetPolicy = iota

	// CharsetFirstLine checks only the first non-blank line.
	//
	// Deprecated: letters on later lines slip through and are then
	// tokenized as invalid policy numbers. Kept for callers that must
	// reproduce results produced before the whole-document rule.
	CharsetFirstLine
)

func (p CharsetPolicy) String() string {
	if p == CharsetFirstLine {
		return "first-line"
	}
	return "whole-document"
}

// EvaluateContent checks decoded text with the whole-document policy.
func EvaluateContent(text string) *ReasonError {
	return EvaluateContentWithPolicy(text, CharsetWholeDocument)
}

// EvaluateContentWithPolicy rejects text that has no non-blank lines
// (EmptyFile) or that contains anything other than ASCII digits, commas
// and whitespace (InvalidCharacters). The empty check always runs first.
func EvaluateContentWithPolicy(text string, policy CharsetPolicy) *ReasonError {
	lines := nonBlankLines(text)
	if len(lines) == 0 {
		return newReason(ReasonEmptyFile)
	}

	subject := strings.TrimSpace(text)
	if policy == CharsetFirstLine {
		subject = strings.TrimSpace(lines[0])
	}
	if !onlyPolicyRunes(subject) {
		return newReason(ReasonInvalidCharacters)
	}
	return nil
}

// nonBlankLines splits on line feeds and drops whitespace-only lines.
// A trailing '\r' stays on its line; later trimming removes it.
func nonBlankLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := raw[:0]
	for _, line := range raw {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func onlyPolicyRunes(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == ',':
		case unicode.IsSpace(r):
		default:
			return false
		}
	}
	return true
}
