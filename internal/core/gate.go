package core

import "strings"

// MaxFileSize is the largest policy file accepted (2 MiB). It is fixed;
// the rejection text quotes it as "2MB".
const MaxFileSize int64 = 2 * 1024 * 1024

const csvMIMEType = "text/csv"

// EvaluateFile applies the container checks that need no file content.
//
// The type check runs first: a file passes when its name ends in .csv (any
// case) or its declared MIME type is exactly text/csv. Only then is the
// declared size compared with MaxFileSize, so an invalid-type file never
// reports its size. Returns nil when the file may be read.
func EvaluateFile(name, declaredType string, size int64) *ReasonError {
	if !strings.HasSuffix(strings.ToLower(name), ".csv") && declaredType != csvMIMEType {
		return newReason(ReasonInvalidFileType)
	}
	if size > MaxFileSize {
		return fileTooLarge(size)
	}
	return nil
}
