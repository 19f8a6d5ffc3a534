package core

// decode.go turns the raw upload into text. It is the only stage of a
// validation run that blocks on I/O.
//
// Decoding mirrors what a browser's readAsText does with an uploaded file:
//
//   - A UTF-8 or UTF-16 byte order mark selects the encoding and is removed
//   - Otherwise the bytes are read as UTF-8
//   - Invalid sequences become U+FFFD, which the character-set rule rejects
//
// Before decoding, the head of the file is sniffed for well-known binary
// formats (images, archives, office documents). Such files can never pass the
// character-set rule, so they are rejected without decoding them.

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/h2non/filetype"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrBinaryContent is returned by DecodeText when the file is a recognised
// binary format.
var ErrBinaryContent = errors.New("binary content")

// ErrContentTooLarge is returned by DecodeText when the body holds more
// bytes than MaxFileSize, whatever size was declared for it.
var ErrContentTooLarge = errors.New("content exceeds maximum file size")

// sniffLen is how many leading bytes filetype needs to match every format it knows.
const sniffLen = 262

// DecodeText reads body to the end and returns it as UTF-8 text.
// Reading stops early when ctx is done.
func DecodeText(ctx context.Context, body io.Reader) (string, error) {
	if body == nil {
		return "", errors.New("read file: no content")
	}

	limited := io.LimitReader(&contextReader{ctx: ctx, r: body}, MaxFileSize+1)
	raw, err := io.ReadAll(limited)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	if int64(len(raw)) > MaxFileSize {
		return "", ErrContentTooLarge
	}

	head := raw
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	if kind, _ := filetype.Match(head); kind != filetype.Unknown {
		return "", fmt.Errorf("%w: %s", ErrBinaryContent, kind.MIME.Value)
	}

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	text, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return "", fmt.Errorf("decode file: %w", err)
	}
	return string(text), nil
}

// contextReader fails reads once its context is done, so a superseded run
// stops consuming its upload.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
