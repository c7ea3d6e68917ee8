package ingest

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"
)

// maxDocumentBytes bounds how much of a document is read into memory.
const maxDocumentBytes = 10 << 20

// TextConverter handles plain-text formats and doubles as the fallback for
// unknown extensions.
type TextConverter struct{}

func (TextConverter) Supports(ext string) bool {
	switch ext {
	case ".txt", ".text", ".md", ".markdown", ".csv":
		return true
	}
	return false
}

func (TextConverter) Convert(ctx context.Context, r io.Reader) (string, error) {
	b, err := io.ReadAll(io.LimitReader(r, maxDocumentBytes+1))
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	if len(b) > maxDocumentBytes {
		return "", fmt.Errorf("document exceeds %d bytes", maxDocumentBytes)
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("document is not valid UTF-8 text")
	}
	if looksBinary(b) {
		return "", fmt.Errorf("document appears to be binary")
	}
	return string(b), nil
}

// looksBinary flags content with NUL bytes or a heavy share of control
// characters in the leading window.
func looksBinary(b []byte) bool {
	window := b
	if len(window) > 4096 {
		window = window[:4096]
	}
	control := 0
	for _, c := range window {
		if c == 0 {
			return true
		}
		if c < 0x20 && c != '\n' && c != '\r' && c != '\t' {
			control++
		}
	}
	return len(window) > 0 && control*10 > len(window)
}
