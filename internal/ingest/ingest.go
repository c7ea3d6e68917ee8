// Package ingest turns uploaded documents into normalized plain text for the
// extraction pipeline. Converters are selected by file extension; unknown
// extensions fall through to the plain-text converter, which rejects binary
// content instead of feeding garbage downstream.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// Converter extracts plain text from one document format.
type Converter interface {
	// Supports reports whether ext (lowercase, with dot) is handled.
	Supports(ext string) bool
	// Convert reads the document and returns its text content.
	Convert(ctx context.Context, r io.Reader) (string, error)
}

// Service routes a document to the right converter and normalizes the output.
type Service struct {
	converters []Converter
	fallback   Converter
	logger     *slog.Logger
}

func NewService(logger *slog.Logger, converters ...Converter) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		converters: converters,
		fallback:   TextConverter{},
		logger:     logger,
	}
}

// Ingest converts the named document to normalized text. The name is only
// used for extension routing; content is read from r.
func (s *Service) Ingest(ctx context.Context, name string, r io.Reader) (string, error) {
	start := time.Now()
	ext := strings.ToLower(filepath.Ext(name))

	conv := s.fallback
	for _, c := range s.converters {
		if c.Supports(ext) {
			conv = c
			break
		}
	}

	text, err := conv.Convert(ctx, r)
	if err != nil {
		return "", fmt.Errorf("convert %q: %w", name, err)
	}
	text = NormalizeText(text)

	s.logger.Info("ingest.ok",
		"name", name,
		"ext", ext,
		"chars", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}
