package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// ErrParsingFailed is returned when the OCR service errors and no local
// fallback is configured (or the fallback itself also fails).
var ErrParsingFailed = errors.New("contractcore: document parsing failed")

// DocumentParser implements the ingest.Parser interface: it sends a
// file to the external OCR client and, only when LocalFallback is
// enabled, falls back to local extraction if the OCR call itself
// errors. It never silently substitutes the fallback for the OCR
// contract on the default (LocalFallback == false) path.
type DocumentParser struct {
	OCR            *OCRClient
	LocalFallback  bool
	localExtractor LocalFallbackParser
}

// NewDocumentParser builds a DocumentParser.
func NewDocumentParser(ocr *OCRClient, localFallback bool) *DocumentParser {
	return &DocumentParser{OCR: ocr, LocalFallback: localFallback}
}

// Parse opens path and uploads it to the OCR service. If that fails and
// LocalFallback is set, it retries with the local PDF text extractor
// instead of propagating the OCR error.
func (p *DocumentParser) Parse(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening document: %w", err)
	}
	defer f.Close()

	text, err := p.OCR.ParseFile(ctx, path, f)
	if err == nil {
		return text, nil
	}
	if !p.LocalFallback {
		return "", fmt.Errorf("%w: %w", ErrParsingFailed, err)
	}

	slog.Warn("parser: OCR call failed, using local fallback", "error", err)
	text, fbErr := p.localExtractor.ParseLocalFile(path)
	if fbErr != nil {
		return "", fmt.Errorf("%w: %w", ErrParsingFailed, fbErr)
	}
	return text, nil
}
