// Package parser implements the Document Parser (spec.md C4): a thin
// client over an external OCR service, plus a local-development
// fallback that never substitutes for the documented OCR path.
package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"
)

// DefaultOCRBaseURL is the document-parse endpoint the original pointed
// at; callers may override via Config.
const DefaultOCRBaseURL = "https://api.upstage.ai/v1/document-ai/document-parse"

// OCRConfig configures the external OCR client.
type OCRConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// OCRClient sends one document to the external OCR service with OCR
// forced, and returns its plain-text rendering.
type OCRClient struct {
	cfg OCRConfig
}

// NewOCRClient builds a client, defaulting BaseURL/Timeout when unset.
func NewOCRClient(cfg OCRConfig) *OCRClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOCRBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &OCRClient{cfg: cfg}
}

// ocrResponse is the subset of the OCR service's envelope this client
// reads: response.content.text.
type ocrResponse struct {
	Content struct {
		Text string `json:"text"`
	} `json:"content"`
}

// ParseFile uploads the file at path with OCR forced, chart
// recognition on, and text-only output, and returns response.content.text.
// The caller's file handle must be positioned at offset 0; ParseFile
// reads it to EOF. Empty text is returned without error — callers decide
// whether an empty document is fatal.
func (c *OCRClient) ParseFile(ctx context.Context, path string, r io.Reader) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("OCR API key not configured")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("document", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", err
	}

	fields := map[string]string{
		"ocr":               "force",
		"coordinates":       "false",
		"chart_recognition": "true",
		"output_formats":    "['text']",
		"base64_encoding":   "[]",
		"model":             "document-parse",
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return "", err
		}
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	client := &http.Client{Timeout: c.cfg.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request to OCR service: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OCR service error %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed ocrResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decoding OCR response: %w", err)
	}
	return parsed.Content.Text, nil
}
