// Package ingest implements the Ingestion Pipeline (spec.md C7):
// linearizes parse → summarize → extract and emits the canonical
// {summary, highlights} record for one uploaded document.
package ingest

import (
	"context"
	"fmt"

	"github.com/jihoonpark/contractcore/model"
)

// placeholderText substitutes for an empty parse result so summarize and
// extract still run against something, per spec.md §4.6.
const placeholderText = "(빈 문서입니다.)"

// Summarizer is the subset of summarize.Summarizer the pipeline needs.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (model.Summary, error)
}

// ToxicExtractor is the subset of toxic.Extractor the pipeline needs.
type ToxicExtractor interface {
	Extract(ctx context.Context, text string) ([]model.ToxicClause, error)
}

// Parser produces plain text from an uploaded file, abstracting over
// the OCR client and its local-development fallback.
type Parser interface {
	Parse(ctx context.Context, path string) (string, error)
}

// Pipeline wires a Parser, Summarizer, and ToxicExtractor into one
// serial ingestion run.
type Pipeline struct {
	Parser     Parser
	Summarizer Summarizer
	Extractor  ToxicExtractor
}

// NewPipeline builds a Pipeline from its three stages.
func NewPipeline(p Parser, s Summarizer, e ToxicExtractor) *Pipeline {
	return &Pipeline{Parser: p, Summarizer: s, Extractor: e}
}

// Run executes parse → summarize → extract in order. An empty parsed
// text is replaced with a placeholder and the pipeline continues — only
// a hard error from one of the three stages aborts the run; anything
// degraded inside the summarizer or extractor is already reflected in
// their return values.
func (p *Pipeline) Run(ctx context.Context, path string) (model.IngestResult, error) {
	text, err := p.Parser.Parse(ctx, path)
	if err != nil {
		return model.IngestResult{}, fmt.Errorf("parsing document: %w", err)
	}
	if text == "" {
		text = placeholderText
	}

	summary, err := p.Summarizer.Summarize(ctx, text)
	if err != nil {
		return model.IngestResult{}, fmt.Errorf("summarizing document: %w", err)
	}

	highlights, err := p.Extractor.Extract(ctx, text)
	if err != nil {
		return model.IngestResult{}, fmt.Errorf("extracting toxic clauses: %w", err)
	}

	return model.IngestResult{Summary: summary, Highlights: highlights}, nil
}
