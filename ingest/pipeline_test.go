package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/jihoonpark/contractcore/model"
)

type stubParser struct {
	text string
	err  error
}

func (p stubParser) Parse(ctx context.Context, path string) (string, error) {
	return p.text, p.err
}

type stubSummarizer struct {
	gotText string
	summary model.Summary
	err     error
}

func (s *stubSummarizer) Summarize(ctx context.Context, text string) (model.Summary, error) {
	s.gotText = text
	return s.summary, s.err
}

type stubExtractor struct {
	gotText   string
	highlights []model.ToxicClause
	err       error
}

func (e *stubExtractor) Extract(ctx context.Context, text string) ([]model.ToxicClause, error) {
	e.gotText = text
	return e.highlights, e.err
}

func TestPipelineRunSubstitutesPlaceholderOnEmptyParse(t *testing.T) {
	summarizer := &stubSummarizer{}
	extractor := &stubExtractor{}
	p := NewPipeline(stubParser{text: ""}, summarizer, extractor)

	if _, err := p.Run(context.Background(), "doc.pdf"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summarizer.gotText != placeholderText {
		t.Fatalf("expected summarizer to receive placeholder text, got %q", summarizer.gotText)
	}
	if extractor.gotText != placeholderText {
		t.Fatalf("expected extractor to receive placeholder text, got %q", extractor.gotText)
	}
}

func TestPipelineRunPassesParsedTextThrough(t *testing.T) {
	summarizer := &stubSummarizer{}
	extractor := &stubExtractor{}
	p := NewPipeline(stubParser{text: "계약서 본문"}, summarizer, extractor)

	if _, err := p.Run(context.Background(), "doc.pdf"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summarizer.gotText != "계약서 본문" || extractor.gotText != "계약서 본문" {
		t.Fatalf("expected parsed text passed to both stages, got summarizer=%q extractor=%q", summarizer.gotText, extractor.gotText)
	}
}

func TestPipelineRunAbortsOnParseError(t *testing.T) {
	p := NewPipeline(stubParser{err: errors.New("boom")}, &stubSummarizer{}, &stubExtractor{})
	if _, err := p.Run(context.Background(), "doc.pdf"); err == nil {
		t.Fatal("expected error when parse fails")
	}
}

func TestPipelineRunAbortsOnSummarizeError(t *testing.T) {
	p := NewPipeline(stubParser{text: "x"}, &stubSummarizer{err: errors.New("boom")}, &stubExtractor{})
	if _, err := p.Run(context.Background(), "doc.pdf"); err == nil {
		t.Fatal("expected error when summarize fails")
	}
}

func TestPipelineRunAbortsOnExtractError(t *testing.T) {
	p := NewPipeline(stubParser{text: "x"}, &stubSummarizer{}, &stubExtractor{err: errors.New("boom")})
	if _, err := p.Run(context.Background(), "doc.pdf"); err == nil {
		t.Fatal("expected error when extract fails")
	}
}

func TestPipelineRunReturnsComposedResult(t *testing.T) {
	want := model.IngestResult{
		Summary:    model.Summary{OverallSummary: "요약"},
		Highlights: []model.ToxicClause{{ToxicClause: "c"}},
	}
	p := NewPipeline(stubParser{text: "x"}, &stubSummarizer{summary: want.Summary}, &stubExtractor{highlights: want.Highlights})

	got, err := p.Run(context.Background(), "doc.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Summary != want.Summary {
		t.Fatalf("unexpected summary: %+v", got.Summary)
	}
	if len(got.Highlights) != 1 || got.Highlights[0].ToxicClause != "c" {
		t.Fatalf("unexpected highlights: %+v", got.Highlights)
	}
}
