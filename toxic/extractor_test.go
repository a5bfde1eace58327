package toxic

import (
	"context"
	"testing"

	"github.com/jihoonpark/contractcore/llm"
	"github.com/jihoonpark/contractcore/model"
)

// stubProvider returns a fixed chat response and never hits a network.
type stubProvider struct {
	content string
	err     error
}

func (s *stubProvider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llm.ChatResponse{Content: s.content}, nil
}

func (s *stubProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, nil
}

func newTestGateway(content string) *llm.Gateway {
	p := &stubProvider{content: content}
	gw := llm.NewGateway(p, p)
	gw.MaxAttempts = 1
	return gw
}

func TestParseJSONArrayExtractsBareArray(t *testing.T) {
	items, ok := parseJSONArray(`[{"toxic_clause": "clause A", "reason": "reason A"}]`)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if len(items) != 1 || items[0].ToxicClause != "clause A" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestParseJSONArraySurvivesSurroundingProse(t *testing.T) {
	raw := "Here is the result:\n[{\"toxic_clause\": \"c\", \"reason\": \"r\"}]\nThanks."
	items, ok := parseJSONArray(raw)
	if !ok || len(items) != 1 {
		t.Fatalf("expected one item extracted from surrounding prose, got %+v ok=%v", items, ok)
	}
}

func TestParseJSONArrayRejectsNonArray(t *testing.T) {
	if _, ok := parseJSONArray("no brackets here"); ok {
		t.Fatal("expected ok=false for text without brackets")
	}
}

func TestExtractRawEmptyArray(t *testing.T) {
	gw := newTestGateway("[]")
	got, err := ExtractRaw(context.Background(), gw, "계약서 본문")
	if err != nil {
		t.Fatalf("ExtractRaw: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no toxic clauses, got %+v", got)
	}
}

func TestExtractRawParsesItems(t *testing.T) {
	gw := newTestGateway(`[{"toxic_clause": "해지 조항", "reason": "일방적으로 불리함"}]`)
	got, err := ExtractRaw(context.Background(), gw, "계약서 본문")
	if err != nil {
		t.Fatalf("ExtractRaw: %v", err)
	}
	if len(got) != 1 || got[0].ToxicClause != "해지 조항" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

type stubCaseFinder struct {
	match model.CaseMatch
	err   error
}

func (f *stubCaseFinder) MostSimilar(ctx context.Context, text string) (model.CaseMatch, error) {
	return f.match, f.err
}

func TestExtractAttachesPrecedentPerItem(t *testing.T) {
	gw := newTestGateway(`[{"toxic_clause": "해지 조항", "reason": "불리함"}]`)
	finder := &stubCaseFinder{match: model.CaseMatch{
		Case:  model.Case{Key: "k", Value: "이 사건 판례 내용입니다 충분히 길게"},
		Score: 0.8,
	}}
	e := &Extractor{Gateway: gw, Cases: finder}

	got, err := e.Extract(context.Background(), "계약서 본문")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 clause, got %d", len(got))
	}
	if got[0].Similarity != 0.8 {
		t.Fatalf("expected similarity 0.8, got %v", got[0].Similarity)
	}
}

func TestFormatCaseGuardsShortInput(t *testing.T) {
	gw := newTestGateway("should not be called")
	if got := FormatCase(context.Background(), gw, "short"); got != guardInvalidPrecedent {
		t.Fatalf("expected invalid-precedent guard, got %q", got)
	}
}

func TestFormatCaseGuardsNonLegalInput(t *testing.T) {
	gw := newTestGateway("should not be called")
	if got := FormatCase(context.Background(), gw, "오늘 날씨가 좋다"); got != guardNonLegal {
		t.Fatalf("expected non-legal guard, got %q", got)
	}
}
