package casedb

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jihoonpark/contractcore/llm"
)

// stubEmbedProvider returns a fixed vector per input text (by exact
// match), falling back to a zero vector for anything unrecognized.
type stubEmbedProvider struct {
	vectors map[string][]float32
}

func (p *stubEmbedProvider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	return &llm.ChatResponse{Content: ""}, nil
}

func (p *stubEmbedProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, ok := p.vectors[t]
		if !ok {
			v = []float32{0, 0, 0}
		}
		out[i] = v
	}
	return out, nil
}

func writeCorpusJSON(t *testing.T, cases []map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cases.json")
	b, err := json.Marshal(cases)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCaseRetrieverLoadBuildsAndPersistsArchive(t *testing.T) {
	corpusPath := writeCorpusJSON(t, []map[string]string{
		{"key": "임대차 해지", "value": "판례 본문 1"},
		{"key": "손해배상 청구", "value": "판례 본문 2"},
	})
	archivePath := filepath.Join(t.TempDir(), "cases.archive")

	provider := &stubEmbedProvider{vectors: map[string][]float32{
		"임대차 해지":   {1, 0},
		"손해배상 청구": {0, 1},
	}}
	gw := llm.NewGateway(provider, provider)
	gw.MaxAttempts = 1

	r := NewCaseRetriever(corpusPath, archivePath, gw)
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 cases loaded, got %d", r.Len())
	}
	if _, err := os.Stat(archivePath); err != nil {
		t.Fatalf("expected archive to be persisted: %v", err)
	}

	// second Load call is a no-op
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("second Load: %v", err)
	}
}

func TestCaseRetrieverMostSimilarAndTopKAgree(t *testing.T) {
	corpusPath := writeCorpusJSON(t, []map[string]string{
		{"key": "임대차 해지", "value": "판례 본문 1"},
		{"key": "손해배상 청구", "value": "판례 본문 2"},
	})
	archivePath := filepath.Join(t.TempDir(), "cases.archive")

	provider := &stubEmbedProvider{vectors: map[string][]float32{
		"임대차 해지":   {1, 0},
		"손해배상 청구": {0, 1},
		"query":       {1, 0},
	}}
	gw := llm.NewGateway(provider, provider)
	gw.MaxAttempts = 1

	r := NewCaseRetriever(corpusPath, archivePath, gw)
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	best, err := r.MostSimilar(context.Background(), "query")
	if err != nil {
		t.Fatalf("MostSimilar: %v", err)
	}
	if best.Case.Key != "임대차 해지" {
		t.Fatalf("expected best match 임대차 해지, got %q", best.Case.Key)
	}

	queryVec, err := r.Embed(context.Background(), "query")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	top1, err := r.TopK(queryVec, 1)
	if err != nil {
		t.Fatalf("TopK: %v", err)
	}
	if len(top1) != 1 || top1[0].Case.Key != best.Case.Key || top1[0].Score != best.Score {
		t.Fatalf("expected TopK(1) to agree with MostSimilar, got %+v vs %+v", top1, best)
	}
}

func TestCaseRetrieverEmptyCorpusIsError(t *testing.T) {
	corpusPath := writeCorpusJSON(t, nil)
	archivePath := filepath.Join(t.TempDir(), "cases.archive")

	provider := &stubEmbedProvider{}
	gw := llm.NewGateway(provider, provider)
	r := NewCaseRetriever(corpusPath, archivePath, gw)

	if err := r.Load(context.Background()); err == nil {
		t.Fatal("expected error loading an empty corpus")
	}
}

func TestCaseRetrieverUnloadedCallsError(t *testing.T) {
	provider := &stubEmbedProvider{}
	gw := llm.NewGateway(provider, provider)
	r := NewCaseRetriever("unused.json", "unused.archive", gw)

	if _, err := r.MostSimilar(context.Background(), "x"); err == nil {
		t.Fatal("expected error calling MostSimilar before Load")
	}
	if _, err := r.TopK([]float32{1, 0}, 1); err == nil {
		t.Fatal("expected error calling TopK before Load")
	}
}
