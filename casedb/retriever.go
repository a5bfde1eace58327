package casedb

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jihoonpark/contractcore/llm"
	"github.com/jihoonpark/contractcore/model"
)

var (
	// ErrCorpusEmpty is returned when the case-law corpus has no entries.
	ErrCorpusEmpty = errors.New("contractcore: case corpus is empty")

	// ErrEmbeddingFailed is returned when generating an embedding for the
	// corpus or a query fails.
	ErrEmbeddingFailed = errors.New("contractcore: embedding generation failed")
)

// CaseRetriever is the Case Retriever of spec.md §4.1: a case-law corpus
// plus its embedding archive, loaded once and held read-only for the
// life of the process.
type CaseRetriever struct {
	CorpusPath  string
	ArchivePath string
	Gateway     *llm.Gateway

	mu     sync.RWMutex
	cases  []model.Case
	index  *EmbeddingIndex
	loaded bool
}

// NewCaseRetriever builds a retriever for the given corpus/archive paths.
// Load must be called before MostSimilar or TopK.
func NewCaseRetriever(corpusPath, archivePath string, gw *llm.Gateway) *CaseRetriever {
	return &CaseRetriever{CorpusPath: corpusPath, ArchivePath: archivePath, Gateway: gw}
}

// Load reads the corpus (JSON, or XLSX if CorpusPath ends in .xlsx) and
// either loads a matching embedding archive from disk or builds one
// through the gateway and persists it. Load is idempotent: a second call
// is a no-op.
func (r *CaseRetriever) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return nil
	}

	cases, err := r.loadCorpus()
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		return fmt.Errorf("%w: %q", ErrCorpusEmpty, r.CorpusPath)
	}

	idx, err := loadArchive(r.ArchivePath)
	if err == nil && len(idx.Texts) == len(cases) {
		r.cases, r.index, r.loaded = cases, idx, true
		return nil
	}

	entries := toCaseEntries(cases)
	built, err := buildArchive(ctx, r.Gateway, entries)
	if err != nil {
		return fmt.Errorf("%w: building embedding archive: %w", ErrEmbeddingFailed, err)
	}
	if err := saveArchive(r.ArchivePath, built); err != nil {
		return fmt.Errorf("persisting embedding archive: %w", err)
	}

	r.cases, r.index, r.loaded = cases, built, true
	return nil
}

func (r *CaseRetriever) loadCorpus() ([]model.Case, error) {
	if hasSuffix(r.CorpusPath, ".xlsx") {
		return LoadCorpusXLSX(r.CorpusPath)
	}
	return LoadCorpusJSON(r.CorpusPath)
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

// MostSimilar embeds text and returns the single best-matching case,
// per spec.md §4.1's mostSimilar(text) contract. It returns an error
// wrapping ErrCorpusEmpty when no case has a non-zero embedding.
func (r *CaseRetriever) MostSimilar(ctx context.Context, text string) (model.CaseMatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.loaded {
		return model.CaseMatch{}, fmt.Errorf("case retriever not loaded")
	}

	v, err := r.Gateway.Embed(ctx, text)
	if err != nil {
		return model.CaseMatch{}, fmt.Errorf("%w: embedding query: %w", ErrEmbeddingFailed, err)
	}
	best := MostSimilarIndex(r.index.Vectors, v)
	if best.Index == -1 {
		return model.CaseMatch{}, fmt.Errorf("%w: no case with a non-zero embedding", ErrCorpusEmpty)
	}
	return model.CaseMatch{Case: r.cases[best.Index], Score: best.Score}, nil
}

// TopK returns the k best-matching cases for an already-computed query
// vector, per spec.md §4.1's topK(queryVector, k) contract — callers that
// already hold an embedding (e.g. a batch of clauses embedded together)
// skip the redundant Embed call that MostSimilar makes internally.
func (r *CaseRetriever) TopK(queryVector []float32, k int) ([]model.CaseMatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.loaded {
		return nil, fmt.Errorf("case retriever not loaded")
	}

	scored := TopKIndices(r.index.Vectors, queryVector, k)
	matches := make([]model.CaseMatch, len(scored))
	for i, s := range scored {
		matches[i] = model.CaseMatch{Case: r.cases[s.Index], Score: s.Score}
	}
	return matches, nil
}

// Embed exposes the gateway's embed call so callers (e.g. the dispute
// simulator) can compute a query vector once and reuse it across
// both MostSimilar-equivalent lookups and TopK without re-embedding.
func (r *CaseRetriever) Embed(ctx context.Context, text string) ([]float32, error) {
	return r.Gateway.Embed(ctx, text)
}

// Len reports the corpus size once loaded, 0 otherwise.
func (r *CaseRetriever) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cases)
}

// Dim reports the embedding dimensionality once loaded, 0 otherwise.
func (r *CaseRetriever) Dim() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.index == nil {
		return 0
	}
	return r.index.Dim()
}
