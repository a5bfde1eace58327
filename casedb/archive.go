// Package casedb implements the Embedding Store and Case Retriever
// (spec.md C1, C2): a precomputed case-law corpus held as two parallel
// in-memory arrays, persisted on disk as a single archive, with
// cosine-similarity lookups that make no promises beyond spec.md §4.1.
package casedb

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jihoonpark/contractcore/llm"
)

// EmbeddingIndex is the in-memory representation of spec.md §3's
// "parallel arrays (texts, vectors)". It is immutable once loaded;
// concurrent readers never take a lock.
type EmbeddingIndex struct {
	Texts   []string
	Vectors [][]float32
}

// Dim returns the embedding dimensionality, or 0 if the index is empty.
func (idx *EmbeddingIndex) Dim() int {
	if len(idx.Vectors) == 0 {
		return 0
	}
	return len(idx.Vectors[0])
}

// archive is the on-disk gob encoding of an EmbeddingIndex — the Go
// equivalent of the original's two-array .npz file.
type archive struct {
	Texts   []string
	Vectors [][]float32
}

// loadArchive reads a gob-encoded archive from path. A missing file is
// reported as os.IsNotExist so callers can distinguish "rebuild" from
// "corrupt".
func loadArchive(path string) (*EmbeddingIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var a archive
	if err := gob.NewDecoder(f).Decode(&a); err != nil {
		return nil, fmt.Errorf("decoding embedding archive: %w", err)
	}
	return &EmbeddingIndex{Texts: a.Texts, Vectors: a.Vectors}, nil
}

// saveArchive writes the index atomically: encode to a temp file in the
// same directory, then rename over the destination.
func saveArchive(path string, idx *EmbeddingIndex) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating archive directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".archive-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp archive: %w", err)
	}
	tmpPath := tmp.Name()

	a := archive{Texts: idx.Texts, Vectors: idx.Vectors}
	if err := gob.NewEncoder(tmp).Encode(a); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encoding embedding archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming embedding archive into place: %w", err)
	}
	return nil
}

// buildArchive embeds every case key through the gateway, in order, and
// returns the resulting index. Embedding-provider errors propagate per
// spec.md §4.1's failure contract.
func buildArchive(ctx context.Context, gw *llm.Gateway, cases []caseEntry) (*EmbeddingIndex, error) {
	texts := make([]string, len(cases))
	vectors := make([][]float32, len(cases))
	var dim int
	for i, c := range cases {
		v, err := gw.Embed(ctx, c.Key)
		if err != nil {
			return nil, fmt.Errorf("embedding case %d: %w", i, err)
		}
		if i == 0 {
			dim = len(v)
		} else if len(v) != dim {
			return nil, fmt.Errorf("embedding dimension mismatch: case 0 has %d, case %d has %d", dim, i, len(v))
		}
		texts[i] = c.Key
		vectors[i] = v
	}
	return &EmbeddingIndex{Texts: texts, Vectors: vectors}, nil
}
