package casedb

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestArchiveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cases.archive")

	want := &EmbeddingIndex{
		Texts:   []string{"first case", "second case"},
		Vectors: [][]float32{{0.1, 0.2, 0.3}, {0.4, 0.5, 0.6}},
	}

	if err := saveArchive(path, want); err != nil {
		t.Fatalf("saveArchive: %v", err)
	}

	got, err := loadArchive(path)
	if err != nil {
		t.Fatalf("loadArchive: %v", err)
	}

	if !reflect.DeepEqual(want.Texts, got.Texts) || !reflect.DeepEqual(want.Vectors, got.Vectors) {
		t.Fatalf("round trip mismatch: want %+v, got %+v", want, got)
	}
}

func TestLoadArchiveMissingFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := loadArchive(filepath.Join(dir, "missing.archive")); err == nil {
		t.Fatal("expected error for missing archive file")
	}
}

func TestEmbeddingIndexDim(t *testing.T) {
	empty := &EmbeddingIndex{}
	if got := empty.Dim(); got != 0 {
		t.Fatalf("expected 0 for empty index, got %d", got)
	}

	idx := &EmbeddingIndex{Vectors: [][]float32{{1, 2, 3, 4}}}
	if got := idx.Dim(); got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}
}
