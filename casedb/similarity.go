package casedb

import (
	"math"
	"sort"
)

// Cosine computes dot(a,b)/(‖a‖·‖b‖). Either vector having zero norm
// yields 0 rather than NaN, per spec.md §4.1. TopKIndices and
// MostSimilarIndex skip zero-norm rows, so such a row is never selected.
func Cosine(a, b []float32) float64 {
	na, nb := norm(a), norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return dot(a, b) / (na * nb)
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// IndexScore pairs a row index in an EmbeddingIndex with its similarity
// score against some query vector.
type IndexScore struct {
	Index int
	Score float64
}

// MostSimilarIndex returns the argmax cosine match between query and
// every non-zero-norm row of vectors. It returns (-1, 0) when vectors
// has no such row.
func MostSimilarIndex(vectors [][]float32, query []float32) IndexScore {
	best := IndexScore{Index: -1, Score: 0}
	for i, v := range vectors {
		if norm(v) == 0 {
			continue
		}
		score := Cosine(v, query)
		if best.Index == -1 || score > best.Score {
			best = IndexScore{Index: i, Score: score}
		}
	}
	return best
}

// TopKIndices returns the k highest-scoring rows in descending score
// order, ties broken by lower index first. Zero-norm rows are skipped,
// and k is clamped to the number of remaining rows.
func TopKIndices(vectors [][]float32, query []float32, k int) []IndexScore {
	scores := make([]IndexScore, 0, len(vectors))
	for i, v := range vectors {
		if norm(v) == 0 {
			continue
		}
		scores = append(scores, IndexScore{Index: i, Score: Cosine(v, query)})
	}
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].Index < scores[j].Index
	})
	if k > len(scores) {
		k = len(scores)
	}
	if k < 0 {
		k = 0
	}
	return scores[:k]
}
