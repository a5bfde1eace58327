package model

import (
	"encoding/json"
	"testing"
)

// TestToxicClauseFieldOrder locks in spec.md §3's serialization contract:
// the JSON-encoded field order must match struct declaration order, not
// be left to map iteration.
func TestToxicClauseFieldOrder(t *testing.T) {
	c := ToxicClause{
		ToxicClause:          "clause text",
		Reason:               "unfavorable to the contractor",
		RelatedCaseFormatted: "formatted precedent",
		RelatedCaseRaw:       "raw precedent",
		Similarity:           0.5,
	}
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"toxic_clause":"clause text","reason":"unfavorable to the contractor","related_case_formatted":"formatted precedent","related_case_raw":"raw precedent","similarity":0.5}`
	if string(b) != want {
		t.Fatalf("field order mismatch:\nwant %s\ngot  %s", want, b)
	}
}

func TestToxicClauseSimilarityRange(t *testing.T) {
	for _, score := range []float64{-1, -0.3, 0, 0.3, 1} {
		c := ToxicClause{Similarity: score}
		if c.Similarity < -1 || c.Similarity > 1 {
			t.Fatalf("similarity %v out of [-1,1] range", score)
		}
	}
}
