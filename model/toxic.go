package model

// ToxicClause is an ordered record: field order is part of the
// serialization contract (spec.md §3) and must never be reshuffled into
// a map whose iteration order is unspecified.
type ToxicClause struct {
	ToxicClause           string  `json:"toxic_clause"`
	Reason                string  `json:"reason"`
	RelatedCaseFormatted  string  `json:"related_case_formatted"`
	RelatedCaseRaw        string  `json:"related_case_raw"`
	Similarity            float64 `json:"similarity"`
}

// RawToxicClause is what the extraction LLM call (C6 steps 1-3) returns
// before precedent attach: just the clause text and the reason it is
// considered disadvantageous.
type RawToxicClause struct {
	ToxicClause string `json:"toxic_clause"`
	Reason      string `json:"reason"`
}
