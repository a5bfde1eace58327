package model

// Case is a single corpus entry: Key is the text that gets embedded,
// Value is the verbatim precedent body.
type Case struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CaseMatch pairs a retrieved case with its similarity score against
// whatever query produced it. Formatted holds the LLM-rendered,
// plain-language summary of Case.Value once a caller has run it through
// the formatting pass (spec.md §4.5 step 5 / §4.7 step 5); it is empty
// until then.
type CaseMatch struct {
	Case      Case
	Score     float64
	Formatted string
}
