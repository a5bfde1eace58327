// Package model holds the data types shared across the ingestion pipeline,
// the dispute simulator, and the agent orchestrator — the nouns every stage
// reads and writes but that no single stage owns.
package model

import "strings"

// RequiredSummaryKeys are the seven keys a Summary must carry, in the
// canonical order used when re-rendering one as "key: value" lines.
var RequiredSummaryKeys = []string{
	"Overall Summary",
	"Purpose",
	"Cost",
	"Revenue",
	"Contract Duration",
	"Contractor's Responsibilities",
	"Key Findings",
}

// DegradedSummarySentinel is emitted when the summarizer exhausts its
// retry budget without producing every required key.
const DegradedSummarySentinel = "요약에 문제가 있습니다."

// Summary is the schema-constrained output of the Summarizer (C5). Field
// order has no serialization contract of its own — unlike ToxicClause —
// but the seven keys must all be present.
type Summary struct {
	OverallSummary              string `json:"Overall Summary"`
	Purpose                     string `json:"Purpose"`
	Cost                        string `json:"Cost"`
	Revenue                     string `json:"Revenue"`
	ContractDuration            string `json:"Contract Duration"`
	ContractorsResponsibilities string `json:"Contractor's Responsibilities"`
	KeyFindings                 string `json:"Key Findings"`
}

// DegradedSummary returns a Summary with every field set to the degraded
// sentinel, used when the retry budget elapses.
func DegradedSummary() Summary {
	s := DegradedSummarySentinel
	return Summary{
		OverallSummary:              s,
		Purpose:                     s,
		Cost:                        s,
		Revenue:                     s,
		ContractDuration:            s,
		ContractorsResponsibilities: s,
		KeyFindings:                 s,
	}
}

// ToMap renders a Summary as the key→value map C5's line parser produces,
// used to test that the parser is idempotent on its own rendered form.
func (s Summary) ToMap() map[string]string {
	return map[string]string{
		"Overall Summary":                s.OverallSummary,
		"Purpose":                        s.Purpose,
		"Cost":                           s.Cost,
		"Revenue":                        s.Revenue,
		"Contract Duration":              s.ContractDuration,
		"Contractor's Responsibilities":  s.ContractorsResponsibilities,
		"Key Findings":                   s.KeyFindings,
	}
}

// SummaryFromMap builds a Summary from a parsed key→value map. The caller
// is responsible for having verified all required keys are present.
func SummaryFromMap(m map[string]string) Summary {
	return Summary{
		OverallSummary:              m["Overall Summary"],
		Purpose:                     m["Purpose"],
		Cost:                        m["Cost"],
		Revenue:                     m["Revenue"],
		ContractDuration:            m["Contract Duration"],
		ContractorsResponsibilities: m["Contractor's Responsibilities"],
		KeyFindings:                 m["Key Findings"],
	}
}

// Render writes a Summary back out in the "key: value" line format the
// Summarizer's parser consumes, in RequiredSummaryKeys order.
func (s Summary) Render() string {
	m := s.ToMap()
	var b strings.Builder
	for i, k := range RequiredSummaryKeys {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(m[k])
	}
	return b.String()
}

// MissingKeys returns the subset of RequiredSummaryKeys absent from m.
func MissingKeys(m map[string]string) []string {
	var missing []string
	for _, k := range RequiredSummaryKeys {
		if _, ok := m[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}
