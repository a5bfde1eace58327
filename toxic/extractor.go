// Package toxic implements the Toxic-Clause Extractor (spec.md C6):
// JSON-array extraction of disadvantageous clauses from contract text,
// with per-item precedent attach through the Case Retriever.
package toxic

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jihoonpark/contractcore/llm"
	"github.com/jihoonpark/contractcore/model"
)

// MinValidInputLen is the guardrail threshold below which a precedent
// description is rejected as too short to format.
const MinValidInputLen = 10

const (
	guardInvalidPrecedent = "유효한 판례 정보가 필요합니다."
	guardNonLegal         = "계약서 분석과 관련된 내용만 처리할 수 있습니다."
)

var legalTerms = []string{"판례", "법원", "계약", "조항"}

// SystemPrompt instructs the extraction model to return a bare JSON
// array of {toxic_clause, reason} objects.
const SystemPrompt = `You are a contract risk analyst. Read the contract text provided by the user and identify every clause that is unusually disadvantageous to one party (a "toxic clause").

Respond with nothing but a JSON array. Each element must be an object with exactly two keys: "toxic_clause" (the verbatim or closely paraphrased clause text) and "reason" (a concise explanation of why it is disadvantageous). If no toxic clauses are found, respond with an empty array.`

// FormatPrompt instructs the formatting model to turn a raw precedent
// body into a human-readable summary.
const FormatPrompt = `You are a legal writing assistant. Given the text of a court precedent, write a short, plain-language summary of its holding, suitable for a non-lawyer reading a contract analysis report.`

// CaseFinder is the subset of casedb.CaseRetriever the extractor needs —
// kept as an interface so dispute/agent stages can share a mock in tests.
type CaseFinder interface {
	MostSimilar(ctx context.Context, text string) (model.CaseMatch, error)
}

// Extractor runs the six-step extraction algorithm.
type Extractor struct {
	Gateway *llm.Gateway
	Cases   CaseFinder
}

// NewExtractor builds an Extractor.
func NewExtractor(gw *llm.Gateway, cases CaseFinder) *Extractor {
	return &Extractor{Gateway: gw, Cases: cases}
}

// rawItem is the wire shape of one element the extraction LLM returns.
type rawItem struct {
	ToxicClause string `json:"toxic_clause"`
	Reason      string `json:"reason"`
}

// ExtractRaw runs steps 1-3 only: prompt, fence/array extraction, parse.
// It attaches no precedent and shares no state with Extract — the
// dispute simulator (C8) calls this directly so its own clause-selection
// and precedent-retrieval stages stay independently testable.
func ExtractRaw(ctx context.Context, gw *llm.Gateway, text string) ([]model.RawToxicClause, error) {
	resp, err := gw.Complete(ctx, SystemPrompt, text, 1.0, 0)
	if err != nil {
		return nil, fmt.Errorf("toxic extraction call: %w", err)
	}

	items, ok := parseJSONArray(resp)
	if !ok {
		return nil, nil
	}

	out := make([]model.RawToxicClause, len(items))
	for i, it := range items {
		out[i] = model.RawToxicClause{ToxicClause: it.ToxicClause, Reason: it.Reason}
	}
	return out, nil
}

// Extract runs the full six-step algorithm: raw extraction, then for
// each item a precedent lookup through the Case Retriever and a
// formatted summary through the LLM Gateway. A per-item retrieval or
// formatting failure degrades only that item's RelatedCaseFormatted; it
// never aborts the whole extraction.
func (e *Extractor) Extract(ctx context.Context, text string) ([]model.ToxicClause, error) {
	raw, err := ExtractRaw(ctx, e.Gateway, text)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	out := make([]model.ToxicClause, len(raw))
	for i, item := range raw {
		match, err := e.Cases.MostSimilar(ctx, item.ToxicClause)
		if err != nil {
			slog.Warn("toxic: precedent lookup failed", "clause", item.ToxicClause, "error", err)
			out[i] = model.ToxicClause{
				ToxicClause:          item.ToxicClause,
				Reason:               item.Reason,
				RelatedCaseFormatted: fmt.Sprintf("판례 분석 중 오류가 발생했습니다: %s", err),
			}
			continue
		}

		formatted := FormatCase(ctx, e.Gateway, match.Case.Value)
		out[i] = model.ToxicClause{
			ToxicClause:          item.ToxicClause,
			Reason:               item.Reason,
			RelatedCaseFormatted: formatted,
			RelatedCaseRaw:       match.Case.Value,
			Similarity:           match.Score,
		}
	}
	return out, nil
}

// FormatCase applies the two guardrail stubs before calling the LLM
// Gateway at temperature 1.0, per spec.md §4.5 step 5. It is exported so
// the dispute simulator (C8) can format its selected precedent the same
// way, per spec.md §4.7 step 5.
func FormatCase(ctx context.Context, gw *llm.Gateway, caseDetails string) string {
	trimmed := strings.TrimSpace(caseDetails)
	if len(trimmed) < MinValidInputLen {
		return guardInvalidPrecedent
	}
	if len(strings.Fields(trimmed)) < 5 && !containsAny(trimmed, legalTerms) {
		return guardNonLegal
	}

	result, err := gw.Complete(ctx, FormatPrompt, caseDetails, 1.0, 0)
	if err != nil {
		return fmt.Sprintf("판례 분석 중 오류가 발생했습니다: %s", err)
	}
	result = strings.TrimSpace(result)
	if result == "" {
		return "판례 분석 결과가 없습니다."
	}
	return result
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// parseJSONArray implements spec.md §4.5 step 2-3: fences already
// stripped by the gateway, locate the substring from the first '[' to
// the last ']' and parse it as JSON. Anything that isn't a JSON array
// of objects is reported as ok=false.
func parseJSONArray(s string) ([]rawItem, bool) {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end < start {
		return nil, false
	}

	var items []rawItem
	if err := json.Unmarshal([]byte(s[start:end+1]), &items); err != nil {
		return nil, false
	}
	return items, true
}
