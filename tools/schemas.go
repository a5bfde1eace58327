package tools

import (
	"context"
	"fmt"

	"github.com/jihoonpark/contractcore/dispute"
	"github.com/jihoonpark/contractcore/llm"
	"github.com/jihoonpark/contractcore/model"
	"github.com/jihoonpark/contractcore/toxic"
)

// CaseFinder is the subset of casedb.CaseRetriever find_case_tool needs.
type CaseFinder interface {
	MostSimilar(ctx context.Context, text string) (model.CaseMatch, error)
}

// Parser is the subset of parser.DocumentParser the file-requiring
// tools need.
type Parser interface {
	Parse(ctx context.Context, path string) (string, error)
}

// WebSearcher abstracts an external web-search backend. No concrete
// implementation ships here — callers wire in whatever search API they
// have credentials for; a nil WebSearcher makes web_search_tool return
// an empty result set rather than panic.
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]WebSearchResultItem, error)
}

// RegisterDefaults declares the four spec-mandated tools against the
// given dependencies and registers them on r.
func RegisterDefaults(r *Registry, cases CaseFinder, gw *llm.Gateway, p Parser, sim *dispute.Simulator, search WebSearcher) {
	r.Register(Schema{
		Name:        "find_case_tool",
		Description: "계약서 조항과 유사한 판례를 검색합니다.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string"},
			},
			"required": []string{"query"},
		},
	}, func(ctx context.Context, args map[string]any, filePath string) (any, error) {
		query, _ := args["query"].(string)
		match, err := cases.MostSimilar(ctx, query)
		if err != nil {
			return nil, err
		}
		return FindCaseResult{Cases: []model.CaseMatch{match}}, nil
	})

	r.Register(Schema{
		Name:         "find_toxic_clauses_tool",
		Description:  "첨부된 계약서에서 독소 조항을 추출합니다.",
		RequiresFile: true,
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string"},
			},
			"required": []string{"query"},
		},
	}, func(ctx context.Context, args map[string]any, filePath string) (any, error) {
		text, err := p.Parse(ctx, filePath)
		if err != nil {
			return nil, fmt.Errorf("parsing attached file: %w", err)
		}
		extractor := toxic.NewExtractor(gw, cases)
		clauses, err := extractor.Extract(ctx, text)
		if err != nil {
			return nil, err
		}
		return FindToxicClausesResult{Clauses: clauses}, nil
	})

	r.Register(Schema{
		Name:         "simulate_dispute_tool",
		Description:  "유저 쿼리와 계약 문서에 기반하여 계약 분쟁 시뮬레이션을 실행합니다.",
		RequiresFile: true,
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string"},
			},
			"required": []string{"query"},
		},
	}, func(ctx context.Context, args map[string]any, filePath string) (any, error) {
		query, _ := args["query"].(string)
		state := sim.Run(ctx, model.AgentState{Query: query, DocPath: filePath})
		if state.HasError() {
			return nil, fmt.Errorf("dispute simulation: %s", state.Error)
		}
		return SimulateDisputeResult{Simulations: state.Simulations}, nil
	})

	r.Register(Schema{
		Name:        "web_search_tool",
		Description: "계약서 분석과 직접 관련 없는 일반적인 법률 질문에 대해 웹 검색을 수행합니다.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string"},
			},
			"required": []string{"query"},
		},
	}, func(ctx context.Context, args map[string]any, filePath string) (any, error) {
		if search == nil {
			return WebSearchResult{}, nil
		}
		query, _ := args["query"].(string)
		items, err := search.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		return WebSearchResult{Results: items}, nil
	})
}
