package agent

import (
	"context"
	"testing"

	"github.com/jihoonpark/contractcore/tools"
)

func TestForceToolMatchesKeyword(t *testing.T) {
	cases := map[string]string{
		"이 계약의 독소조항을 찾아줘":   "find_toxic_clauses_tool",
		"분쟁 시뮬레이션 해줘":       "simulate_dispute_tool",
		"비슷한 판례를 알려줘":       "find_case_tool",
		"오늘 날씨 어때":          "",
	}
	for query, want := range cases {
		if got := forceTool(query); got != want {
			t.Fatalf("forceTool(%q) = %q, want %q", query, got, want)
		}
	}
}

func TestDescribeToolsListsEachSchema(t *testing.T) {
	reg := tools.NewRegistry()
	reg.Register(tools.Schema{Name: "find_case_tool", Description: "검색"}, func(ctx context.Context, args map[string]any, filePath string) (any, error) {
		return nil, nil
	})
	desc := describeTools(reg)
	if desc == "" {
		t.Fatal("expected non-empty tool description")
	}
}
