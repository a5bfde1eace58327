package agent

import (
	"testing"

	"github.com/jihoonpark/contractcore/model"
	"github.com/jihoonpark/contractcore/tools"
)

func TestExtractCaseFieldsAllFour(t *testing.T) {
	text := "제목: 임대차 분쟁 사례\n\n요약: 보증금 반환 관련 판례\n\n주요 쟁점: 반환 지연\n\n판결: 임대인 패소"
	got := extractCaseFields(text)
	if got.Title != "임대차 분쟁 사례" {
		t.Fatalf("unexpected title: %q", got.Title)
	}
	if got.Summary != "보증금 반환 관련 판례" {
		t.Fatalf("unexpected summary: %q", got.Summary)
	}
	if got.KeyPoints != "반환 지연" {
		t.Fatalf("unexpected key points: %q", got.KeyPoints)
	}
	if got.JudgeResult != "임대인 패소" {
		t.Fatalf("unexpected judge result: %q", got.JudgeResult)
	}
}

func TestExtractCaseFieldsMissingHeadersAreEmpty(t *testing.T) {
	got := extractCaseFields("아무 헤더도 없는 텍스트")
	if got.Title != "" || got.Summary != "" || got.KeyPoints != "" || got.JudgeResult != "" {
		t.Fatalf("expected all fields empty, got %+v", got)
	}
}

func TestShapeCasesFromFindCaseResult(t *testing.T) {
	result := tools.FindCaseResult{Cases: []model.CaseMatch{
		{Case: model.Case{Key: "k", Value: "제목: 사건명\n\n요약: 내용"}, Score: 0.5},
	}}
	resp := shapeCases(result)
	if resp.Type != TypeCases || resp.Status != "success" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	cr, ok := resp.Response.(CaseResponse)
	if !ok || cr.Title != "사건명" {
		t.Fatalf("unexpected case response: %+v", resp.Response)
	}
}

func TestShapeSimulationMalformedResultErrors(t *testing.T) {
	resp := shapeSimulation("not a SimulateDisputeResult")
	if resp.Status != "error" {
		t.Fatalf("expected error status for malformed input, got %+v", resp)
	}
}

func TestShapeSimulationParsesEachEntry(t *testing.T) {
	result := tools.SimulateDisputeResult{Simulations: []string{
		"상황: 상황1\n사용자: 질문1\n상담원: 답변1",
		"malformed entry without markers",
	}}
	resp := shapeSimulation(result)
	if resp.Type != TypeSimulation || len(resp.Simulations) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Simulations[0].Situation == "" {
		t.Fatalf("expected first simulation to parse, got %+v", resp.Simulations[0])
	}
	if resp.Simulations[1].Situation != "" || resp.Simulations[1].User != "" {
		t.Fatalf("expected second (malformed) simulation to parse to empties, got %+v", resp.Simulations[1])
	}
}

func TestShapeWebSearchEmptyFallsBackToRaw(t *testing.T) {
	resp := shapeWebSearch(tools.WebSearchResult{})
	if resp.Status != "success" {
		t.Fatalf("unexpected status: %+v", resp)
	}
}

func TestShapeWebSearchJoinsResults(t *testing.T) {
	result := tools.WebSearchResult{Results: []tools.WebSearchResultItem{
		{Title: "t1", Content: "c1"},
		{Title: "t2", Content: "c2"},
	}}
	resp := shapeWebSearch(result)
	text, ok := resp.Response.(string)
	if !ok {
		t.Fatalf("expected string response, got %T", resp.Response)
	}
	if text == "" {
		t.Fatal("expected non-empty joined text")
	}
}

func TestShapeUnknownToolReportsError(t *testing.T) {
	o := &Orchestrator{}
	resp := o.shape("unknown_tool", nil)
	if resp.Status != "error" {
		t.Fatalf("expected error status for unknown tool, got %+v", resp)
	}
}
