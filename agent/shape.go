package agent

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/jihoonpark/contractcore/dispute"
	"github.com/jihoonpark/contractcore/tools"
)

// shape turns one tool's raw output into the envelope its tool name
// maps to, per spec.md §4.8's response extractor rules.
func (o *Orchestrator) shape(toolName string, result any) Response {
	switch toolName {
	case "find_case_tool":
		return shapeCases(result)
	case "simulate_dispute_tool":
		return shapeSimulation(result)
	case "find_toxic_clauses_tool":
		return shapeToxicClauses(result)
	case "web_search_tool":
		return shapeWebSearch(result)
	default:
		return Response{Type: TypeSimpleDialogue, Status: "error", Message: "unknown tool output shape"}
	}
}

var headerRe = regexp.MustCompile(`(?s)(제목|요약|주요 쟁점|판결):\s*(.*?)(?:\n\n|$)`)

// extractCaseFields splits free text on the literal headers 제목/요약/
// 주요 쟁점/판결, taking the first occurrence of each, greedy until a
// blank line or end of string.
func extractCaseFields(text string) CaseResponse {
	fields := map[string]string{}
	for _, m := range headerRe.FindAllStringSubmatch(text, -1) {
		key := m[1]
		if _, seen := fields[key]; !seen {
			fields[key] = strings.TrimSpace(m[2])
		}
	}
	return CaseResponse{
		Title:       fields["제목"],
		Summary:     fields["요약"],
		KeyPoints:   fields["주요 쟁점"],
		JudgeResult: fields["판결"],
	}
}

func shapeCases(result any) Response {
	var text string
	switch v := result.(type) {
	case tools.FindCaseResult:
		if len(v.Cases) > 0 {
			text = v.Cases[0].Case.Value
		}
	case string:
		text = v
	default:
		b, _ := json.Marshal(result)
		text = string(b)
	}
	return Response{Type: TypeCases, Response: extractCaseFields(text), Status: "success", Message: "Response Successful"}
}

func shapeSimulation(result any) Response {
	res, ok := result.(tools.SimulateDisputeResult)
	if !ok {
		return Response{Type: TypeSimulation, Status: "error", Message: "malformed simulation result"}
	}
	records := make([]SimulationRecord, len(res.Simulations))
	for i, sim := range res.Simulations {
		situation, user, agentMsg := dispute.ParseSimulation(sim)
		records[i] = SimulationRecord{ID: i, Situation: situation, User: user, Agent: agentMsg}
	}
	return Response{Type: TypeSimulation, Simulations: records, Status: "success", Message: "Response Successful"}
}

func shapeToxicClauses(result any) Response {
	res, ok := result.(tools.FindToxicClausesResult)
	if !ok {
		return Response{Type: TypeSimpleDialogue, Status: "error", Message: "malformed toxic clause result"}
	}
	b, _ := json.Marshal(res.Clauses)
	return Response{Type: TypeSimpleDialogue, Response: string(b), Status: "success", Message: "Response Successful"}
}

func shapeWebSearch(result any) Response {
	res, ok := result.(tools.WebSearchResult)
	if !ok || len(res.Results) == 0 {
		b, _ := json.Marshal(result)
		return Response{Type: TypeSimpleDialogue, Response: string(b), Status: "success", Message: "Response Successful"}
	}
	var b strings.Builder
	for _, item := range res.Results {
		b.WriteString(item.Title)
		b.WriteString("\n")
		b.WriteString(item.Content)
		b.WriteString("\n\n")
	}
	return Response{Type: TypeSimpleDialogue, Response: strings.TrimSpace(b.String()), Status: "success", Message: "Response Successful"}
}
