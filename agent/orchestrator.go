// Package agent implements the Agent Orchestrator (spec.md C10): a
// router loop that chooses at most one tool per query, dispatches it
// through the Tool Registry, and shapes the result into one of three
// canonical response envelopes.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jihoonpark/contractcore/llm"
	"github.com/jihoonpark/contractcore/tools"
)

// Envelope types.
const (
	TypeSimpleDialogue = "simple_dialogue"
	TypeCases           = "cases"
	TypeSimulation       = "simulation"
)

// Response is the final shaped envelope returned to the caller. Only
// the fields matching Type are meaningfully populated.
type Response struct {
	Type        string             `json:"type"`
	Response    any                `json:"response,omitempty"`
	Simulations []SimulationRecord `json:"simulations,omitempty"`
	Status      string             `json:"status"`
	Message     string             `json:"message"`
}

// CaseResponse is the "cases" envelope's response payload.
type CaseResponse struct {
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	KeyPoints   string `json:"key points"`
	JudgeResult string `json:"judge result"`
}

// SimulationRecord is one entry in the "simulation" envelope.
type SimulationRecord struct {
	ID        int    `json:"id"`
	Situation string `json:"situation"`
	User      string `json:"user"`
	Agent     string `json:"agent"`
}

// routerDecision is the structured output the router call is asked to
// produce: at most one tool call, or none (meaning go straight to the
// formatter).
type routerDecision struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

// routerSystemPromptTemplate composes the system message for the router
// call: tool enumeration plus whether a file is attached.
const routerSystemPromptTemplate = `You are the router for a contract analysis assistant. You may call at most one tool per user message.

Available tools:
%s

A contract file is %s attached to this session.

If a tool should handle this message, respond with nothing but JSON: {"tool": "<name>", "args": {...}}. If no tool applies, respond with exactly: {"tool": ""}`

// forceToolKeywords map Korean keywords to a tool name, used as a
// fallback when the router call returns no valid tool decision but the
// message clearly calls for one — the original's heuristic for queries
// the base model under-triggers tools on.
var forceToolKeywords = map[string]string{
	"시뮬레이션":  "simulate_dispute_tool",
	"시뮬레이트":  "simulate_dispute_tool",
	"독소조항":   "find_toxic_clauses_tool",
	"독소 조항":  "find_toxic_clauses_tool",
	"판례":     "find_case_tool",
	"유사한 사례": "find_case_tool",
}

// Orchestrator wires a Registry and the LLM Gateway into the router/
// formatter loop.
type Orchestrator struct {
	Gateway      *llm.Gateway
	Tools        *tools.Registry
	FormatPrompt string
}

// NewOrchestrator builds an Orchestrator.
func NewOrchestrator(gw *llm.Gateway, reg *tools.Registry, formatPrompt string) *Orchestrator {
	return &Orchestrator{Gateway: gw, Tools: reg, FormatPrompt: formatPrompt}
}

// Handle runs one query through the router, dispatches at most one
// tool, and shapes the result.
func (o *Orchestrator) Handle(ctx context.Context, query, filePath string) Response {
	decision := o.route(ctx, query, filePath != "")

	if decision.Tool == "" {
		if forced := forceTool(query); forced != "" {
			decision = routerDecision{Tool: forced, Args: map[string]any{"query": query}}
		}
	}

	if decision.Tool == "" {
		text, err := o.Gateway.Complete(ctx, o.FormatPrompt, query, 0.7, 0)
		if err != nil {
			return errorResponse(err)
		}
		return Response{Type: TypeSimpleDialogue, Response: text, Status: "success", Message: "Response Successful"}
	}

	result, err := o.Tools.Dispatch(ctx, decision.Tool, decision.Args, filePath)
	if err != nil {
		slog.Warn("agent: tool dispatch failed", "tool", decision.Tool, "error", err)
		return errorResponse(err)
	}

	return o.shape(decision.Tool, result)
}

// route calls the chat provider at temperature 0.1 for deterministic
// tool selection and parses its JSON decision. A malformed or absent
// decision is treated as "no tool", and so is a decision naming a tool
// the registry does not declare (logged and skipped).
func (o *Orchestrator) route(ctx context.Context, query string, hasFile bool) routerDecision {
	attached := "not"
	if hasFile {
		attached = "currently"
	}
	system := fmt.Sprintf(routerSystemPromptTemplate, describeTools(o.Tools), attached)

	resp, err := o.Gateway.Complete(ctx, system, query, 0.1, 0)
	if err != nil {
		slog.Warn("agent: router call failed", "error", err)
		return routerDecision{}
	}

	var decision routerDecision
	if err := json.Unmarshal([]byte(resp), &decision); err != nil {
		return routerDecision{}
	}
	if decision.Tool != "" {
		declared := false
		for _, s := range o.Tools.Schemas() {
			declared = declared || s.Name == decision.Tool
		}
		if !declared {
			slog.Warn("agent: router named an undeclared tool, skipping", "tool", decision.Tool)
			return routerDecision{}
		}
	}
	return decision
}

func describeTools(reg *tools.Registry) string {
	var b strings.Builder
	for _, s := range reg.Schemas() {
		fmt.Fprintf(&b, "- %s: %s\n", s.Name, s.Description)
	}
	return b.String()
}

func forceTool(query string) string {
	for kw, tool := range forceToolKeywords {
		if strings.Contains(query, kw) {
			return tool
		}
	}
	return ""
}

func errorResponse(err error) Response {
	return Response{Type: TypeSimpleDialogue, Response: err.Error(), Status: "error", Message: err.Error()}
}
