// Package tools implements the Tool Registry (spec.md C9): declares the
// four tool schemas the Agent Orchestrator can call, dispatches by name,
// and injects a file handle into tools that require one regardless of
// whether the model supplied one in its arguments.
package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/jihoonpark/contractcore/model"
)

var (
	// ErrToolNotFound is returned when Dispatch is asked to run a tool
	// name the registry does not declare.
	ErrToolNotFound = errors.New("contractcore: tool not found")

	// ErrNoDocument is returned when a file-requiring tool is dispatched
	// without a file attached to the calling session.
	ErrNoDocument = errors.New("contractcore: no document uploaded for this session")
)

// Schema describes one callable tool: its name, description, JSON
// Schema for arguments, and whether it needs an attached file.
type Schema struct {
	Name         string
	Description  string
	Parameters   map[string]any
	RequiresFile bool
}

// Handler executes one tool call given its arguments (already
// JSON-decoded) and, for file-requiring tools, the session's attached
// file path.
type Handler func(ctx context.Context, args map[string]any, filePath string) (any, error)

// Registry holds the four declared tools and dispatches calls by name.
type Registry struct {
	schemas  map[string]Schema
	handlers map[string]Handler
}

// NewRegistry builds an empty Registry; use Register to add tools.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]Schema), handlers: make(map[string]Handler)}
}

// Register adds a tool to the registry.
func (r *Registry) Register(s Schema, h Handler) {
	r.schemas[s.Name] = s
	r.handlers[s.Name] = h
}

// Schemas returns every declared tool schema; the orchestrator lists
// their names and descriptions in the router's system prompt.
func (r *Registry) Schemas() []Schema {
	out := make([]Schema, 0, len(r.schemas))
	for _, s := range r.schemas {
		out = append(out, s)
	}
	return out
}

// Dispatch runs the named tool. A missing tool name wraps ErrToolNotFound;
// the caller is expected to log and skip rather than abort the
// orchestrator loop.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any, filePath string) (any, error) {
	schema, ok := r.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	handler := r.handlers[name]
	if schema.RequiresFile && filePath == "" {
		return nil, fmt.Errorf("%w: tool %s requires an attached contract file", ErrNoDocument, name)
	}
	return handler(ctx, args, filePath)
}

// FindCaseResult is the output shape of find_case_tool.
type FindCaseResult struct {
	Cases []model.CaseMatch `json:"cases"`
}

// SimulateDisputeResult is the output shape of simulate_dispute_tool.
type SimulateDisputeResult struct {
	Simulations []string `json:"simulations"`
}

// FindToxicClausesResult is the output shape of find_toxic_clauses_tool.
type FindToxicClausesResult struct {
	Clauses []model.ToxicClause `json:"clauses"`
}

// WebSearchResultItem is one hit from web_search_tool.
type WebSearchResultItem struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// WebSearchResult is the output shape of web_search_tool.
type WebSearchResult struct {
	Results []WebSearchResultItem `json:"results"`
}
