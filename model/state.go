package model

// AgentState is the dispute simulator's scratch record (spec.md §3). It
// flows linearly through a fixed sequence of stages; each stage reads
// fields written by earlier stages and writes its own. A non-empty Error
// short-circuits every remaining stage. Stages receive and return
// AgentState by value — see dispute.Stage — so no stage can mutate a
// sibling's view of the state.
type AgentState struct {
	Query                string
	DocPath              string // contract file to parse; set by the caller, read only by the parse stage
	DocumentText         string
	ToxicClauses         []RawToxicClause
	RelevantToxicClauses []RawToxicClause
	SimilarCases         [][]CaseMatch // one slice per relevant clause, top-10 candidates
	SelectedCases        []CaseMatch   // one winner per relevant clause, same length as RelevantToxicClauses
	Simulations          []string
	Error                string
}

// WithError returns a copy of s with Error set from err. A nil err leaves
// Error untouched.
func (s AgentState) WithError(err error) AgentState {
	if err == nil {
		return s
	}
	s.Error = err.Error()
	return s
}

// HasError reports whether a prior stage has already failed.
func (s AgentState) HasError() bool {
	return s.Error != ""
}
