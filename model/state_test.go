package model

import (
	"errors"
	"testing"
)

func TestAgentStateWithErrorNilLeavesUntouched(t *testing.T) {
	s := AgentState{Query: "q"}
	got := s.WithError(nil)
	if got.HasError() {
		t.Fatalf("expected no error after WithError(nil), got %q", got.Error)
	}
}

func TestAgentStateWithErrorSetsAndShortCircuits(t *testing.T) {
	s := AgentState{Query: "q"}
	got := s.WithError(errors.New("boom"))
	if !got.HasError() {
		t.Fatal("expected HasError to be true after WithError(err)")
	}
	if got.Error != "boom" {
		t.Fatalf("expected Error %q, got %q", "boom", got.Error)
	}
	// original must be unaffected — AgentState flows by value.
	if s.HasError() {
		t.Fatal("original state was mutated by WithError")
	}
}

func TestSessionHasFile(t *testing.T) {
	if (Session{}).HasFile() {
		t.Fatal("empty session should report no file")
	}
	if !(Session{PDFFilePath: "/tmp/x.pdf"}).HasFile() {
		t.Fatal("session with a path should report HasFile")
	}
}
