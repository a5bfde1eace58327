package tools

import (
	"context"
	"testing"
)

func TestDispatchUnknownTool(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Dispatch(context.Background(), "nope", nil, ""); err == nil {
		t.Fatal("expected error for unregistered tool")
	}
}

func TestDispatchRequiresFileWhenDeclared(t *testing.T) {
	r := NewRegistry()
	called := false
	r.Register(Schema{Name: "needs_file", RequiresFile: true}, func(ctx context.Context, args map[string]any, filePath string) (any, error) {
		called = true
		return nil, nil
	})

	if _, err := r.Dispatch(context.Background(), "needs_file", nil, ""); err == nil {
		t.Fatal("expected error when no file attached for a file-requiring tool")
	}
	if called {
		t.Fatal("handler must not run when the file precondition fails")
	}

	if _, err := r.Dispatch(context.Background(), "needs_file", nil, "/tmp/doc.pdf"); err != nil {
		t.Fatalf("unexpected error with file attached: %v", err)
	}
	if !called {
		t.Fatal("expected handler to run once the file precondition is met")
	}
}

func TestSchemasListsAllRegistered(t *testing.T) {
	r := NewRegistry()
	r.Register(Schema{Name: "a"}, func(ctx context.Context, args map[string]any, filePath string) (any, error) { return nil, nil })
	r.Register(Schema{Name: "b"}, func(ctx context.Context, args map[string]any, filePath string) (any, error) { return nil, nil })

	schemas := r.Schemas()
	if len(schemas) != 2 {
		t.Fatalf("expected 2 schemas, got %d", len(schemas))
	}
}

func TestDispatchPassesArgsAndFilePath(t *testing.T) {
	r := NewRegistry()
	var gotQuery, gotPath string
	r.Register(Schema{Name: "echo"}, func(ctx context.Context, args map[string]any, filePath string) (any, error) {
		gotQuery, _ = args["query"].(string)
		gotPath = filePath
		return nil, nil
	})

	_, err := r.Dispatch(context.Background(), "echo", map[string]any{"query": "독소 조항"}, "/tmp/a.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "독소 조항" || gotPath != "/tmp/a.pdf" {
		t.Fatalf("args not passed through: query=%q path=%q", gotQuery, gotPath)
	}
}
