package summarize

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPromptConcatenatesMessageAndPrefix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompt.yaml")
	contents := "message: |\n  Summarize this contract: {content}\nprefix: |\n  Respond only in key: value lines.\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := loadPrompt(path)
	if err != nil {
		t.Fatalf("loadPrompt: %v", err)
	}
	if !strings.Contains(got, "Summarize this contract: {content}") {
		t.Fatalf("expected message in prompt, got %q", got)
	}
	if !strings.Contains(got, "Respond only in key: value lines.") {
		t.Fatalf("expected prefix in prompt, got %q", got)
	}
}

func TestLoadPromptMissingFile(t *testing.T) {
	if _, err := loadPrompt("/nonexistent/path/prompt.yaml"); err == nil {
		t.Fatal("expected error for missing prompt file")
	}
}
