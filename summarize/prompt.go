// Package summarize implements the Summarizer (spec.md C5): a
// schema-constrained extraction of a seven-key contract summary, with
// validation and retry until every key is present or a ceiling is hit.
package summarize

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// promptFile is the on-disk shape of a summary prompt template: a
// message body and a prefix, concatenated with a blank line before
// {content} substitution — mirroring the original's load_message/
// load_prefix pair over the same YAML file.
type promptFile struct {
	Message string `yaml:"message"`
	Prefix  string `yaml:"prefix"`
}

// loadPrompt reads a prompt template from path and returns the
// message/prefix concatenated with a blank line between them.
func loadPrompt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading summary prompt: %w", err)
	}
	var pf promptFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return "", fmt.Errorf("parsing summary prompt: %w", err)
	}
	return pf.Message + "\n\n" + pf.Prefix, nil
}
