package summarize

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jihoonpark/contractcore/llm"
	"github.com/jihoonpark/contractcore/model"
)

// DefaultMaxAttempts bounds how many times the summarizer re-asks the
// LLM for a complete seven-key response before degrading, unlike the
// original's unbounded retry loop.
const DefaultMaxAttempts = 20

// Summarizer produces a model.Summary from raw document text.
type Summarizer struct {
	Gateway     *llm.Gateway
	PromptPath  string
	MaxAttempts int
}

// NewSummarizer builds a Summarizer reading its prompt template from
// promptPath.
func NewSummarizer(gw *llm.Gateway, promptPath string) *Summarizer {
	return &Summarizer{Gateway: gw, PromptPath: promptPath, MaxAttempts: DefaultMaxAttempts}
}

// Summarize runs the five-step algorithm: load the template, substitute
// {content}, call the gateway at temperature 0, parse the key:value
// response, and retry until all seven required keys are present or the
// attempt ceiling is hit — at which point it returns a degraded Summary
// rather than failing the caller.
func (s *Summarizer) Summarize(ctx context.Context, text string) (model.Summary, error) {
	template, err := loadPrompt(s.PromptPath)
	if err != nil {
		return model.Summary{}, err
	}
	prompt := strings.ReplaceAll(template, "{content}", text)

	attempts := s.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	for attempt := 0; attempt < attempts; attempt++ {
		resp, err := s.Gateway.Complete(ctx, "", prompt, 0, 1500)
		if err != nil {
			slog.Warn("summarize: gateway call failed, retrying", "attempt", attempt+1, "error", err)
			continue
		}
		parsed := parseKeyValueLines(resp)
		missing := model.MissingKeys(parsed)
		if len(missing) == 0 {
			return model.SummaryFromMap(parsed), nil
		}
		slog.Warn("summarize: response missing required keys, retrying", "attempt", attempt+1, "missing", missing)
	}

	slog.Error("summarize: retry budget exhausted, emitting degraded summary")
	return model.DegradedSummary(), nil
}

// parseKeyValueLines implements spec.md §4.4 step 4: a line containing
// ':' starts a new key (everything before the first ':' is the key,
// everything after is the initial value); lines without ':' are
// appended to the current value, joined by newline. The final key is
// flushed once the loop ends.
func parseKeyValueLines(text string) map[string]string {
	result := make(map[string]string)
	var currentKey string
	var currentValue strings.Builder
	haveKey := false

	flush := func() {
		if haveKey {
			result[currentKey] = strings.TrimSpace(currentValue.String())
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if idx := strings.Index(line, ":"); idx != -1 {
			flush()
			currentKey = strings.TrimSpace(line[:idx])
			currentValue.Reset()
			currentValue.WriteString(strings.TrimPrefix(line[idx+1:], " "))
			haveKey = true
			continue
		}
		if haveKey {
			if currentValue.Len() > 0 {
				currentValue.WriteString("\n")
			}
			currentValue.WriteString(line)
		}
	}
	flush()
	return result
}
