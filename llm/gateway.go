package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

// ErrUnavailable is returned when the configured provider is unreachable
// after the gateway's retry budget is spent.
var ErrUnavailable = errors.New("contractcore: llm provider unavailable")

// DefaultMaxAttempts is the gateway's retry ceiling for transient failures
// (network, rate limit, invalid JSON from the provider) — a default, not a
// promise that every call actually spends that many attempts.
const DefaultMaxAttempts = 100

// fencedBlock matches a response that is entirely wrapped in a single
// triple-backtick fence, with or without a language tag (```json, ```text,
// or bare ```), mirroring the teacher's graph.extractJSON fence-stripping
// but generalized to any language name since the Gateway strips fences
// from arbitrary chat output, not just JSON.
var fencedBlock = regexp.MustCompile("(?s)^```[a-zA-Z0-9_-]*\\s*\\n?(.*?)\\n?```$")

// Gateway wraps a chat Provider and an embedding Provider with the single
// call shapes spec.md §4.2 describes: a uniform chat call taking a system
// prompt, user prompt, temperature, and token budget, and a single-text
// embed call. It owns the retry budget above the provider's own transport
// retries (see openAICompatClient.doPost for the inner layer).
type Gateway struct {
	Chat        Provider
	Embedding   Provider
	MaxAttempts int
}

// NewGateway builds a Gateway from a chat provider and an embedding
// provider (they may be the same instance).
func NewGateway(chat, embedding Provider) *Gateway {
	return &Gateway{Chat: chat, Embedding: embedding, MaxAttempts: DefaultMaxAttempts}
}

// Complete calls the chat provider and returns the assistant message with
// surrounding whitespace and any enclosing fence stripped. temperature is
// passed through unmodified — the Gateway never rewrites a caller-supplied
// scalar.
func (g *Gateway) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64, maxTokens int) (string, error) {
	req := ChatRequest{
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	var lastErr error
	attempts := g.attemptBudget()
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if !sleepBackoff(ctx, attempt) {
				return "", ctx.Err()
			}
		}
		resp, err := g.Chat.Chat(ctx, req)
		if err != nil {
			if !isTransient(err) {
				return "", fmt.Errorf("llm gateway: %w", err)
			}
			lastErr = err
			slog.Warn("gateway: transient chat failure, retrying", "attempt", attempt+1, "error", err)
			continue
		}
		return stripFence(resp.Content), nil
	}
	return "", fmt.Errorf("%w: retry budget exhausted: %w", ErrUnavailable, lastErr)
}

// Embed embeds a single piece of text and returns its vector.
func (g *Gateway) Embed(ctx context.Context, text string) ([]float32, error) {
	var lastErr error
	attempts := g.attemptBudget()
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if !sleepBackoff(ctx, attempt) {
				return nil, ctx.Err()
			}
		}
		vecs, err := g.Embedding.Embed(ctx, []string{text})
		if err != nil {
			if !isTransient(err) {
				return nil, fmt.Errorf("llm gateway: %w", err)
			}
			lastErr = err
			slog.Warn("gateway: transient embed failure, retrying", "attempt", attempt+1, "error", err)
			continue
		}
		if len(vecs) == 0 {
			lastErr = fmt.Errorf("empty embedding response")
			continue
		}
		return vecs[0], nil
	}
	return nil, fmt.Errorf("%w: retry budget exhausted: %w", ErrUnavailable, lastErr)
}

func (g *Gateway) attemptBudget() int {
	if g.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return g.MaxAttempts
}

// isTransient classifies an error as retryable at the gateway level.
// Schema-level failures (missing summary key, malformed JSON array) are
// the caller's concern and retry at the stage level, not here — the
// gateway only owns network/rate-limit/provider-side failures (including
// a provider response body that does not decode as JSON), which the
// provider's doPost already surfaces as plain errors after its own inner
// retry budget is spent.
func isTransient(err error) bool {
	msg := err.Error()
	for _, marker := range []string{
		"LLM API error 429", "LLM API error 502", "LLM API error 503", "LLM API error 504", "request to", "max retries exceeded",
		"decoding ", "ollama embed request failed",
		"ollama embed error 429", "ollama embed error 502", "ollama embed error 503", "ollama embed error 504",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func sleepBackoff(ctx context.Context, attempt int) bool {
	delay := time.Duration(attempt) * 500 * time.Millisecond
	if delay > 10*time.Second {
		delay = 10 * time.Second
	}
	select {
	case <-time.After(delay):
		return true
	case <-ctx.Done():
		return false
	}
}

// stripFence trims surrounding whitespace and, if the remaining text is
// wrapped in a single triple-backtick fence (plain or language-tagged),
// removes the fence too.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if m := fencedBlock.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}
