// Package improve repairs OCR output: spelling, structure and artifact
// cleanup. The pipeline treats this stage as optional; it degrades to the
// raw text on any failure.
package improve

import (
	"context"
	"fmt"
	"strings"

	"scanlate/internal/openai"
)

// Improver cleans up raw extracted text. Name identifies the
// implementation in logs and stage events.
type Improver interface {
	Name() string
	Improve(ctx context.Context, text string) (string, error)
}

// Noop is substituted at construction time when no LLM is configured, so
// callers never branch on a missing capability.
type Noop struct{}

// Name implements Improver.
func (Noop) Name() string { return "noop" }

// Improve returns the input unchanged.
func (Noop) Improve(_ context.Context, text string) (string, error) {
	return text, nil
}

const improvePrompt = `Fix the errors in the following text produced by an optical character recognition (OCR) system.

Rules:
1. Correct spelling mistakes.
2. Restore sensible structure and line breaks.
3. Keep every number, date and special symbol exactly as written.
4. If it looks like a receipt or a table, keep the column alignment.
5. Remove OCR artifacts (stray characters, broken hyphenation).

Reply with the corrected text only.

OCR text:
%s`

// LLM improves text through a chat completion with a low temperature.
type LLM struct {
	client *openai.Client
}

// NewLLM builds an LLM improver over the given client.
func NewLLM(client *openai.Client) *LLM {
	return &LLM{client: client}
}

// Name implements Improver.
func (l *LLM) Name() string { return "llm" }

// Improve implements Improver.
func (l *LLM) Improve(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	temp := 0.1
	maxTokens := 2000
	improved, err := l.client.Complete(ctx,
		"You are an expert at repairing text recognized by OCR systems.",
		fmt.Sprintf(improvePrompt, text),
		&openai.ChatOptions{Temperature: &temp, MaxTokens: &maxTokens},
	)
	if err != nil {
		return "", fmt.Errorf("improve text: %w", err)
	}
	return improved, nil
}
