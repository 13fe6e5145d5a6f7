package translate

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"scanlate/internal/lang"
	"scanlate/internal/openai"
)

const translatePrompt = `You are a professional translator. Translate the following text from "%s" to "%s".

Rules:
1. Keep the original structure and formatting.
2. If it is a receipt or a document, keep the table layout.
3. Keep numbers, dates and special symbols exactly as written.
4. Leave brand names and proper nouns untranslated.

Reply with the translated text only.

Text:
%s`

const detectPrompt = `Identify the language of the following text. Reply with the two-letter ISO-639 language code only (for example "en", "de", "ja").

Text: %s`

// LLM translates and detects languages through a chat completion.
type LLM struct {
	client *openai.Client
}

// NewLLM builds the backend over the given client.
func NewLLM(client *openai.Client) *LLM {
	return &LLM{client: client}
}

// Name implements Backend.
func (l *LLM) Name() string { return "llm" }

// Translate implements Backend.
func (l *LLM) Translate(ctx context.Context, text, sourceLang, targetLang string) (Result, error) {
	source := "the source language (detect it)"
	if sourceLang != "" && sourceLang != lang.Auto {
		source = lang.Name(sourceLang)
	}

	temp := 0.3
	maxTokens := 2000
	out, err := l.client.Complete(ctx,
		"You are a professional translator who preserves the structure and formatting of the original text.",
		fmt.Sprintf(translatePrompt, source, lang.Name(targetLang), text),
		&openai.ChatOptions{Temperature: &temp, MaxTokens: &maxTokens},
	)
	if err != nil {
		return Result{}, fmt.Errorf("llm translation: %w", err)
	}
	return Result{Text: out}, nil
}

// Detect implements Detector.
func (l *LLM) Detect(ctx context.Context, text string) (string, error) {
	sample := text
	if len(sample) > 200 {
		cut := 200
		// Back up to a rune boundary so the sample stays valid UTF-8.
		for cut > 0 && !utf8.RuneStart(sample[cut]) {
			cut--
		}
		sample = sample[:cut]
	}

	temp := 0.1
	maxTokens := 10
	out, err := l.client.Complete(ctx,
		"You are an expert at identifying the language of a text.",
		fmt.Sprintf(detectPrompt, sample),
		&openai.ChatOptions{Temperature: &temp, MaxTokens: &maxTokens},
	)
	if err != nil {
		return "", fmt.Errorf("llm language detection: %w", err)
	}
	return strings.ToLower(strings.Trim(out, " .\"'`\n")), nil
}
