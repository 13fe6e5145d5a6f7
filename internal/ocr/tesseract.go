package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract extracts text through the local Tesseract engine. Requires the
// tesseract libraries and the requested language data to be installed.
type Tesseract struct {
	languages []string
}

// NewTesseract builds the backend for the given language codes
// (e.g. "eng", "deu"). An empty list uses the engine default.
func NewTesseract(languages []string) *Tesseract {
	return &Tesseract{languages: languages}
}

// Name implements Backend.
func (t *Tesseract) Name() string { return "tesseract" }

// Extract implements Backend. The underlying CGo call cannot be cancelled
// mid-flight, so the context is only checked up front.
func (t *Tesseract) Extract(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if len(t.languages) > 0 {
		if err := client.SetLanguage(t.languages...); err != nil {
			return "", fmt.Errorf("set languages %v: %w", t.languages, err)
		}
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("load image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract recognition: %w", err)
	}
	return strings.TrimSpace(text), nil
}
