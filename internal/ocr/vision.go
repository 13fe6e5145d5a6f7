package ocr

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"scanlate/internal/openai"
)

const visionPrompt = "Extract every piece of text visible in this image. " +
	"Preserve line breaks and table-like spacing exactly. " +
	"Reply with the extracted text only, no commentary. " +
	"If the image contains no readable text, reply with exactly NO_TEXT."

// Vision extracts text by sending the image to a multimodal LLM.
type Vision struct {
	client *openai.Client
}

// NewVision builds the backend over an LLM client.
func NewVision(client *openai.Client) *Vision {
	return &Vision{client: client}
}

// Name implements Backend.
func (v *Vision) Name() string { return "llm-vision" }

// Extract implements Backend.
func (v *Vision) Extract(ctx context.Context, image []byte) (string, error) {
	msg := openai.Message{
		Role: "user",
		Parts: []openai.Part{
			{Text: visionPrompt},
			{ImageMIME: detectImageMIME(image), ImageData: image},
		},
	}

	temp := 0.0
	text, err := v.client.Chat(ctx, []openai.Message{msg}, &openai.ChatOptions{Temperature: &temp})
	if err != nil {
		return "", fmt.Errorf("vision extraction: %w", err)
	}

	if strings.TrimSpace(text) == "NO_TEXT" {
		return "", nil
	}
	return text, nil
}

// detectImageMIME sniffs the payload, defaulting to JPEG since that is what
// the chat transport delivers for photos.
func detectImageMIME(data []byte) string {
	if len(data) > 0 {
		if mt := http.DetectContentType(data); strings.HasPrefix(mt, "image/") {
			return mt
		}
	}
	return "image/jpeg"
}
