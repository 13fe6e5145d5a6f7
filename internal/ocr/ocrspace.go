package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

const defaultOCRSpaceURL = "https://api.ocr.space/parse/image"

// OCRSpace extracts text through the OCR.Space REST API.
type OCRSpace struct {
	apiKey     string
	language   string
	endpoint   string
	httpClient *http.Client
}

// NewOCRSpace builds the backend. language is an OCR.Space engine language
// such as "eng". A nil httpClient uses http.DefaultClient.
func NewOCRSpace(apiKey, language string, httpClient *http.Client) *OCRSpace {
	if language == "" {
		language = "eng"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OCRSpace{
		apiKey:     apiKey,
		language:   language,
		endpoint:   defaultOCRSpaceURL,
		httpClient: httpClient,
	}
}

// SetEndpoint overrides the API endpoint. Used by tests.
func (o *OCRSpace) SetEndpoint(url string) { o.endpoint = url }

// Name implements Backend.
func (o *OCRSpace) Name() string { return "ocrspace" }

// Extract implements Backend.
func (o *OCRSpace) Extract(ctx context.Context, image []byte) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "image.png")
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	_ = writer.WriteField("language", o.language)
	_ = writer.WriteField("apikey", o.apiKey)
	_ = writer.WriteField("scale", "true")
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocrspace call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ocrspace status %d: %s", resp.StatusCode, string(b))
	}

	var result struct {
		ParsedResults []struct {
			ParsedText string `json:"ParsedText"`
		} `json:"ParsedResults"`
		IsErroredOnProcessing bool `json:"IsErroredOnProcessing"`
		ErrorMessage          any  `json:"ErrorMessage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode ocrspace response: %w", err)
	}

	if result.IsErroredOnProcessing {
		return "", fmt.Errorf("ocrspace processing error: %v", result.ErrorMessage)
	}

	parts := make([]string, 0, len(result.ParsedResults))
	for _, r := range result.ParsedResults {
		if t := strings.TrimSpace(r.ParsedText); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n"), nil
}
