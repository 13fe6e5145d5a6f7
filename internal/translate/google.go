package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"scanlate/internal/lang"
)

const defaultGoogleURL = "https://translate.googleapis.com/translate_a/single"

// Google translates through the public web endpoint of Google Translate
// (the same one the googletrans-style clients wrap). No credential needed.
type Google struct {
	endpoint   string
	httpClient *http.Client
}

// NewGoogle builds the backend. A nil httpClient uses http.DefaultClient.
func NewGoogle(httpClient *http.Client) *Google {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Google{endpoint: defaultGoogleURL, httpClient: httpClient}
}

// SetEndpoint overrides the API endpoint. Used by tests.
func (g *Google) SetEndpoint(url string) { g.endpoint = url }

// Name implements Backend.
func (g *Google) Name() string { return "google" }

// Translate implements Backend.
func (g *Google) Translate(ctx context.Context, text, sourceLang, targetLang string) (Result, error) {
	if sourceLang == "" {
		sourceLang = lang.Auto
	}

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", sourceLang)
	params.Set("tl", targetLang)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("google translate call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return Result{}, fmt.Errorf("google translate status %d: %s", resp.StatusCode, string(b))
	}

	return parseGoogleResponse(resp.Body)
}

// Detect implements Detector by asking for an English translation and
// reading the detected source language off the response.
func (g *Google) Detect(ctx context.Context, text string) (string, error) {
	res, err := g.Translate(ctx, text, lang.Auto, "en")
	if err != nil {
		return "", err
	}
	if res.DetectedSource == "" {
		return "", fmt.Errorf("google translate returned no detected language")
	}
	return res.DetectedSource, nil
}

// parseGoogleResponse walks the endpoint's untyped nested-array payload:
// [[["translated","original",...],...], null, "detected-lang", ...].
func parseGoogleResponse(r io.Reader) (Result, error) {
	var payload []json.RawMessage
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return Result{}, fmt.Errorf("decode google response: %w", err)
	}
	if len(payload) == 0 {
		return Result{}, fmt.Errorf("empty google response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return Result{}, fmt.Errorf("decode translation segments: %w", err)
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var piece string
		if err := json.Unmarshal(seg[0], &piece); err != nil {
			continue
		}
		sb.WriteString(piece)
	}
	if sb.Len() == 0 {
		return Result{}, fmt.Errorf("google response contained no translation")
	}

	res := Result{Text: sb.String()}
	if len(payload) > 2 {
		var detected string
		if err := json.Unmarshal(payload[2], &detected); err == nil {
			res.DetectedSource = detected
		}
	}
	return res, nil
}
