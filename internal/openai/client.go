// Package openai wraps the OpenAI chat completions REST API for the text
// transform use cases the pipeline needs: translation, OCR cleanup and
// vision extraction.
package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultModel    = "gpt-4o-mini"
	defaultBaseURL  = "https://api.openai.com"
	completionsPath = "/v1/chat/completions"
)

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client instance.
type Option func(*Client)

// WithAPIKey overrides the API key used by the client.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithModel sets the target model name.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithHTTPClient assigns a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL changes the base URL used for API calls. Also the way to point
// the client at an OpenAI-compatible proxy, and at test servers.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// NewClient constructs a client, falling back to the OPENAI_API_KEY
// environment variable when no key option is given.
func NewClient(opts ...Option) (*Client, error) {
	client := &Client{
		model:   defaultModel,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.apiKey == "" {
		client.apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if client.apiKey == "" {
		return nil, errors.New("openai: API key not provided; set OPENAI_API_KEY")
	}

	return client, nil
}

// ChatOptions tunes a single completion request.
type ChatOptions struct {
	Temperature *float64
	MaxTokens   *int
}

// Message is one chat turn. Content parts beyond the first text part carry
// inline images for vision requests.
type Message struct {
	Role  string
	Parts []Part
}

// Part is a single message component: text, or an inline base64 image.
type Part struct {
	Text      string
	ImageMIME string
	ImageData []byte
}

// TextMessage builds a plain single-part message.
func TextMessage(role, text string) Message {
	return Message{Role: role, Parts: []Part{{Text: text}}}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []choice  `json:"choices"`
	Error   *apiError `json:"error"`
}

type choice struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

type apiError struct {
	Type    string `json:"type"`
	Code    any    `json:"code"`
	Message string `json:"message"`
}

// Complete sends a system+user prompt pair and returns the reply text.
func (c *Client) Complete(ctx context.Context, system, user string, opts *ChatOptions) (string, error) {
	if strings.TrimSpace(user) == "" {
		return "", errors.New("openai: prompt must not be empty")
	}
	msgs := []Message{}
	if system != "" {
		msgs = append(msgs, TextMessage("system", system))
	}
	msgs = append(msgs, TextMessage("user", user))
	return c.Chat(ctx, msgs, opts)
}

// Chat sends arbitrary messages, supporting multimodal user turns.
func (c *Client) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("openai: at least one message is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	payload, err := c.buildRequest(messages, opts)
	if err != nil {
		return "", err
	}

	return c.doChat(ctx, payload)
}

func (c *Client) buildRequest(messages []Message, opts *ChatOptions) (*chatRequest, error) {
	reqMsgs := make([]chatMessage, 0, len(messages))
	for i, m := range messages {
		if m.Role == "" {
			return nil, fmt.Errorf("openai: message %d missing role", i)
		}
		if len(m.Parts) == 0 {
			return nil, fmt.Errorf("openai: message %d contained no parts", i)
		}

		// Single text part collapses to the plain string form.
		if len(m.Parts) == 1 && m.Parts[0].ImageData == nil {
			if strings.TrimSpace(m.Parts[0].Text) == "" {
				return nil, fmt.Errorf("openai: message %d contained no usable data", i)
			}
			reqMsgs = append(reqMsgs, chatMessage{Role: m.Role, Content: m.Parts[0].Text})
			continue
		}

		parts := make([]contentPart, 0, len(m.Parts))
		for j, p := range m.Parts {
			switch {
			case p.ImageData != nil:
				if p.ImageMIME == "" {
					return nil, fmt.Errorf("openai: message %d part %d image missing mime type", i, j)
				}
				parts = append(parts, contentPart{
					Type: "image_url",
					ImageURL: &imageURL{
						URL: fmt.Sprintf("data:%s;base64,%s", p.ImageMIME, base64.StdEncoding.EncodeToString(p.ImageData)),
					},
				})
			case strings.TrimSpace(p.Text) != "":
				parts = append(parts, contentPart{Type: "text", Text: p.Text})
			default:
				return nil, fmt.Errorf("openai: message %d part %d contained no usable data", i, j)
			}
		}
		reqMsgs = append(reqMsgs, chatMessage{Role: m.Role, Content: parts})
	}

	req := &chatRequest{
		Model:    c.model,
		Messages: reqMsgs,
	}
	if opts != nil {
		req.Temperature = opts.Temperature
		req.MaxTokens = opts.MaxTokens
	}
	return req, nil
}

func (c *Client) doChat(ctx context.Context, payload *chatRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	endpoint := strings.TrimSuffix(c.baseURL, "/") + completionsPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openai: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openai: http call failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openai: read response: %w", err)
	}

	var apiResp chatResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("openai: unexpected status %d: %s", resp.StatusCode, string(respBody))
		}
		return "", fmt.Errorf("openai: decode response: %w", err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("openai: API error %s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	if len(apiResp.Choices) == 0 {
		return "", errors.New("openai: response contained no choices")
	}
	text := strings.TrimSpace(apiResp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("openai: choice did not contain text")
	}
	return text, nil
}
