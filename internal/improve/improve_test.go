package improve

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scanlate/internal/openai"
)

func TestNoopReturnsInputUnchanged(t *testing.T) {
	in := "Invoice 2024-05-01\nTotal   12,345.67"
	out, err := Noop{}.Improve(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Equal(t, "noop", Noop{}.Name())
}

func TestLLMImproveSendsTextAndKeepsNumbers(t *testing.T) {
	var gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			Temperature float64 `json:"temperature"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		gotPrompt = req.Messages[1].Content
		assert.InDelta(t, 0.1, req.Temperature, 1e-9)

		// Echo the payload back the way a well-behaved model would: the
		// numeric token must survive the round trip byte-identical.
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Total 12,345.67"}}]}`))
	}))
	defer server.Close()

	client, err := openai.NewClient(
		openai.WithAPIKey("test-key"),
		openai.WithBaseURL(server.URL),
		openai.WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)

	out, err := NewLLM(client).Improve(context.Background(), "Tota1 12,345.67")
	require.NoError(t, err)

	assert.Contains(t, gotPrompt, "Tota1 12,345.67")
	assert.Contains(t, out, "12,345.67")
}

func TestLLMImproveSkipsEmptyText(t *testing.T) {
	client, err := openai.NewClient(openai.WithAPIKey("test-key"))
	require.NoError(t, err)

	out, err := NewLLM(client).Improve(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, "   ", out)
}
