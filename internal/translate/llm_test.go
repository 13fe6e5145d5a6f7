package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scanlate/internal/openai"
)

func TestLLMDetectTrimsSampleAtRuneBoundary(t *testing.T) {
	var gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		gotPrompt = req.Messages[1].Content

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ru"}}]}`))
	}))
	defer server.Close()

	client, err := openai.NewClient(
		openai.WithAPIKey("test-key"),
		openai.WithBaseURL(server.URL),
		openai.WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)

	// 300 bytes of three-byte runes puts byte 200 mid-character, so the
	// trim must back up to a boundary.
	text := strings.Repeat("日", 100)
	code, err := NewLLM(client).Detect(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, "ru", code)
	assert.True(t, utf8.ValidString(gotPrompt), "detection prompt carries invalid UTF-8: %q", gotPrompt)
	assert.NotContains(t, gotPrompt, string(utf8.RuneError))
}
