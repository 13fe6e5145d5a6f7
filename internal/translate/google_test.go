package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleTranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "gtx", q.Get("client"))
		assert.Equal(t, "auto", q.Get("sl"))
		assert.Equal(t, "en", q.Get("tl"))
		assert.Equal(t, "guten morgen", q.Get("q"))

		_, _ = w.Write([]byte(`[[["good ","guten ",null,null,10],["morning","morgen",null,null,10]],null,"de"]`))
	}))
	defer server.Close()

	backend := NewGoogle(server.Client())
	backend.SetEndpoint(server.URL)

	res, err := backend.Translate(context.Background(), "guten morgen", "auto", "en")
	require.NoError(t, err)
	assert.Equal(t, "good morning", res.Text)
	assert.Equal(t, "de", res.DetectedSource)
}

func TestGoogleDetect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[[["hello","bonjour",null,null,10]],null,"fr"]`))
	}))
	defer server.Close()

	backend := NewGoogle(server.Client())
	backend.SetEndpoint(server.URL)

	code, err := backend.Detect(context.Background(), "bonjour")
	require.NoError(t, err)
	assert.Equal(t, "fr", code)
}

func TestGoogleTranslateHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	backend := NewGoogle(server.Client())
	backend.SetEndpoint(server.URL)

	_, err := backend.Translate(context.Background(), "hi", "en", "de")
	assert.Error(t, err)
}
