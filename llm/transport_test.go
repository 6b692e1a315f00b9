package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportPost(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte(`{"error":"teapot"}`))
	}))
	defer server.Close()

	transport := NewTransport()
	status, body, err := transport.Post(context.Background(), server.URL, "secret", map[string]any{"model": "gpt-4o-mini"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusTeapot, status)
	assert.JSONEq(t, `{"error":"teapot"}`, string(body))
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "gpt-4o-mini", gotBody["model"])
}

func TestTransportPostConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing is listening anymore

	transport := NewTransport()
	_, _, err := transport.Post(context.Background(), server.URL, "secret", map[string]any{})
	require.Error(t, err)
	assert.Equal(t, KindNetworkError, KindOf(err))
}
