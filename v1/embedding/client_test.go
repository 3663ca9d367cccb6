package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, dims int) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		Endpoint:     srv.URL + "/",
		ServiceToken: "secret",
		Model:        "test-model",
		HTTPTimeout:  time.Second,
		Dimensions:   dims,
	})
	require.NoError(t, err)
	return c
}

func TestEmbed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, []string{"oak chair"}, req.Input)
		assert.Equal(t, 3, req.Dimensions)

		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[0.1,0.2,0.3]}]}`))
	}, 3)

	vec, err := c.Embed(context.Background(), "oak chair")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestEmbedHTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}, 0)

	_, err := c.Embed(context.Background(), "x")

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusTooManyRequests, httpErr.HTTPStatus())
	assert.Equal(t, "slow down", httpErr.Body)
}

func TestEmbedDimensionMismatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[1,2]}]}`))
	}, 3)

	_, err := c.Embed(context.Background(), "x")
	assert.ErrorContains(t, err, "expected 3 dimensions")
}

func TestConfigValidate(t *testing.T) {
	assert.Error(t, Config{}.Validate())
	assert.Error(t, Config{Endpoint: "http://x", Model: "m"}.Validate())
	assert.NoError(t, Config{Endpoint: "http://x", ServiceToken: "t", Model: "m"}.Validate())
}
