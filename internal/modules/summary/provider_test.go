package summary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	appcfg "github.com/conflict-atlas/core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compatibleClient(endpoint string) *providerClient {
	return newProviderClient(appcfg.AIProvider{
		ID:           "gw",
		Type:         "OpenAI-Compatible",
		APIKey:       "test-key",
		Endpoint:     endpoint,
		DefaultModel: "test-model",
		Enabled:      true,
	}, appcfg.AIConfig{MaxOutputTokens: 600, Temperature: 1})
}

func TestGenerateCompatibleSuccess(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "  A summary.  "}},
			},
		})
	}))
	defer srv.Close()

	text, err := compatibleClient(srv.URL).Generate(context.Background(), "system", "user prompt")
	require.NoError(t, err)
	assert.Equal(t, "A summary.", text)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-model", gotBody["model"])
	assert.Equal(t, float64(600), gotBody["max_tokens"])
}

func TestGenerateCompatibleUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	_, err := compatibleClient(srv.URL).Generate(context.Background(), "system", "user prompt")
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, http.StatusTooManyRequests, genErr.Status)
	assert.Contains(t, genErr.Body, "rate limited")
}

func TestGenerateCompatibleEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := compatibleClient(srv.URL).Generate(context.Background(), "system", "user prompt")
	assert.ErrorIs(t, err, ErrEmptySummary)
}

func TestSelectProvider(t *testing.T) {
	cfg := appcfg.AIConfig{Providers: []appcfg.AIProvider{
		{ID: "a", Enabled: false},
		{ID: "b", Enabled: true},
		{ID: "c", Enabled: true},
	}}

	p := selectProvider(cfg, "")
	require.NotNil(t, p)
	assert.Equal(t, "b", p.ID)

	p = selectProvider(cfg, "c")
	require.NotNil(t, p)
	assert.Equal(t, "c", p.ID)

	assert.Nil(t, selectProvider(cfg, "a"))
	assert.Nil(t, selectProvider(appcfg.AIConfig{}, ""))
}

func TestNormalizeCompatibleEndpoint(t *testing.T) {
	assert.Equal(t, "https://api.openai.com", normalizeCompatibleEndpoint(""))
	assert.Equal(t, "https://gw.example.com", normalizeCompatibleEndpoint("https://gw.example.com/v1/"))
	assert.Equal(t, "http://127.0.0.1:8080", normalizeCompatibleEndpoint("http://127.0.0.1:8080"))
}
