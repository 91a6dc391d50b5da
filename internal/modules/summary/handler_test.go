package summary

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postSummary(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/summary", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSummaryHandlerMissingSubject(t *testing.T) {
	gen := &fakeGenerator{text: "unused", model: "m"}
	svc := newTestService(t, gen)
	r := newTestRouter(svc)

	w := postSummary(t, r, `{"conflictName":"No ids"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, gen.calls)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "conflictId or countryId")
}

func TestSummaryHandlerRejectsBadIDs(t *testing.T) {
	gen := &fakeGenerator{text: "unused", model: "m"}
	svc := newTestService(t, gen)
	r := newTestRouter(svc)

	for _, body := range []string{
		`{"conflictId": -1}`,
		`{"conflictId": 1.5}`,
		`{"conflictId": 0}`,
		`{"countryId": -3}`,
	} {
		w := postSummary(t, r, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Zero(t, gen.calls)
}

func TestSummaryHandlerHappyPath(t *testing.T) {
	gen := &fakeGenerator{text: "A short summary.", model: "gpt-4o-mini"}
	svc := newTestService(t, gen)
	r := newTestRouter(svc)

	w := postSummary(t, r, `{"conflictId": 42, "conflictName": "Border War"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "A short summary.", result.Summary)
	assert.Equal(t, "gpt-4o-mini", result.Model)
	assert.False(t, result.Cached)
	assert.WithinDuration(t, time.Now(), result.GeneratedAt, time.Minute)

	// Second request is served from cache.
	w = postSummary(t, r, `{"conflictId": 42}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Cached)
	assert.Equal(t, 1, gen.calls)
}

func TestSummaryHandlerGenerationFailure(t *testing.T) {
	gen := &fakeGenerator{err: &GenerationError{Status: 503, Body: "upstream down"}}
	svc := newTestService(t, gen)
	r := newTestRouter(svc)

	w := postSummary(t, r, `{"conflictId": 42}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "AI generation failed", body["error"])
	assert.Equal(t, float64(503), body["openaiStatus"])
	assert.Equal(t, "upstream down", body["openaiBody"])
}

func TestSummaryHandlerNotConfigured(t *testing.T) {
	svc := &Service{
		db:     newTestDB(t),
		logger: zap.NewNop(),
		ttl:    30 * 24 * time.Hour,
		now:    time.Now,
	}
	r := newTestRouter(svc)

	w := postSummary(t, r, `{"conflictId": 42}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ErrNotConfigured.Error(), body["error"])
}
