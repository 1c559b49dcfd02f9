package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixwise/fixwise/apimodels"
	"github.com/fixwise/fixwise/internal/analyzer"
	"github.com/fixwise/fixwise/internal/config"
	"github.com/fixwise/fixwise/internal/llmtest"
)

func testServer(stub *llmtest.Provider) *Server {
	cfg := config.ServerConfig{
		Host:         "127.0.0.1",
		Port:         "0",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	engine := analyzer.NewEngine(llmtest.NewClient(stub), nil)
	return New(cfg, engine)
}

func TestHealth(t *testing.T) {
	srv := testServer(&llmtest.Provider{Reply: "{}"})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestAnalyzeRejectsMalformedBody(t *testing.T) {
	srv := testServer(&llmtest.Provider{Reply: "{}"})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader("{not json"))
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeRejectsEmptyRequest(t *testing.T) {
	srv := testServer(&llmtest.Provider{Reply: "{}"})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader("{}"))
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "at least one")
}

func TestAnalyzeReturnsResult(t *testing.T) {
	stub := &llmtest.Provider{Reply: "not json, every stage degrades"}
	srv := testServer(stub)

	payload := `{"error_message": "ZeroDivisionError: division by zero"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(payload))
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result apimodels.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	require.NotNil(t, result.Analyses.Error)
	assert.Equal(t, "exception", result.Analyses.Error.ErrorType)
	assert.NotEmpty(t, result.Metadata.ComponentsUsed)
	assert.NotEmpty(t, result.Summary.Recommendation)
}
