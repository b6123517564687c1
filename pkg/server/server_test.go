package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/graphrag/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host: "localhost",
			Port: 8080,
			Mode: gin.TestMode,
		},
	}
}

func TestSetup(t *testing.T) {
	server := New(testConfig(), nil, nil)
	server.Setup()

	require.NotNil(t, server.router)
	require.NotNil(t, server.server)
	assert.Equal(t, "localhost:8080", server.server.Addr)
}

func TestHealthEndpoint(t *testing.T) {
	server := New(testConfig(), nil, nil)
	server.Setup()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIRoutesRequireClient(t *testing.T) {
	server := New(testConfig(), nil, nil)
	server.Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	server := New(testConfig(), nil, nil)
	server.Setup()

	t.Run("generated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, req)

		_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
		assert.NoError(t, err)
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(RequestIDHeader, "req-42")
		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, req)

		assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
	})
}

func TestCORSPreflight(t *testing.T) {
	server := New(testConfig(), nil, nil)
	server.Setup()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/search/local", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDFromContext(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
	ctx := context.WithValue(context.Background(), requestIDKey{}, "abc")
	assert.Equal(t, "abc", RequestID(ctx))
}
