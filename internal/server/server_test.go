package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/predictos/predictd/internal/server/handler"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testServer(t *testing.T, cfg Config) http.Handler {
	t.Helper()

	handlers := Handlers{
		Health:    handler.NewHealthHandler(testLogger()),
		Analyze:   &handler.AnalyzeHandler{},
		Orders:    &handler.OrderHandler{},
		Positions: &handler.PositionHandler{},
		Research:  &handler.ResearchHandler{},
	}
	srv := NewServer(cfg, handlers, nil, testLogger())
	return srv.httpServer.Handler
}

func TestHealthRoute_ServedOnBothPaths(t *testing.T) {
	h := testServer(t, Config{Port: 8000})

	for _, path := range []string{"/health", "/api/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), `"status"`)
	}
}

func TestRoutes_UnknownPathIs404(t *testing.T) {
	h := testServer(t, Config{Port: 8000})

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoutes_AuthAppliesWhenConfigured(t *testing.T) {
	h := testServer(t, Config{Port: 8000, APIKey: "secret"})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
