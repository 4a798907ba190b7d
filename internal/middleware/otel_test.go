package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare/internal/infrastructure"
	"bikeshare/internal/shared/testutil"
)

func TestOTelMiddleware(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	cfg := infrastructure.DefaultOTelConfig()
	cfg.EnableTracing = false
	cfg.EnableMetrics = false
	providers, err := infrastructure.InitializeOTel(cfg, logger)
	require.NoError(t, err)

	m, err := NewOTelMiddleware(providers, nil)
	require.NoError(t, err)

	var route string
	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Get("/api/views/{view}", func(w http.ResponseWriter, r *http.Request) {
		route = getRoutePattern(r)
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("tea"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/views/hourly_rental", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "tea", rec.Body.String())
	assert.Equal(t, "/api/views/{view}", route)
}

func TestResponseWriter_FirstStatusWins(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	_, err := rw.Write([]byte("abc"))
	require.NoError(t, err)
	rw.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusOK, rw.statusCode)
	assert.EqualValues(t, 3, rw.bytesWritten)
	assert.Same(t, rec, rw.Unwrap())
}
