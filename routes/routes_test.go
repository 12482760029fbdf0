package routes

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tennis-history/handlers"
)

const secret = "routes-secret"

func newRouter() http.Handler {
	router := chi.NewRouter()
	SetupRoutes(router, Options{
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		JWTSecret:      secret,
		AllowedOrigins: []string{"https://stats.example"},
		RateLimit:      100,
		RateWindow:     time.Minute,
	}, Handlers{
		Player:     handlers.NewPlayerHandler(nil),
		Stats:      handlers.NewStatsHandler(nil),
		Country:    handlers.NewCountryHandler(nil),
		Tournament: handlers.NewTournamentHandler(nil),
		H2H:        handlers.NewH2HHandler(nil),
		Event:      handlers.NewEventHandler(nil, nil, nil),
		Entry:      handlers.NewEntryHandler(nil),
		Integrity:  handlers.NewIntegrityHandler(nil),
	})
	return router
}

func token(t *testing.T, role string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "role": role}).SignedString([]byte(secret))
	require.NoError(t, err)
	return "Bearer " + s
}

func TestWriteRoutesRequireToken(t *testing.T) {
	router := newRouter()

	paths := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/entries"},
		{http.MethodPut, "/api/v1/seeds"},
		{http.MethodPost, "/api/v1/events/e1/points"},
		{http.MethodPost, "/api/v1/events/e1/entry-info/sync"},
		{http.MethodPost, "/api/v1/integrity/reports"},
	}
	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(p.method, p.path, strings.NewReader("{}")))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestPublishRequiresAdmin(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/integrity/reports", nil)
	req.Header.Set("Authorization", token(t, "editor"))
	rec := httptest.NewRecorder()

	newRouter().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEditorReachesWriteHandler(t *testing.T) {
	// тело не проходит разбор JSON, значит запрос дошёл до обработчика
	req := httptest.NewRequest(http.MethodPost, "/api/v1/entries", strings.NewReader("{"))
	req.Header.Set("Authorization", token(t, "editor"))
	rec := httptest.NewRecorder()

	newRouter().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsAndSwagger(t *testing.T) {
	router := newRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"basePath": "/api/v1"`)
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/players", nil)
	req.Header.Set("Origin", "https://stats.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()

	newRouter().ServeHTTP(rec, req)
	assert.Equal(t, "https://stats.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRouteIs404(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
