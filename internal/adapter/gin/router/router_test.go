package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"library-desk/internal/adapter/fixture"
	"library-desk/internal/adapter/gin/handler"
	libuc "library-desk/internal/usecase/library"
	"library-desk/pkg/logger"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ds, err := fixture.NewEmbedded().Load(context.Background())
	require.NoError(t, err)

	log := zaptest.NewLogger(t)
	return SetupRouter(handler.New(libuc.New(ds, log), log), nil, log)
}

func get(t *testing.T, r *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]any
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestRouter_Catalog(t *testing.T) {
	r := setupRouter(t)

	w, body := get(t, r, "/v1/books?category=Computer%20Science")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["books"], 3)
	assert.NotEmpty(t, w.Header().Get(logger.RequestIDHeader))

	w, body = get(t, r, "/v1/books?term=ORWELL")
	require.Equal(t, http.StatusOK, w.Code)
	books := body["books"].([]any)
	require.Len(t, books, 1)
	assert.Equal(t, "1984", books[0].(map[string]any)["title"])

	w, body = get(t, r, "/v1/books/categories")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"all", "Fiction", "Computer Science", "Science", "History"}, body["categories"])

	w, body = get(t, r, "/v1/books/4")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["borrowable"])

	w, _ = get(t, r, "/v1/books/999")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_PageBeyondRange(t *testing.T) {
	r := setupRouter(t)

	for _, path := range []string{
		"/v1/books?page=9223372036854775807",
		"/v1/books?page=368934881474191033",
		"/v1/users?page=9223372036854775807&limit=100",
	} {
		w, body := get(t, r, path)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.NotContains(t, body, "error", path)
		assert.NotEmpty(t, body["message"], path)
	}

	_, body := get(t, r, "/v1/books?page=9223372036854775807")
	assert.Equal(t, []any{}, body["books"])
	assert.Equal(t, float64(8), body["pagination"].(map[string]any)["total"])
}

func TestRouter_OverlongTermRejected(t *testing.T) {
	r := setupRouter(t)

	w, body := get(t, r, "/v1/books?term="+strings.Repeat("a", 101))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", body["error"])

	w, _ = get(t, r, "/v1/search?mode=users&term="+strings.Repeat("a", 100))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_Directory(t *testing.T) {
	r := setupRouter(t)

	w, body := get(t, r, "/v1/users?role=librarian")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["users"], 2)

	w, body = get(t, r, "/v1/users/borrowers")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["users"], 4)

	w, body = get(t, r, "/v1/users/roles")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"all", "student", "librarian"}, body["roles"])
}

func TestRouter_SearchAndDashboard(t *testing.T) {
	r := setupRouter(t)

	w, body := get(t, r, "/v1/search?mode=users&term=physics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["total"])

	w, body = get(t, r, "/v1/search?mode=books")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["activity"], 8)
	assert.Equal(t, []any{}, body["books"])
	assert.NotContains(t, body, "users")
	assert.Equal(t, float64(0), body["total"])
	assert.NotContains(t, body, "message")

	w, body = get(t, r, "/v1/search?mode=users&term=zzz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, body["users"])
	assert.NotContains(t, body, "books")
	assert.NotContains(t, body, "activity")
	assert.Equal(t, "No users found", body["message"])

	w, body = get(t, r, "/v1/activity?limit=2")
	require.Equal(t, http.StatusOK, w.Code)
	items := body["activity"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "The Pragmatic Programmer", items[0].(map[string]any)["bookTitle"])

	w, body = get(t, r, "/v1/dashboard")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{
		"totalBooks":      float64(8),
		"students":        float64(4),
		"borrowed":        float64(5),
		"overdue":         float64(2),
		"availableCopies": float64(20),
	}, body["stats"])
	assert.Len(t, body["recent"], 5)
}

func TestRouter_AddBookIsVisible(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/books",
		bytes.NewBufferString(`{"title":"Beowulf","author":"Unknown","category":"Poetry","totalCopies":1}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	_, body := get(t, r, "/v1/books/categories")
	assert.Contains(t, body["categories"], "Poetry")

	_, body = get(t, r, "/v1/dashboard")
	assert.Equal(t, float64(9), body["stats"].(map[string]any)["totalBooks"])
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r := setupRouter(t)

	w, body := get(t, r, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])

	w, _ = get(t, r, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "librarydesk_http_requests_total")
}
