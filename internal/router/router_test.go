package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cars-api-go/internal/auth"
	"cars-api-go/internal/links"
	"cars-api-go/internal/models"
	"cars-api-go/internal/repository"
)

var secret = []byte("router-test-secret")

func newTestRouter(t *testing.T, authEnabled bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	return New(Dependencies{
		Logger: zap.NewNop(),
		Cars: repository.NewMemoryCarRepository(
			models.Car{ID: 1, Make: "Volvo"},
			models.Car{ID: 2, Make: "Fiat"},
		),
		Links:          links.NewBuilder(""),
		AuthEnabled:    authEnabled,
		TokenValidator: auth.NewHMACValidator(secret, "", nil, 0),
	})
}

func bearer(t *testing.T) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "fleet-client",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return "Bearer " + token
}

func do(router http.Handler, method, target, authorization string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestExampleScenario(t *testing.T) {
	router := newTestRouter(t, true)
	token := bearer(t)

	w := do(router, http.MethodGet, "http://api.local/cars", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("total-count"))
	assert.JSONEq(t, `[
		{"id":1,"make":"Volvo","links":[{"rel":"self","href":"http://api.local/cars/1"}]},
		{"id":2,"make":"Fiat","links":[{"rel":"self","href":"http://api.local/cars/2"}]}
	]`, w.Body.String())

	w = do(router, http.MethodGet, "http://api.local/cars/3", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(router, http.MethodPost, "http://api.local/cars", token, []byte(`{"make":"Tesla"}`))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "http://api.local/cars/3", w.Header().Get("Location"))

	w = do(router, http.MethodGet, w.Header().Get("Location"), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rep models.CarRepresentation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
	assert.Equal(t, "Tesla", rep.Make)
}

func TestCarRoutesRequireBearerToken(t *testing.T) {
	router := newTestRouter(t, true)

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic dXNlcjpwYXNz",
		"empty token":    "Bearer ",
		"invalid token":  "Bearer not.a.jwt",
	}

	for name, authorization := range cases {
		t.Run(name, func(t *testing.T) {
			for _, target := range []string{"/cars", "/cars/1"} {
				w := do(router, http.MethodGet, target, authorization, nil)
				assert.Equal(t, http.StatusUnauthorized, w.Code)
				assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
			}

			w := do(router, http.MethodPost, "/cars", authorization, []byte(`{"make":"Tesla"}`))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRejectedCreateDoesNotPersist(t *testing.T) {
	router := newTestRouter(t, true)

	w := do(router, http.MethodPost, "/cars", "", []byte(`{"make":"Tesla"}`))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(router, http.MethodGet, "/cars", bearer(t), nil)
	assert.Equal(t, "2", w.Header().Get("total-count"))
}

func TestAuthDisabledPassesThrough(t *testing.T) {
	router := newTestRouter(t, false)

	w := do(router, http.MethodGet, "/cars/1", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPublicRoutesSkipAuth(t *testing.T) {
	router := newTestRouter(t, true)

	w := do(router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsRecordRouteTemplates(t *testing.T) {
	router := newTestRouter(t, false)

	do(router, http.MethodGet, "/cars/1", "", nil)
	do(router, http.MethodGet, "/cars/2", "", nil)

	w := do(router, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `cars_http_requests_total{method="GET",route="/cars/:id",status="200"} 2`)
}

func TestRequestIDIsEchoed(t *testing.T) {
	router := newTestRouter(t, false)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))

	w = do(router, http.MethodGet, "/health", "", nil)
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestCORSPreflightExposesHeaders(t *testing.T) {
	router := newTestRouter(t, true)

	req := httptest.NewRequest(http.MethodOptions, "/cars", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/cars", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Authorization", bearer(t))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Location")
}

func TestRouteTable(t *testing.T) {
	router := newTestRouter(t, true)

	var got []string
	for _, r := range router.Routes() {
		got = append(got, r.Method+" "+r.Path)
	}
	assert.ElementsMatch(t, []string{
		"GET /health",
		"GET /metrics",
		"GET /cars",
		"GET /cars/:id",
		"POST /cars",
	}, got)
}

// panickingRepository panics on every read.
type panickingRepository struct {
	repository.CarRepository
}

func (panickingRepository) All(ctx context.Context) ([]models.Car, error) {
	panic("cars table unreadable")
}

func TestPanicsBecomeInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := New(Dependencies{
		Logger: zap.NewNop(),
		Cars:   panickingRepository{},
	})

	w := do(router, http.MethodGet, "/cars", "", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error","status":500}`, w.Body.String())
}
