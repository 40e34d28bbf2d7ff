package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"persona-engine/internal/repository"
	"persona-engine/internal/service"
)

func setupPersonaRouter(opts RouterOptions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	repo := repository.NewMemoryPersonaRepository()
	svc := service.NewPersonaService(zap.NewNop(), repo)
	h := NewPersonaHandler(zap.NewNop(), svc)
	if opts.ServiceName == "" {
		opts.ServiceName = "persona-engine"
		opts.Version = "test"
		opts.CORSOrigins = "*"
	}
	return NewRouter(zap.NewNop(), h, opts)
}

func performRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Status  string         `json:"status"`
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	return envelope.Data
}

func TestHealthAndIndex(t *testing.T) {
	r := setupPersonaRouter(RouterOptions{})

	rec := performRequest(r, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	rec = performRequest(r, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body["service"] != "persona-engine" {
		t.Fatalf("expected service name in index payload, got %v", body["service"])
	}
}

func TestCreatePersonaReturnsDefaults(t *testing.T) {
	r := setupPersonaRouter(RouterOptions{})

	rec := performRequest(r, http.MethodPost, "/api/personas/", map[string]string{"user_id": "user123"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if data["user_id"] != "user123" {
		t.Fatalf("expected user_id user123, got %v", data["user_id"])
	}
	for _, name := range []string{"openness", "conscientiousness", "extraversion", "agreeableness", "neuroticism"} {
		if data[name] != 2.5 {
			t.Fatalf("expected %s default 2.5, got %v", name, data[name])
		}
	}
}

func TestCreatePersonaMissingUserID(t *testing.T) {
	r := setupPersonaRouter(RouterOptions{})

	rec := performRequest(r, http.MethodPost, "/api/personas/", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestCreatePersonaIsIdempotent(t *testing.T) {
	r := setupPersonaRouter(RouterOptions{})

	first := performRequest(r, http.MethodPost, "/api/personas/", map[string]string{"user_id": "user123"})
	if first.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", first.Code)
	}
	updated := performRequest(r, http.MethodPut, "/api/personas/user123", map[string]any{
		"trait": "openness",
		"value": 4.5,
	})
	if updated.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", updated.Code)
	}

	// El segundo POST devuelve la persona existente, no una nueva.
	second := performRequest(r, http.MethodPost, "/api/personas/", map[string]string{"user_id": "user123"})
	if second.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", second.Code)
	}
	data := decodeData(t, second)
	if data["openness"] != 4.5 {
		t.Fatalf("expected existing persona with openness 4.5, got %v", data["openness"])
	}
}

func TestGetPersonaNotFound(t *testing.T) {
	r := setupPersonaRouter(RouterOptions{})

	rec := performRequest(r, http.MethodGet, "/api/personas/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestUpdateTraitScenario(t *testing.T) {
	r := setupPersonaRouter(RouterOptions{})

	rec := performRequest(r, http.MethodPost, "/api/personas/", map[string]string{"user_id": "user123"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}

	rec = performRequest(r, http.MethodPut, "/api/personas/user123", map[string]any{
		"trait": "openness",
		"value": 4.5,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = performRequest(r, http.MethodGet, "/api/personas/user123", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	data := decodeData(t, rec)
	if data["openness"] != 4.5 {
		t.Fatalf("expected openness 4.5, got %v", data["openness"])
	}
	for _, name := range []string{"conscientiousness", "extraversion", "agreeableness", "neuroticism"} {
		if data[name] != 2.5 {
			t.Fatalf("expected %s unchanged at 2.5, got %v", name, data[name])
		}
	}
}

func TestUpdateTraitValidationFailures(t *testing.T) {
	r := setupPersonaRouter(RouterOptions{})

	rec := performRequest(r, http.MethodPost, "/api/personas/", map[string]string{"user_id": "user123"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "unknown trait", body: map[string]any{"trait": "charisma", "value": 3.0}},
		{name: "below range", body: map[string]any{"trait": "openness", "value": -0.1}},
		{name: "above range", body: map[string]any{"trait": "openness", "value": 5.1}},
		{name: "missing value", body: map[string]any{"trait": "openness"}},
		{name: "missing trait", body: map[string]any{"value": 3.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := performRequest(r, http.MethodPut, "/api/personas/user123", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestUpdateTraitUnknownUser(t *testing.T) {
	r := setupPersonaRouter(RouterOptions{})

	rec := performRequest(r, http.MethodPut, "/api/personas/missing", map[string]any{
		"trait": "openness",
		"value": 3.0,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestListPersonas(t *testing.T) {
	r := setupPersonaRouter(RouterOptions{})

	for _, id := range []string{"alpha", "beta"} {
		rec := performRequest(r, http.MethodPost, "/api/personas/", map[string]string{"user_id": id})
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d", rec.Code)
		}
	}

	rec := performRequest(r, http.MethodGet, "/api/personas/?limit=10&offset=0", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var envelope struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("expected 2 personas, got %d", len(envelope.Data))
	}

	rec = performRequest(r, http.MethodGet, "/api/personas/?limit=abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for bad limit, got %d", rec.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := service.NewRateLimiter(time.Minute, 2)
	r := setupPersonaRouter(RouterOptions{
		ServiceName: "persona-engine",
		Version:     "test",
		CORSOrigins: "*",
		Limiter:     limiter,
	})

	for i := 0; i < 2; i++ {
		rec := performRequest(r, http.MethodGet, "/health", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected status 200, got %d", i, rec.Code)
		}
	}
	rec := performRequest(r, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", rec.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	r := setupPersonaRouter(RouterOptions{})

	rec := performRequest(r, http.MethodGet, "/health", nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") != "fixed-id" {
		t.Fatalf("expected incoming request id to be echoed, got %q", rec.Header().Get("X-Request-ID"))
	}
}
