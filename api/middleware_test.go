package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRegisterRoutes_RequiresAuthConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("AGENT_JUDGE_API_KEY", "")
	t.Setenv("AGENT_JUDGE_DISABLE_AUTH", "")

	s := &Server{router: gin.New()}
	if err := s.registerRoutes(); err == nil {
		t.Fatal("expected error without auth configuration")
	}
}

func TestAPIKeyAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("AGENT_JUDGE_API_KEY", "secret")
	t.Setenv("AGENT_JUDGE_DISABLE_AUTH", "")

	srv := newAuthedServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("without key: got %d want %d", rec.Code, http.StatusUnauthorized)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong key: got %d want %d", rec.Code, http.StatusUnauthorized)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("correct key: got %d want %d", rec.Code, http.StatusOK)
	}
}

func newAuthedServer(t *testing.T) *Server {
	t.Helper()

	s := &Server{router: gin.New(), activeSessions: make(map[string]struct{})}
	s.registerMiddleware()
	if err := s.registerRoutes(); err != nil {
		t.Fatalf("registerRoutes: %v", err)
	}
	return s
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("AGENT_JUDGE_API_KEY", "")
	t.Setenv("AGENT_JUDGE_DISABLE_AUTH", "true")
	t.Setenv("AGENT_JUDGE_CORS_ORIGINS", "https://example.com")

	srv := newAuthedServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/health", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight: got %d want %d", rec.Code, http.StatusNoContent)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://example.com" {
		t.Fatalf("allow-origin = %q", got)
	}
	// Auth is disabled, so the auth header must not be advertised.
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type" {
		t.Fatalf("allow-headers = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://other.example")
	rec = httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("disallowed origin got header %q", got)
	}
}

func TestCORSMiddleware_AllowsAuthHeaderWithKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("AGENT_JUDGE_API_KEY", "secret")
	t.Setenv("AGENT_JUDGE_DISABLE_AUTH", "")
	t.Setenv("AGENT_JUDGE_CORS_ORIGINS", "https://example.com")

	srv := newAuthedServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/health", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight: got %d want %d", rec.Code, http.StatusNoContent)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type, X-API-Key" {
		t.Fatalf("allow-headers = %q", got)
	}
}
