package server

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"resumetric/internal/errors"
)

func newAuthTestServer(apiKeys map[string]bool) *Server {
	return &Server{
		APIKeys: apiKeys,
		Logger:  errors.NewLogger(slog.LevelError),
	}
}

func okHandler(called *bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	}
}

func TestAuthMiddlewareNoKeysConfigured(t *testing.T) {
	s := newAuthTestServer(nil)
	called := false

	req := httptest.NewRequest(http.MethodPost, "/parse", nil)
	rec := httptest.NewRecorder()
	s.authMiddleware(okHandler(&called))(rec, req)

	if !called {
		t.Error("Expected request to pass through when no API keys configured")
	}
}

func TestAuthMiddlewareMissingKey(t *testing.T) {
	s := newAuthTestServer(map[string]bool{"secret": true})
	called := false

	req := httptest.NewRequest(http.MethodPost, "/parse", nil)
	rec := httptest.NewRecorder()
	s.authMiddleware(okHandler(&called))(rec, req)

	if called {
		t.Error("Expected request rejected without API key")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddlewareHeaderKey(t *testing.T) {
	s := newAuthTestServer(map[string]bool{"secret": true})
	called := false

	req := httptest.NewRequest(http.MethodPost, "/parse", nil)
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()
	s.authMiddleware(okHandler(&called))(rec, req)

	if !called {
		t.Errorf("Expected valid X-API-Key accepted, got status %d", rec.Code)
	}
}

func TestAuthMiddlewareBearerToken(t *testing.T) {
	s := newAuthTestServer(map[string]bool{"secret": true})
	called := false

	req := httptest.NewRequest(http.MethodPost, "/parse", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	s.authMiddleware(okHandler(&called))(rec, req)

	if !called {
		t.Errorf("Expected bearer token accepted, got status %d", rec.Code)
	}
}

func TestAuthMiddlewareInvalidKey(t *testing.T) {
	s := newAuthTestServer(map[string]bool{"secret": true})
	called := false

	req := httptest.NewRequest(http.MethodPost, "/parse", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec := httptest.NewRecorder()
	s.authMiddleware(okHandler(&called))(rec, req)

	if called {
		t.Error("Expected invalid key rejected")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"short", "****"},
		{"12345678", "****"},
		{"123456789abcdef", "12345678****"},
	}

	for _, tt := range tests {
		if got := maskAPIKey(tt.input); got != tt.expected {
			t.Errorf("maskAPIKey(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRateLimiterAllowsBurstThenBlocks(t *testing.T) {
	limiter := NewRateLimiter(60, time.Minute, 2, errors.NewLogger(slog.LevelError))
	defer limiter.Close()

	if !limiter.Allow("client") {
		t.Error("Expected first request allowed")
	}
	if !limiter.Allow("client") {
		t.Error("Expected second request within burst allowed")
	}
	if limiter.Allow("client") {
		t.Error("Expected request beyond burst blocked")
	}

	// Independent key gets its own bucket
	if !limiter.Allow("other") {
		t.Error("Expected separate key to have its own limiter")
	}
}

func TestRateLimiterStats(t *testing.T) {
	limiter := NewRateLimiter(120, time.Minute, 5, errors.NewLogger(slog.LevelError))
	defer limiter.Close()

	limiter.Allow("a")
	limiter.Allow("b")

	stats := limiter.GetStats()
	if stats["active_limiters"] != 2 {
		t.Errorf("Expected 2 active limiters, got %v", stats["active_limiters"])
	}
	if stats["rate_per_minute"] != 120.0 {
		t.Errorf("Expected 120 requests per minute, got %v", stats["rate_per_minute"])
	}
	if stats["burst_capacity"] != 5 {
		t.Errorf("Expected burst capacity 5, got %v", stats["burst_capacity"])
	}
}

func TestGetRateLimitKey(t *testing.T) {
	tests := []struct {
		name     string
		byAPIKey bool
		byIP     bool
		setup    func(*http.Request)
		expected string
	}{
		{
			name:     "api key header",
			byAPIKey: true,
			setup:    func(r *http.Request) { r.Header.Set("X-API-Key", "k1") },
			expected: "api:k1",
		},
		{
			name:     "bearer token",
			byAPIKey: true,
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer k2") },
			expected: "api:k2",
		},
		{
			name:     "falls back to ip",
			byAPIKey: true,
			byIP:     true,
			setup:    func(r *http.Request) { r.RemoteAddr = "10.0.0.1:1234" },
			expected: "ip:10.0.0.1",
		},
		{
			name:     "no dimensions enabled",
			setup:    func(r *http.Request) {},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/score", nil)
			tt.setup(req)
			if got := getRateLimitKey(req, tt.byAPIKey, tt.byIP); got != tt.expected {
				t.Errorf("Expected key %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*http.Request)
		expected string
	}{
		{
			name:     "x-forwarded-for first entry",
			setup:    func(r *http.Request) { r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1") },
			expected: "203.0.113.7",
		},
		{
			name:     "x-real-ip",
			setup:    func(r *http.Request) { r.Header.Set("X-Real-IP", "203.0.113.9") },
			expected: "203.0.113.9",
		},
		{
			name:     "remote addr",
			setup:    func(r *http.Request) { r.RemoteAddr = "192.0.2.4:5678" },
			expected: "192.0.2.4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/score", nil)
			tt.setup(req)
			if got := getClientIP(req); got != tt.expected {
				t.Errorf("Expected IP %q, got %q", tt.expected, got)
			}
		})
	}
}
