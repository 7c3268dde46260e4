package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dd0wney/keygraph/pkg/config"
	"github.com/dd0wney/keygraph/pkg/logging"
	"github.com/dd0wney/keygraph/pkg/pipeline"
)

func TestCORSDefaultAllowsAll(t *testing.T) {
	ts := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/stats", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Preflight status = %d, want 200", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "POST") {
		t.Errorf("Allow-Methods = %q, want POST included", got)
	}

	// Plain requests carry the header too
	rr2 := ts.request(t, http.MethodGet, "/api/v1/stats", nil, "")
	if got := rr2.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin on GET = %q, want *", got)
	}
}

func TestCORSConfiguredOrigins(t *testing.T) {
	session, err := pipeline.New(pipeline.DefaultConfig(), pipeline.WithLogger(logging.NewNopLogger()))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	t.Cleanup(session.Stop)

	cfg := config.Default()
	cfg.Server.CORSOrigins = []string{"https://app.example.com"}

	server, err := NewServer(Options{
		Config:  cfg,
		Session: session,
		Logger:  logging.NewNopLogger(),
	})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	handler := server.Handler()

	// Listed origin is echoed back
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Allow-Origin = %q, want the listed origin", got)
	}

	// Unlisted origin gets no CORS headers; the request itself still runs
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("Status = %d, want 200", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q, want unset for unlisted origin", got)
	}
}

func TestSecurityHeaders(t *testing.T) {
	ts := newTestServer(t, false)

	rr := ts.request(t, http.MethodGet, "/health", nil, "")
	for header, want := range map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	} {
		if got := rr.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if rr.Header().Get("Content-Security-Policy") == "" {
		t.Error("Content-Security-Policy should be set")
	}
	if rr.Header().Get("Permissions-Policy") == "" {
		t.Error("Permissions-Policy should be set")
	}
}

func TestBodySizeLimit(t *testing.T) {
	ts := newTestServer(t, false)

	big := strings.NewReader(strings.Repeat("a", maxRequestBody+1))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/layout/pin", big)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Status = %d, want 413", rr.Code)
	}
}

func TestPanicRecovery(t *testing.T) {
	ts := newTestServer(t, false)

	handler := ts.server.panicRecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Status = %d, want 500", rr.Code)
	}
	// The panic value must not leak to the client
	if strings.Contains(rr.Body.String(), "boom") {
		t.Error("Response body should not echo the panic value")
	}
}
