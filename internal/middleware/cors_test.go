package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsRequest(t *testing.T, allowedOrigins []string, method, origin string) *httptest.ResponseRecorder {
	t.Helper()
	handler := CORS(allowedOrigins)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	r := httptest.NewRequest(method, "/api/chat", nil)
	if origin != "" {
		r.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	w := corsRequest(t, []string{"https://verify.example.com"}, http.MethodPost, "https://verify.example.com")

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://verify.example.com" {
		t.Errorf("expected origin echoed, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("expected credentials allowed for explicit origin, got %q", got)
	}
	if w.Code != http.StatusTeapot {
		t.Errorf("expected request to reach handler, got status %d", w.Code)
	}
}

func TestCORSIgnoresUnknownOrigin(t *testing.T) {
	w := corsRequest(t, []string{"https://verify.example.com"}, http.MethodPost, "https://evil.example.com")

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no CORS headers for unknown origin, got %q", got)
	}
}

func TestCORSWildcardWithoutCredentials(t *testing.T) {
	w := corsRequest(t, []string{"*"}, http.MethodGet, "https://anywhere.example.com")

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://anywhere.example.com" {
		t.Errorf("expected wildcard to echo origin, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Errorf("expected no credentials header on wildcard match, got %q", got)
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	w := corsRequest(t, []string{"*"}, http.MethodOptions, "https://anywhere.example.com")

	if w.Code != http.StatusOK {
		t.Errorf("expected preflight to return 200, got %d", w.Code)
	}
}
