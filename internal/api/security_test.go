package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddleware_SecurityHeaders(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	middleware := SecurityHeadersMiddleware(nextHandler)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w := httptest.NewRecorder()

	middleware.ServeHTTP(w, req)

	resp := w.Result()

	headers := []string{
		"Content-Security-Policy",
		"Strict-Transport-Security",
		"X-Frame-Options",
		"X-Content-Type-Options",
		"Referrer-Policy",
	}

	for _, h := range headers {
		if resp.Header.Get(h) == "" {
			t.Errorf("Expected header %s to be set", h)
		}
	}
}

func TestMiddleware_SecurityHeaders_NoHSTSOverHTTP(t *testing.T) {
	middleware := SecurityHeadersMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	w := httptest.NewRecorder()
	middleware.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Result().Header.Get("Strict-Transport-Security") != "" {
		t.Error("Expected no HSTS header for plain HTTP")
	}
}

func TestMiddleware_Auth(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	token := "secret-token"
	middleware := AuthMiddleware(token, nextHandler)

	tests := []struct {
		name           string
		path           string
		authHeader     string
		expectedStatus int
	}{
		{"No Auth - Non-API Path", "/mcp", "", http.StatusOK},
		{"No Auth - API Path", "/api/overview", "", http.StatusUnauthorized},
		{"Valid Auth - API Path", "/api/overview", "Bearer secret-token", http.StatusOK},
		{"Invalid Auth - API Path", "/api/overview", "Bearer wrong-token", http.StatusUnauthorized},
		{"Wrong Scheme - API Path", "/api/overview", "Basic secret-token", http.StatusUnauthorized},
		{"Query Auth - Disabled", "/api/overview?token=secret-token", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			middleware.ServeHTTP(w, req)

			if w.Result().StatusCode != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Result().StatusCode)
			}
		})
	}
}

func TestMiddleware_AuthRejection(t *testing.T) {
	middleware := AuthMiddleware("secret-token", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run for a rejected request")
	}))

	w := httptest.NewRecorder()
	middleware.ServeHTTP(w, httptest.NewRequest("GET", "/api/overview", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected status 401, got %d", w.Code)
	}
	if got := w.Header().Get("WWW-Authenticate"); got != `Bearer realm="assetboard"` {
		t.Errorf("Unexpected WWW-Authenticate header %q", got)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Expected JSON error body: %v", err)
	}
	if body["error"] == "" {
		t.Error("Expected error message in body")
	}
}

func TestMiddleware_AuthDisabled(t *testing.T) {
	middleware := AuthMiddleware("", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	middleware.ServeHTTP(w, httptest.NewRequest("GET", "/api/overview", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 with auth disabled, got %d", w.Code)
	}
}

func TestMiddleware_CacheControl(t *testing.T) {
	middleware := SecurityHeadersMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	tests := []struct {
		path string
		want string
	}{
		{"/api/overview", "no-store"},
		{"/mcp", ""},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		middleware.ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))
		if got := w.Header().Get("Cache-Control"); got != tt.want {
			t.Errorf("%s: Cache-Control = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestMiddleware_Logging(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"implicit ok", 0},
		{"created", http.StatusCreated},
		{"server error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			middleware := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				w.Write([]byte("ok"))
			}))

			w := httptest.NewRecorder()
			middleware.ServeHTTP(w, httptest.NewRequest("GET", "/api/overview", nil))

			want := tt.status
			if want == 0 {
				want = http.StatusOK
			}
			if w.Code != want {
				t.Errorf("Expected status %d, got %d", want, w.Code)
			}
			if w.Body.String() != "ok" {
				t.Errorf("Expected body to pass through, got %q", w.Body.String())
			}
		})
	}
}
