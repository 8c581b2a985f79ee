package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func authHandler(apiKeys []string) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return BearerAuthMiddleware(apiKeys)(ok)
}

func TestBearerAuthMiddleware_Disabled(t *testing.T) {
	h := authHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/datasets", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 when auth is disabled", rec.Code)
	}
}

func TestBearerAuthMiddleware(t *testing.T) {
	h := authHandler([]string{"key-1", "key-2"})

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing header", "/api/v1/datasets", "", http.StatusUnauthorized},
		{"wrong scheme", "/api/v1/datasets", "Basic key-1", http.StatusUnauthorized},
		{"invalid key", "/api/v1/datasets", "Bearer nope", http.StatusUnauthorized},
		{"valid key", "/api/v1/datasets", "Bearer key-1", http.StatusOK},
		{"second valid key", "/api/v1/datasets", "Bearer key-2", http.StatusOK},
		{"health exempt", "/health", "", http.StatusOK},
		{"metrics exempt", "/metrics", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestBearerAuthMiddleware_EmptyKeysIgnored(t *testing.T) {
	// Blank entries must not open a "Bearer " backdoor.
	h := authHandler([]string{""})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/datasets", nil)
	req.Header.Set("Authorization", "Bearer ")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200: all-blank key list disables auth entirely", rec.Code)
	}
}
