package apidocs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestSpec(t *testing.T) {
	data, err := Spec(context.Background())
	if err != nil {
		t.Fatalf("Spec() error = %v", err)
	}

	var doc struct {
		Paths map[string]any `json:"paths"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Spec() is not JSON: %v", err)
	}
	for _, p := range []string{"/api/auth/login", "/api/votings/{id}/vote", "/api/admin/users/{identifier}"} {
		if _, ok := doc.Paths[p]; !ok {
			t.Errorf("Spec() is missing path %s", p)
		}
	}
}

func TestDoc(t *testing.T) {
	e := echo.New()
	e.Pre(Doc("/api", []byte(`{"openapi":"3.0.3"}`),
		WithAuthorizer(func(r *http.Request) bool { return r.Header.Get("X-Deny") == "" })))

	tests := []struct {
		name   string
		path   string
		deny   bool
		status int
	}{
		{"ui", "/api/apidocs", false, http.StatusOK},
		{"spec", "/api/apispec.json", false, http.StatusOK},
		{"base redirects", "/api", false, http.StatusFound},
		{"denied", "/api/apidocs", true, http.StatusForbidden},
		{"passes through", "/api/other", false, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.deny {
				req.Header.Set("X-Deny", "1")
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.status)
			}
		})
	}
}
