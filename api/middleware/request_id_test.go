package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestIDPropagatesCallerID(t *testing.T) {
	var seen string
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "pos-42")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if seen != "pos-42" || resp.Header().Get(requestIDHeader) != "pos-42" {
		t.Fatalf("expected caller id, got ctx=%q header=%q", seen, resp.Header().Get(requestIDHeader))
	}
}

func TestRequestIDReplacesUnusableIDs(t *testing.T) {
	for _, raw := range []string{"", strings.Repeat("a", maxRequestIDLength+1), "bad id", "tab\tid"} {
		var seen string
		handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = RequestIDFromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if raw != "" {
			req.Header.Set(requestIDHeader, raw)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if _, err := uuid.Parse(seen); err != nil {
			t.Fatalf("expected generated uuid for %q, got %q", raw, seen)
		}
	}
}
