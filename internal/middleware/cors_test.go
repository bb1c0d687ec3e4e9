package middleware

import (
	"bytes"
	"testing"

	"ember/internal/httpwire"
)

func TestNewCORSSetsAllowOriginForWildcard(t *testing.T) {
	mw := NewCORS(WithAllowOrigins("*"))

	var buf bytes.Buffer
	resp := newTestResponse(&buf)
	req := newTestRequest(httpwire.MethodGET, "/data")
	setHeader(req, "Origin", "https://example.com")

	handler := mw(okHandler)
	if err := handler(req, resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := resp.Header().GetString([]byte("Access-Control-Allow-Origin")); got != "*" {
		t.Fatalf("Allow-Origin = %q, want *", got)
	}
	if resp.Status() != 200 {
		t.Fatalf("status = %d, want 200", resp.Status())
	}
}

func TestNewCORSRejectsDisallowedOrigin(t *testing.T) {
	mw := NewCORS(WithAllowOrigins("https://allowed.example"))

	var buf bytes.Buffer
	resp := newTestResponse(&buf)
	req := newTestRequest(httpwire.MethodGET, "/data")
	setHeader(req, "Origin", "https://evil.example")

	handler := mw(okHandler)
	if err := handler(req, resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := resp.Header().GetString([]byte("Access-Control-Allow-Origin")); got != "" {
		t.Fatalf("expected no Allow-Origin header for disallowed origin, got %q", got)
	}
}

func TestNewCORSShortCircuitsPreflight(t *testing.T) {
	mw := NewCORS(WithAllowOrigins("*"))

	called := false
	next := func(req *httpwire.Request, resp *httpwire.ResponseWriter) error {
		called = true
		return nil
	}

	var buf bytes.Buffer
	resp := newTestResponse(&buf)
	req := newTestRequest(httpwire.MethodOPTIONS, "/data")
	setHeader(req, "Origin", "https://example.com")

	handler := mw(next)
	if err := handler(req, resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if called {
		t.Fatal("expected preflight OPTIONS to short-circuit before reaching next")
	}
	if resp.Status() != 204 {
		t.Fatalf("status = %d, want 204", resp.Status())
	}
	if got := resp.Header().GetString([]byte("Access-Control-Allow-Methods")); got == "" {
		t.Fatal("expected Allow-Methods on preflight response")
	}
}

func TestNewCORSAllowCredentialsDisablesWildcard(t *testing.T) {
	mw := NewCORS(WithAllowOrigins("*"), WithAllowCredentials(true))

	var buf bytes.Buffer
	resp := newTestResponse(&buf)
	req := newTestRequest(httpwire.MethodGET, "/data")
	setHeader(req, "Origin", "https://example.com")

	handler := mw(okHandler)
	if err := handler(req, resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := resp.Header().GetString([]byte("Access-Control-Allow-Origin")); got != "https://example.com" {
		t.Fatalf("Allow-Origin = %q, want echoed origin when credentials are allowed", got)
	}
	if got := resp.Header().GetString([]byte("Access-Control-Allow-Credentials")); got != "true" {
		t.Fatalf("Allow-Credentials = %q, want true", got)
	}
}
