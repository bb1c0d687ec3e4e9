package middleware

import (
	"bytes"
	"testing"

	"ember/internal/httpwire"
)

func TestNewRateLimitAllowsWithinBurst(t *testing.T) {
	mw := NewRateLimit(WithRequestsPerSecond(10), WithBurst(3))
	handler := mw(okHandler)

	for i := 0; i < 3; i++ {
		var buf bytes.Buffer
		resp := newTestResponse(&buf)
		req := newTestRequest(httpwire.MethodGET, "/limited")

		if err := handler(req, resp); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i, err)
		}
		if resp.Status() != 200 {
			t.Fatalf("request %d: status = %d, want 200", i, resp.Status())
		}
	}
}

func TestNewRateLimitRejectsOverBurst(t *testing.T) {
	mw := NewRateLimit(WithRequestsPerSecond(1), WithBurst(1))
	handler := mw(okHandler)

	req := newTestRequest(httpwire.MethodGET, "/limited")

	var first bytes.Buffer
	resp1 := newTestResponse(&first)
	if err := handler(req, resp1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp1.Status() != 200 {
		t.Fatalf("first request status = %d, want 200", resp1.Status())
	}

	var second bytes.Buffer
	resp2 := newTestResponse(&second)
	if err := handler(req, resp2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp2.Status() != 429 {
		t.Fatalf("second request status = %d, want 429", resp2.Status())
	}
	if got := resp2.Header().GetString([]byte("Retry-After")); got == "" {
		t.Fatal("expected Retry-After header on 429")
	}
}

func TestNewRateLimitKeysAreIndependent(t *testing.T) {
	mw := NewRateLimit(WithRequestsPerSecond(1), WithBurst(1))
	handler := mw(okHandler)

	reqA := newTestRequest(httpwire.MethodGET, "/limited")
	reqA.RemoteAddr = "10.0.0.1:1111"
	reqB := newTestRequest(httpwire.MethodGET, "/limited")
	reqB.RemoteAddr = "10.0.0.2:2222"

	var bufA bytes.Buffer
	respA := newTestResponse(&bufA)
	if err := handler(reqA, respA); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if respA.Status() != 200 {
		t.Fatalf("client A status = %d, want 200", respA.Status())
	}

	var bufB bytes.Buffer
	respB := newTestResponse(&bufB)
	if err := handler(reqB, respB); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if respB.Status() != 200 {
		t.Fatalf("client B status = %d, want 200 (independent bucket)", respB.Status())
	}
}

func TestWithKeyFuncOverridesBucketing(t *testing.T) {
	var seenKeys []string
	mw := NewRateLimit(
		WithBurst(100),
		WithKeyFunc(func(req *httpwire.Request) string {
			k := req.GetHeaderString("X-Tenant")
			seenKeys = append(seenKeys, k)
			return k
		}),
	)
	handler := mw(okHandler)

	var buf bytes.Buffer
	resp := newTestResponse(&buf)
	req := newTestRequest(httpwire.MethodGET, "/limited")
	setHeader(req, "X-Tenant", "acme")

	if err := handler(req, resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seenKeys) != 1 || seenKeys[0] != "acme" {
		t.Fatalf("expected custom key func to be used, got %v", seenKeys)
	}
}
