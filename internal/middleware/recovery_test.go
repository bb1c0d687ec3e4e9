package middleware

import (
	"bytes"
	"testing"

	"ember/internal/httpwire"
)

func TestNewRecoveryConvertsPanicTo500(t *testing.T) {
	mw := NewRecovery(WithoutRecoveryLogging())

	var buf bytes.Buffer
	resp := newTestResponse(&buf)
	req := newTestRequest(httpwire.MethodGET, "/boom")

	handler := mw(func(req *httpwire.Request, resp *httpwire.ResponseWriter) error {
		panic("kaboom")
	})

	if err := handler(req, resp); err != nil {
		t.Fatalf("expected recovered panic to yield nil error, got %v", err)
	}
	if resp.Status() != 500 {
		t.Fatalf("status = %d, want 500", resp.Status())
	}
	if !resp.HeaderWritten() {
		t.Fatal("expected a response to have been written")
	}
}

func TestNewRecoveryPassesThroughNormalHandler(t *testing.T) {
	mw := NewRecovery(WithoutRecoveryLogging())

	var buf bytes.Buffer
	resp := newTestResponse(&buf)
	req := newTestRequest(httpwire.MethodGET, "/ok")

	handler := mw(okHandler)

	if err := handler(req, resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status() != 200 {
		t.Fatalf("status = %d, want 200", resp.Status())
	}
}

func TestNewRecoveryDoesNotDoubleWriteIfHeaderAlreadySent(t *testing.T) {
	mw := NewRecovery(WithoutRecoveryLogging())

	var buf bytes.Buffer
	resp := newTestResponse(&buf)
	req := newTestRequest(httpwire.MethodGET, "/partial")

	handler := mw(func(req *httpwire.Request, resp *httpwire.ResponseWriter) error {
		_ = resp.WriteText(200, []byte("partial"))
		panic("after write")
	})

	if err := handler(req, resp); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if resp.Status() != 200 {
		t.Fatalf("status = %d, want 200 (already committed before panic)", resp.Status())
	}
}
