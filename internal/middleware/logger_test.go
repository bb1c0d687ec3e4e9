package middleware

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"ember/internal/httpwire"
	"ember/internal/logging"
)

func TestNewAccessLogWritesOneLinePerRequest(t *testing.T) {
	var logBuf bytes.Buffer
	logger := logging.NewJSONLogger(&logBuf, slog.LevelInfo)

	mw := NewAccessLog(WithAccessLogger(logger))

	var respBuf bytes.Buffer
	resp := newTestResponse(&respBuf)
	req := newTestRequest(httpwire.MethodGET, "/widgets")

	handler := mw(okHandler)
	if err := handler(req, resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := logBuf.String()
	if !strings.Contains(out, `"status":200`) {
		t.Fatalf("expected status field in access log, got %q", out)
	}
	if !strings.Contains(out, `"method":"GET"`) {
		t.Fatalf("expected method field in access log, got %q", out)
	}
	if !strings.Contains(out, `"remote_addr":"192.0.2.10:5555"`) {
		t.Fatalf("expected remote_addr field in access log, got %q", out)
	}
}

func TestNewAccessLogStillRunsHandlerOnError(t *testing.T) {
	var logBuf bytes.Buffer
	logger := logging.NewJSONLogger(&logBuf, slog.LevelInfo)
	mw := NewAccessLog(WithAccessLogger(logger))

	var respBuf bytes.Buffer
	resp := newTestResponse(&respBuf)
	req := newTestRequest(httpwire.MethodGET, "/boom")

	handler := mw(func(req *httpwire.Request, resp *httpwire.ResponseWriter) error {
		return httpwire.ErrResponseAlreadySent
	})

	if err := handler(req, resp); err == nil {
		t.Fatal("expected the handler's error to propagate")
	}
	if logBuf.Len() == 0 {
		t.Fatal("expected an access log line even when the handler errors")
	}
}
