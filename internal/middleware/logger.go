package middleware

import (
	"time"

	"ember/internal/httpwire"
	"ember/internal/logging"
	"ember/internal/router"
)

type accessLogConfig struct {
	logger logging.Logger
}

// AccessLogOption configures NewAccessLog.
type AccessLogOption func(*accessLogConfig)

// WithAccessLogger overrides the logger access log lines are written to.
func WithAccessLogger(l logging.Logger) AccessLogOption {
	return func(c *accessLogConfig) { c.logger = l }
}

// NewAccessLog returns middleware that logs one structured line per
// request: method, status, bytes written, duration in milliseconds, and
// remote address; the path is not logged. It is a single wrapping
// middleware: it times the call to next and, once next returns, reads the
// status and byte count the handler produced. It only reads the response,
// never mutates it.
func NewAccessLog(opts ...AccessLogOption) router.Middleware {
	cfg := accessLogConfig{logger: logging.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next router.Handler) router.Handler {
		return func(req *httpwire.Request, resp *httpwire.ResponseWriter) error {
			start := time.Now()
			err := next(req, resp)
			cfg.logger.Info("request",
				"method", req.Method(),
				"status", resp.Status(),
				"bytes", resp.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", req.RemoteAddr,
			)
			return err
		}
	}
}
