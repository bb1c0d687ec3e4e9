// Package middleware collects the bundled pre/post entries every server
// built on this core reaches for: panic recovery, CORS, access logging,
// per-request timeouts, rate limiting, and response compression. Each is a
// constructor returning a router.Middleware, grounded on the
// functional-options shape the pack's own middleware packages use
// (WithX(...) Option, New(opts ...Option)).
package middleware

import (
	"fmt"
	"runtime/debug"

	"ember/internal/httpwire"
	"ember/internal/logging"
	"ember/internal/router"
)

type recoveryConfig struct {
	logger     logging.Logger
	stackTrace bool
}

// RecoveryOption configures NewRecovery.
type RecoveryOption func(*recoveryConfig)

// WithoutRecoveryLogging disables panic logging, e.g. to keep test output
// quiet.
func WithoutRecoveryLogging() RecoveryOption {
	return func(c *recoveryConfig) { c.logger = logging.NoOp() }
}

// WithRecoveryLogger sets the logger panics are reported to.
func WithRecoveryLogger(l logging.Logger) RecoveryOption {
	return func(c *recoveryConfig) { c.logger = l }
}

// WithStackTrace enables or disables stack-trace capture on a recovered
// panic. Default: true.
func WithStackTrace(enabled bool) RecoveryOption {
	return func(c *recoveryConfig) { c.stackTrace = enabled }
}

// NewRecovery returns middleware converting a handler panic into a 500
// response, the same failure mapping invokeHandler already applies at the
// server's outermost catch (spec §4.7) — this lets a route opt into
// catching a panic earlier, before it unwinds through any middleware
// layered above it.
func NewRecovery(opts ...RecoveryOption) router.Middleware {
	cfg := recoveryConfig{logger: logging.Default(), stackTrace: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next router.Handler) router.Handler {
		return func(req *httpwire.Request, resp *httpwire.ResponseWriter) (err error) {
			defer func() {
				if r := recover(); r != nil {
					if cfg.logger != nil {
						if cfg.stackTrace {
							cfg.logger.Error("recovered panic", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
						} else {
							cfg.logger.Error("recovered panic", "panic", fmt.Sprint(r))
						}
					}
					if !resp.HeaderWritten() {
						resp.WriteError(500, "")
					}
					err = nil
				}
			}()
			return next(req, resp)
		}
	}
}
