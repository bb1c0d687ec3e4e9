package middleware

import (
	"strconv"
	"strings"
	"time"

	"ember/internal/httpwire"
	"ember/internal/router"
)

type corsConfig struct {
	allowOrigins     []string
	allowAllOrigins  bool
	allowMethods     string
	allowHeaders     string
	exposeHeaders    string
	allowCredentials bool
	maxAge           time.Duration
}

// CORSOption configures NewCORS.
type CORSOption func(*corsConfig)

// WithAllowOrigins sets the exact origins allowed. "*" allows any origin.
func WithAllowOrigins(origins ...string) CORSOption {
	return func(c *corsConfig) {
		for _, o := range origins {
			if o == "*" {
				c.allowAllOrigins = true
			}
		}
		c.allowOrigins = origins
	}
}

// WithAllowMethods sets the Access-Control-Allow-Methods value.
func WithAllowMethods(methods ...string) CORSOption {
	return func(c *corsConfig) { c.allowMethods = strings.Join(methods, ", ") }
}

// WithAllowHeaders sets the Access-Control-Allow-Headers value.
func WithAllowHeaders(headers ...string) CORSOption {
	return func(c *corsConfig) { c.allowHeaders = strings.Join(headers, ", ") }
}

// WithExposeHeaders sets the Access-Control-Expose-Headers value.
func WithExposeHeaders(headers ...string) CORSOption {
	return func(c *corsConfig) { c.exposeHeaders = strings.Join(headers, ", ") }
}

// WithAllowCredentials sets Access-Control-Allow-Credentials.
func WithAllowCredentials(allow bool) CORSOption {
	return func(c *corsConfig) { c.allowCredentials = allow }
}

// WithMaxAge sets how long a preflight response may be cached.
func WithMaxAge(d time.Duration) CORSOption {
	return func(c *corsConfig) { c.maxAge = d }
}

// NewCORS returns pre-route middleware implementing CORS response headers
// and OPTIONS preflight short-circuiting — the concrete resolution spec
// §14's Open Question anticipates for "an explicit CORS middleware
// short-circuit[ing] pre-route" ahead of the router's bare 405 fallback for
// an unregistered OPTIONS route.
func NewCORS(opts ...CORSOption) router.Middleware {
	cfg := corsConfig{
		allowMethods: "GET, POST, PUT, PATCH, DELETE, HEAD, OPTIONS",
		allowHeaders: "Content-Type, Authorization",
		maxAge:       12 * time.Hour,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next router.Handler) router.Handler {
		return func(req *httpwire.Request, resp *httpwire.ResponseWriter) error {
			origin := req.GetHeaderString("Origin")
			if origin != "" && cfg.originAllowed(origin) {
				allowOrigin := origin
				if cfg.allowAllOrigins && !cfg.allowCredentials {
					allowOrigin = "*"
				}
				resp.SetHeader([]byte("Access-Control-Allow-Origin"), []byte(allowOrigin))
				if cfg.allowCredentials {
					resp.SetHeader([]byte("Access-Control-Allow-Credentials"), []byte("true"))
				}
				if cfg.exposeHeaders != "" {
					resp.SetHeader([]byte("Access-Control-Expose-Headers"), []byte(cfg.exposeHeaders))
				}
			}

			if req.MethodID == httpwire.MethodOPTIONS {
				if origin != "" {
					resp.SetHeader([]byte("Access-Control-Allow-Methods"), []byte(cfg.allowMethods))
					resp.SetHeader([]byte("Access-Control-Allow-Headers"), []byte(cfg.allowHeaders))
					resp.SetHeader([]byte("Access-Control-Max-Age"), []byte(strconv.Itoa(int(cfg.maxAge.Seconds()))))
				}
				return resp.WriteError(204, "")
			}

			return next(req, resp)
		}
	}
}

func (c corsConfig) originAllowed(origin string) bool {
	if c.allowAllOrigins {
		return true
	}
	for _, o := range c.allowOrigins {
		if o == origin {
			return true
		}
	}
	return false
}
