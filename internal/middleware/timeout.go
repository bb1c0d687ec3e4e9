package middleware

import (
	"context"
	"time"

	"ember/internal/httpwire"
	"ember/internal/router"
)

// timeoutContextKey is the Context key a handler reads to cooperatively
// observe that its budget has expired (spec §4.6 "cancellation: only on
// connection close... handlers observe cancellation cooperatively by
// checking a flag passed in the request context; the core does not
// forcibly terminate handler execution").
const timeoutContextKey = "ember.timeout.ctx"

// DeadlineFromRequest retrieves the context.Context a handler should use
// for cancellation-aware work (e.g. passing to a downstream client call),
// if NewTimeout wraps the route. Returns context.Background() otherwise.
func DeadlineFromRequest(req *httpwire.Request) context.Context {
	if v, ok := req.Ctx.Get(timeoutContextKey); ok {
		if ctx, ok := v.(context.Context); ok {
			return ctx
		}
	}
	return context.Background()
}

// NewTimeout attaches a context.Context with the given deadline to the
// request's scratch context for the handler to observe. It never aborts
// or overwrites the response itself — per spec §4.6, cancellation here is
// advisory, not forced. Pairing this with NewRecovery lets a cooperating
// handler return promptly once ctx.Err() is non-nil, while an
// uncooperative handler simply runs to completion as it would without
// this middleware.
func NewTimeout(d time.Duration) router.Middleware {
	return func(next router.Handler) router.Handler {
		return func(req *httpwire.Request, resp *httpwire.ResponseWriter) error {
			ctx, cancel := context.WithTimeout(context.Background(), d)
			defer cancel()
			req.Ctx.Set(timeoutContextKey, ctx)
			return next(req, resp)
		}
	}
}
