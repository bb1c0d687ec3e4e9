package router

import (
	"ember/internal/httpwire"
)

// Router owns the routing trie plus the global middleware that wraps every
// route (spec §4.5). It is built up via Handle/Group calls and then
// Finalize()d once, after which it is safe for concurrent read-only use by
// every connection goroutine (spec §4.4 "immutable trie").
type Router struct {
	tree *tree

	globalPre  []Middleware
	globalPost []Middleware

	notFound Handler
}

// New creates an empty Router. The notFound handler is stored but nothing
// invokes it: a path that matches no route at all is reported through
// MatchOutcome.NotFound (as opposed to matching a different method, which
// yields MethodNotAllowed and a 405).
func New(notFound Handler) *Router {
	return &Router{tree: newTree(), notFound: notFound}
}

// Use appends middleware that wraps every route, pre- and post-handler
// (spec §4.5: global_pre ++ route_pre -> handler -> route_post ++
// global_post).
func (r *Router) Use(pre ...Middleware) {
	r.globalPre = append(r.globalPre, pre...)
}

// UsePost appends middleware that runs after the handler (and after any
// route-specific post middleware), in the outermost position.
func (r *Router) UsePost(post ...Middleware) {
	r.globalPost = append(r.globalPost, post...)
}

// Handle registers a route. opts may carry route-specific middleware via
// WithPre/WithPost.
func (r *Router) Handle(methodID uint8, pattern string, handler Handler, opts ...RouteOption) (*Route, error) {
	cfg := routeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return r.tree.AddRoute(methodID, pattern, handler, cfg.pre, cfg.post)
}

type routeConfig struct {
	pre, post []Middleware
}

// RouteOption configures a single Handle call.
type RouteOption func(*routeConfig)

// WithPre attaches route-scoped middleware that runs after global pre
// middleware, before the handler.
func WithPre(mw ...Middleware) RouteOption {
	return func(c *routeConfig) { c.pre = append(c.pre, mw...) }
}

// WithPost attaches route-scoped middleware that runs after the handler,
// before global post middleware.
func WithPost(mw ...Middleware) RouteOption {
	return func(c *routeConfig) { c.post = append(c.post, mw...) }
}

// Finalize locks the trie and builds every route's middleware chain
// (global ++ route-scoped) exactly once, so matching a request is never
// slowed down by chain construction (grounded on nimbus's buildAllChains).
func (r *Router) Finalize() {
	r.tree.Finalize()
	for _, route := range r.tree.routes {
		route.chain = buildChain(route.Handler, r.globalPre, route.PreMiddleware, route.PostMiddleware, r.globalPost)
	}
}

// buildChain composes global_pre ++ route_pre -> handler -> route_post ++
// global_post, applied stable-by-insertion (spec §14's resolution of the
// Open Question: global middleware always brackets route middleware,
// insertion order is preserved within each group).
//
// Post middleware wraps OUTSIDE the entire pre+handler unit rather than
// being nested inside it. A pre entry that short-circuits (returns without
// calling next) only ever skips what's nested inside it — the handler and
// any pre entries still further in — and returns normally to whichever
// post entry called it, so route_post/global_post still run (spec §4.5: "a
// pre-route entry may return a response (short-circuit) ... a post-route
// entry receives the response"). Nesting post inside pre, as a naive onion
// wrap would, loses that guarantee.
func buildChain(handler Handler, globalPre, routePre, routePost, globalPost []Middleware) Handler {
	h := handler
	for i := len(routePre) - 1; i >= 0; i-- {
		h = routePre[i](h)
	}
	for i := len(globalPre) - 1; i >= 0; i-- {
		h = globalPre[i](h)
	}
	// h is now global_pre ++ route_pre -> handler as one unit.
	for i := len(routePost) - 1; i >= 0; i-- {
		h = routePost[i](h)
	}
	for i := len(globalPost) - 1; i >= 0; i-- {
		h = globalPost[i](h)
	}
	return h
}

// MatchOutcome is the result of routing one request.
type MatchOutcome struct {
	Handler          Handler
	Params           httpwire.Params
	NotFound         bool
	MethodNotAllowed bool
	AllowedMethods   []uint8

	// BadRequest is set when path itself is malformed (e.g. a ".." that
	// escapes the root) rather than simply unmatched; the driver should
	// respond 400 and close the connection (spec §4.4, §7) without ever
	// entering the middleware chain.
	BadRequest bool
}

// Match finds the route (if any) for methodID+path, returning its built
// chain and bound parameters. path must already be percent-decoded (spec
// §4.2). A path that matches some route under a different method produces
// MethodNotAllowed with the Allow-header method list, per spec §7's 405
// case and §14's OPTIONS resolution: OPTIONS to a path with no explicit
// OPTIONS route also lands here.
func (r *Router) Match(methodID uint8, path string) MatchOutcome {
	result := r.tree.Match(methodID, path)

	if result.Err != nil {
		return MatchOutcome{BadRequest: true}
	}

	if result.Route != nil {
		return MatchOutcome{Handler: result.Route.chain, Params: result.Params}
	}

	if result.AllowedMethods != nil {
		return MatchOutcome{MethodNotAllowed: true, AllowedMethods: result.AllowedMethods}
	}

	return MatchOutcome{NotFound: true}
}
