package router

// Route is one registered endpoint: a method, a parsed pattern, the
// handler to invoke on a match, and any route-specific middleware layered
// around it (spec §3 "route: method + pattern + handler + middleware
// refs").
type Route struct {
	ID       int
	MethodID uint8
	Pattern  string
	Handler  Handler

	PreMiddleware  []Middleware
	PostMiddleware []Middleware

	segments []segment
	chain    Handler // built by Router.Finalize; global+route middleware composed
}
