package router

import "strings"

// Group registers routes under a common path prefix and middleware set,
// supplementing the spec with the convenience nearly every real router in
// the teacher pack offers (grounded on nimbus's Group).
type Group struct {
	router     *Router
	prefix     string
	middleware []Middleware
}

// Group creates a route group under prefix, wrapped in the given
// middleware in addition to anything registered globally.
func (r *Router) Group(prefix string, middleware ...Middleware) *Group {
	return &Group{router: r, prefix: strings.TrimSuffix(prefix, "/"), middleware: middleware}
}

// Use appends middleware applied to every route added to this group from
// this point on.
func (g *Group) Use(middleware ...Middleware) {
	g.middleware = append(g.middleware, middleware...)
}

// Handle registers a route under the group's prefix, with the group's
// middleware run before any middleware passed in opts.
func (g *Group) Handle(methodID uint8, pattern string, handler Handler, opts ...RouteOption) (*Route, error) {
	normalized, err := normalizePath(pattern)
	if err != nil {
		return nil, err
	}
	full := g.prefix + normalized
	cfg := routeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	pre := append(append([]Middleware{}, g.middleware...), cfg.pre...)
	return g.router.tree.AddRoute(methodID, full, handler, pre, cfg.post)
}

// Group creates a nested group under this one, concatenating prefixes and
// middleware.
func (g *Group) Group(prefix string, middleware ...Middleware) *Group {
	return &Group{
		router:     g.router,
		prefix:     g.prefix + strings.TrimSuffix(prefix, "/"),
		middleware: append(append([]Middleware{}, g.middleware...), middleware...),
	}
}
