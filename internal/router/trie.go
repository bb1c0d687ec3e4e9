package router

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"ember/internal/httpwire"
)

// ErrRouteConflict is returned by AddRoute when a method+pattern pair is
// already registered (spec §7 RouteConflict).
type ErrRouteConflict struct {
	Method  uint8
	Pattern string
}

func (e *ErrRouteConflict) Error() string {
	return fmt.Sprintf("router: route conflict: %s %s already registered", httpwire.MethodString(e.Method), e.Pattern)
}

// node is one segment boundary in the routing trie. Each node may hold, at
// most, one static child per literal segment, one typed-parameter child per
// ParamKind, and one path-typed wildcard child — matched in that order
// (spec §4.4: static > typed-parameter (int < uint < float < uuid < str) >
// wildcard).
type node struct {
	staticChildren map[string]*node
	typedChildren  map[httpwire.ParamKind]*typedChild
	wildcardChild  *wildcardChild

	routes map[uint8]*Route
}

type typedChild struct {
	name string
	node *node
}

type wildcardChild struct {
	name string
	node *node
}

func newNode() *node {
	return &node{}
}

// tree is the root of the routing trie, holding every method's routes.
// Matching and insertion both walk the same tree, keyed by segment, so a
// node's routes map directly yields the Allow set for a 405 response.
type tree struct {
	root   *node
	nextID int
	built  bool
	routes []*Route
}

func newTree() *tree {
	return &tree{root: newNode()}
}

// AddRoute registers method+pattern against handler with any route-scoped
// middleware. Returns *ErrRouteConflict if the same method+pattern was
// already registered.
func (t *tree) AddRoute(methodID uint8, pattern string, handler Handler, pre, post []Middleware) (*Route, error) {
	if t.built {
		return nil, fmt.Errorf("router: cannot add routes after Finalize")
	}

	segments, err := parsePattern(pattern)
	if err != nil {
		return nil, err
	}
	normalized, err := normalizePath(pattern)
	if err != nil {
		return nil, err
	}

	route := &Route{
		ID:             t.nextID,
		MethodID:       methodID,
		Pattern:        normalized,
		Handler:        handler,
		PreMiddleware:  pre,
		PostMiddleware: post,
		segments:       segments,
	}

	n := t.root
	for _, seg := range segments {
		switch seg.kind {
		case segStatic:
			if n.staticChildren == nil {
				n.staticChildren = make(map[string]*node)
			}
			child, ok := n.staticChildren[seg.literal]
			if !ok {
				child = newNode()
				n.staticChildren[seg.literal] = child
			}
			n = child

		case segParam:
			if n.typedChildren == nil {
				n.typedChildren = make(map[httpwire.ParamKind]*typedChild)
			}
			tc, ok := n.typedChildren[seg.typ]
			if !ok {
				tc = &typedChild{name: seg.name, node: newNode()}
				n.typedChildren[seg.typ] = tc
			}
			n = tc.node

		case segWildcard:
			if n.wildcardChild == nil {
				n.wildcardChild = &wildcardChild{name: seg.name, node: newNode()}
			}
			n = n.wildcardChild.node
		}
	}

	if n.routes == nil {
		n.routes = make(map[uint8]*Route)
	}
	if _, exists := n.routes[methodID]; exists {
		return nil, &ErrRouteConflict{Method: methodID, Pattern: route.Pattern}
	}
	n.routes[methodID] = route
	t.nextID++
	t.routes = append(t.routes, route)

	return route, nil
}

// Finalize locks the tree against further inserts. Route chains (with
// global middleware composed in) are built separately by the Router once
// global middleware is known — see buildChain, called from Router.Finalize.
func (t *tree) Finalize() {
	t.built = true
}

// matchResult is what Match returns: either a route with bound parameters,
// or — if the path matched some route's pattern under a different method —
// the set of methods that path does support, for a 405 response. Err is set
// (and everything else left zero) when path itself is malformed, e.g. a
// ".." that escapes the root.
type matchResult struct {
	Route          *Route
	Params         httpwire.Params
	AllowedMethods []uint8 // populated only when Route is nil but the path exists
	Err            error
}

// Match walks the trie for path, trying static children first, then typed
// parameter children in precedence order, then the wildcard child (spec
// §4.4). path must already be percent-decoded.
func (t *tree) Match(methodID uint8, path string) matchResult {
	segments, err := splitPath(path)
	if err != nil {
		return matchResult{Err: err}
	}
	var params httpwire.Params

	n, ok := matchNode(t.root, segments, &params)
	if !ok || n == nil || len(n.routes) == 0 {
		return matchResult{}
	}

	route, ok := n.routes[methodID]
	if !ok {
		return matchResult{AllowedMethods: allowedMethods(n)}
	}

	return matchResult{Route: route, Params: params}
}

func allowedMethods(n *node) []uint8 {
	methods := make([]uint8, 0, len(n.routes))
	for m := range n.routes {
		methods = append(methods, m)
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i] < methods[j] })
	return methods
}

func matchNode(n *node, segments []string, params *httpwire.Params) (*node, bool) {
	if len(segments) == 0 {
		return n, true
	}

	seg := segments[0]
	rest := segments[1:]

	if n.staticChildren != nil {
		if child, ok := n.staticChildren[seg]; ok {
			if result, ok := matchNode(child, rest, params); ok {
				return result, true
			}
		}
	}

	if n.typedChildren != nil {
		for _, kind := range typedKindsInPrecedence(n.typedChildren) {
			tc := n.typedChildren[kind]
			value, ok := coerce(kind, seg)
			if !ok {
				continue
			}
			if result, ok := matchNode(tc.node, rest, params); ok {
				params.AddParam(value.withName(tc.name))
				return result, true
			}
		}
	}

	if n.wildcardChild != nil {
		full := joinPath(segments)
		params.AddParam(httpwire.NewParam(n.wildcardChild.name, full, httpwire.ParamPath))
		return n.wildcardChild.node, true
	}

	return nil, false
}

func typedKindsInPrecedence(m map[httpwire.ParamKind]*typedChild) []httpwire.ParamKind {
	kinds := make([]httpwire.ParamKind, 0, len(m))
	for k := range m {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return typePrecedence(kinds[i]) < typePrecedence(kinds[j]) })
	return kinds
}

// coercedParam is a Param awaiting its name (matchNode only learns the
// type-child's parameter name after a successful deeper match, to avoid
// binding a parameter for a branch that ultimately fails to match).
type coercedParam struct {
	kind     httpwire.ParamKind
	raw      string
	intVal   int64
	uintVal  uint64
	floatVal float64
	uuidVal  uuid.UUID
}

func (c coercedParam) withName(name string) httpwire.Param {
	switch c.kind {
	case httpwire.ParamInt:
		return httpwire.WithInt(name, c.raw, c.intVal)
	case httpwire.ParamUint:
		return httpwire.WithUint(name, c.raw, c.uintVal)
	case httpwire.ParamFloat:
		return httpwire.WithFloat(name, c.raw, c.floatVal)
	case httpwire.ParamUUID:
		return httpwire.WithUUID(name, c.raw, c.uuidVal)
	default:
		return httpwire.NewParam(name, c.raw, httpwire.ParamStr)
	}
}

// coerce attempts to interpret seg as kind, per spec §4.4's typed-parameter
// coercion rules: a segment that doesn't parse as the declared type simply
// fails to match that branch (the router backtracks to a lower-precedence
// typed child, or ultimately a 404), rather than erroring.
func coerce(kind httpwire.ParamKind, seg string) (coercedParam, bool) {
	switch kind {
	case httpwire.ParamInt:
		v, err := strconv.ParseInt(seg, 10, 64)
		if err != nil {
			return coercedParam{}, false
		}
		return coercedParam{kind: kind, raw: seg, intVal: v}, true
	case httpwire.ParamUint:
		v, err := strconv.ParseUint(seg, 10, 64)
		if err != nil {
			return coercedParam{}, false
		}
		return coercedParam{kind: kind, raw: seg, uintVal: v}, true
	case httpwire.ParamFloat:
		v, err := strconv.ParseFloat(seg, 64)
		if err != nil {
			return coercedParam{}, false
		}
		return coercedParam{kind: kind, raw: seg, floatVal: v}, true
	case httpwire.ParamUUID:
		v, err := uuid.Parse(seg)
		if err != nil {
			return coercedParam{}, false
		}
		return coercedParam{kind: kind, raw: seg, uuidVal: v}, true
	case httpwire.ParamStr:
		if seg == "" {
			return coercedParam{}, false
		}
		return coercedParam{kind: kind, raw: seg}, true
	default:
		return coercedParam{}, false
	}
}

func splitPath(path string) ([]string, error) {
	path, err := normalizePath(path)
	if err != nil {
		return nil, err
	}
	if path == "/" {
		return nil, nil
	}
	trimmed := path[1:]
	trailingSlash := len(trimmed) > 0 && trimmed[len(trimmed)-1] == '/'
	if trailingSlash {
		trimmed = trimmed[:len(trimmed)-1]
	}

	var segments []string
	start := 0
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] == '/' {
			segments = append(segments, trimmed[start:i])
			start = i + 1
		}
	}
	segments = append(segments, trimmed[start:])

	if trailingSlash {
		// An explicit trailing slash is itself a distinct final segment:
		// represented as an empty-string segment so "/widgets" and
		// "/widgets/" land at different trie nodes (spec §8).
		segments = append(segments, "")
	}
	return segments, nil
}

// joinPath rejoins the segments a {rest:path} wildcard captures, without a
// leading slash: "a/b/c.txt", not "/a/b/c.txt" (spec §8).
func joinPath(segments []string) string {
	out := segments[0]
	for _, s := range segments[1:] {
		out += "/" + s
	}
	return out
}
