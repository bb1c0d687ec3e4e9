// Package router implements segment-trie HTTP routing with typed path
// parameters and a per-route middleware chain (spec §4.4, §4.5), grounded
// on the teacher pack's nimbus router (github.com/DylanHalstead/nimus).
package router

import "ember/internal/httpwire"

// Handler answers one request. Handlers signal failure by returning an
// error rather than writing a status themselves; the engine that invokes
// the chain (server.handler) is responsible for turning a returned error
// into the HandlerFailure response (spec §4.7, §7).
type Handler func(req *httpwire.Request, resp *httpwire.ResponseWriter) error

// Middleware wraps a Handler to run code before and/or after it,
// optionally short-circuiting by not calling next (spec §4.5).
type Middleware func(next Handler) Handler
