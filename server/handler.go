package server

import (
	"fmt"

	"ember/internal/httpwire"
	"ember/internal/logging"
	"ember/internal/router"
)

// invokeHandler runs chain against req/resp, recovering any panic and
// converting it to the same HandlerFailure a returned error produces (spec
// §4.7 "errors from the handler, including panics... are caught and
// converted to 500", §9 "the handler bridge is the only place that catches
// arbitrary collaborator failure").
func invokeHandler(chain router.Handler, req *httpwire.Request, resp *httpwire.ResponseWriter, log logging.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("handler panic", "panic", fmt.Sprint(r))
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return chain(req, resp)
}

// writeFailureResponse writes a bare status-code response with an empty
// body for errors that bypass the user handler entirely (parser/router
// failures, per spec §7's propagation policy: "parser and router errors
// ... bypass the middleware chain, pre and post").
func writeFailureResponse(resp *httpwire.ResponseWriter, status int) error {
	return resp.WriteError(status, "")
}
