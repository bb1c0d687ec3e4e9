package middleware

import (
	"bytes"

	"ember/internal/httpwire"
	"ember/internal/router"
)

// newTestRequest builds a minimal Request suitable for exercising a single
// middleware in isolation, without going through the parser.
func newTestRequest(method uint8, path string) *httpwire.Request {
	req := &httpwire.Request{}
	req.MethodID = method
	req.RemoteAddr = "192.0.2.10:5555"
	return req
}

func setHeader(req *httpwire.Request, name, value string) {
	req.Header.Set([]byte(name), []byte(value))
}

func newTestResponse(buf *bytes.Buffer) *httpwire.ResponseWriter {
	return httpwire.NewResponseWriter(buf)
}

func okHandler(req *httpwire.Request, resp *httpwire.ResponseWriter) error {
	return resp.WriteText(200, []byte("ok"))
}

var _ router.Handler = okHandler
