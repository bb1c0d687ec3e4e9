// Package httpwire implements incremental HTTP/1.1 parsing and the request
// and response containers built on top of it (spec §4.2, §4.3).
package httpwire

// Method IDs, used for O(1) switching instead of string comparison on the
// request hot path.
const (
	MethodUnknown uint8 = iota
	MethodGET
	MethodPOST
	MethodPUT
	MethodDELETE
	MethodPATCH
	MethodHEAD
	MethodOPTIONS
	MethodCONNECT
	MethodTRACE
)

var (
	methodGETBytes     = []byte("GET")
	methodPOSTBytes    = []byte("POST")
	methodPUTBytes     = []byte("PUT")
	methodDELETEBytes  = []byte("DELETE")
	methodPATCHBytes   = []byte("PATCH")
	methodHEADBytes    = []byte("HEAD")
	methodOPTIONSBytes = []byte("OPTIONS")
	methodCONNECTBytes = []byte("CONNECT")
	methodTRACEBytes   = []byte("TRACE")
)

const (
	methodGETString     = "GET"
	methodPOSTString    = "POST"
	methodPUTString     = "PUT"
	methodDELETEString  = "DELETE"
	methodPATCHString   = "PATCH"
	methodHEADString    = "HEAD"
	methodOPTIONSString = "OPTIONS"
	methodCONNECTString = "CONNECT"
	methodTRACEString   = "TRACE"
)

// Pre-compiled status lines, CRLF-terminated, covering the codes the error
// table in spec §7 and ordinary handler responses actually use. Uncommon
// codes fall back to buildStatusLine, which allocates.
var (
	status100Bytes = []byte("HTTP/1.1 100 Continue\r\n")
	status200Bytes = []byte("HTTP/1.1 200 OK\r\n")
	status201Bytes = []byte("HTTP/1.1 201 Created\r\n")
	status202Bytes = []byte("HTTP/1.1 202 Accepted\r\n")
	status204Bytes = []byte("HTTP/1.1 204 No Content\r\n")
	status301Bytes = []byte("HTTP/1.1 301 Moved Permanently\r\n")
	status302Bytes = []byte("HTTP/1.1 302 Found\r\n")
	status304Bytes = []byte("HTTP/1.1 304 Not Modified\r\n")
	status400Bytes = []byte("HTTP/1.1 400 Bad Request\r\n")
	status401Bytes = []byte("HTTP/1.1 401 Unauthorized\r\n")
	status403Bytes = []byte("HTTP/1.1 403 Forbidden\r\n")
	status404Bytes = []byte("HTTP/1.1 404 Not Found\r\n")
	status405Bytes = []byte("HTTP/1.1 405 Method Not Allowed\r\n")
	status413Bytes = []byte("HTTP/1.1 413 Payload Too Large\r\n")
	status415Bytes = []byte("HTTP/1.1 415 Unsupported Media Type\r\n")
	status429Bytes = []byte("HTTP/1.1 429 Too Many Requests\r\n")
	status500Bytes = []byte("HTTP/1.1 500 Internal Server Error\r\n")
	status503Bytes = []byte("HTTP/1.1 503 Service Unavailable\r\n")
)

var (
	headerContentLength    = []byte("Content-Length")
	headerContentType      = []byte("Content-Type")
	headerConnection       = []byte("Connection")
	headerKeepAliveValue   = []byte("keep-alive")
	headerCloseValue       = []byte("close")
	headerTransferEncoding = []byte("Transfer-Encoding")
	headerChunkedValue     = []byte("chunked")
	headerHost             = []byte("Host")
	headerAllow            = []byte("Allow")
	headerServer           = []byte("Server")
	headerDate             = []byte("Date")
)

var (
	contentTypeJSONUTF8 = []byte("application/json; charset=utf-8")
	contentTypeHTML     = []byte("text/html; charset=utf-8")
	contentTypePlain    = []byte("text/plain; charset=utf-8")
)

var (
	http11Bytes = []byte("HTTP/1.1")
	http10Bytes = []byte("HTTP/1.0")
	crlfBytes   = []byte("\r\n")
	colonSpace  = []byte(": ")
)

const (
	ProtoHTTP11Major = 1
	ProtoHTTP11Minor = 1
)

// Limits enforced by the parser per spec §4.2 and the error table in §7.
// These are defaults; the server config (§6.5) may override the header
// total at construction time.
const (
	// MaxHeaders is the number of headers stored inline before falling back
	// to the overflow slice (rare — see header.go).
	MaxHeaders = 32

	MaxHeaderName      = 128
	MaxRequestLineSize = 8192
	MaxURILength       = 8192

	// DefaultMaxHeaderBytes is the default total cap on request line plus
	// headers (spec §6.5 max_header_bytes).
	DefaultMaxHeaderBytes = 64 * 1024
)
