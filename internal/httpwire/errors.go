package httpwire

import "errors"

// Parser and wire-level errors. Each maps to a failure Kind in the server's
// error table (spec §7); the parser itself never writes a response.
var (
	ErrInvalidRequestLine     = errors.New("httpwire: invalid request line")
	ErrInvalidMethod          = errors.New("httpwire: invalid HTTP method")
	ErrInvalidPath            = errors.New("httpwire: invalid request path")
	ErrInvalidPercentEncoding = errors.New("httpwire: invalid percent-encoding in path")
	ErrInvalidProtocol        = errors.New("httpwire: invalid or unsupported protocol version")
	ErrInvalidHeader          = errors.New("httpwire: invalid HTTP header")
	ErrHeaderTooLarge         = errors.New("httpwire: header name or value too large")
	ErrRequestLineTooLarge    = errors.New("httpwire: request line too large")
	ErrURITooLong             = errors.New("httpwire: URI too long")
	ErrHeadersTooLarge        = errors.New("httpwire: headers too large")
	ErrChunkedEncoding        = errors.New("httpwire: chunked encoding error")
	ErrInvalidContentLength   = errors.New("httpwire: invalid Content-Length")
	ErrTooManyHeaders         = errors.New("httpwire: too many headers")
	ErrRequestBodyTooLarge    = errors.New("httpwire: request body exceeds configured maximum")

	// ErrContentLengthWithTransferEncoding and ErrDuplicateContentLength
	// guard against RFC 7230 §3.3.3 request-smuggling vectors: a request
	// must not carry both framing headers, and duplicate Content-Length
	// headers must agree.
	ErrContentLengthWithTransferEncoding = errors.New("httpwire: request has both Content-Length and Transfer-Encoding")
	ErrDuplicateContentLength            = errors.New("httpwire: duplicate Content-Length headers with different values")

	ErrUnexpectedEOF = errors.New("httpwire: unexpected EOF")

	// ErrResponseAlreadySent is returned by ResponseWriter when status or
	// headers are set after the response has been sent (spec §4.3).
	ErrResponseAlreadySent = errors.New("httpwire: response already sent")
)
