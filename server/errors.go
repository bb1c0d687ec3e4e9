package server

import (
	"errors"

	"ember/internal/httpwire"
	"ember/internal/memory"
)

// statusForParseError maps a Parser/Request error to the HTTP status and
// close decision from spec §7's error table. Every parser-level failure
// closes the connection afterward except where the table says otherwise;
// none of these arise from router or handler execution.
func statusForParseError(err error) (status int, closeConn bool) {
	switch {
	case errors.Is(err, httpwire.ErrHeadersTooLarge),
		errors.Is(err, httpwire.ErrRequestLineTooLarge),
		errors.Is(err, httpwire.ErrURITooLong),
		errors.Is(err, httpwire.ErrRequestBodyTooLarge),
		errors.Is(err, httpwire.ErrTooManyHeaders):
		return 413, true

	case errors.Is(err, httpwire.ErrInvalidPercentEncoding),
		errors.Is(err, httpwire.ErrInvalidRequestLine),
		errors.Is(err, httpwire.ErrInvalidMethod),
		errors.Is(err, httpwire.ErrInvalidPath),
		errors.Is(err, httpwire.ErrInvalidProtocol),
		errors.Is(err, httpwire.ErrInvalidHeader),
		errors.Is(err, httpwire.ErrInvalidContentLength),
		errors.Is(err, httpwire.ErrContentLengthWithTransferEncoding),
		errors.Is(err, httpwire.ErrDuplicateContentLength),
		errors.Is(err, httpwire.ErrChunkedEncoding):
		return 400, true

	case errors.Is(err, memory.ErrAllocationExhausted):
		return 500, true

	default:
		return 400, true
	}
}
