package httpwire

import (
	"io"
	"sync"
)

// DefaultBufferSize is the size of a pooled scratch read/write buffer.
const DefaultBufferSize = 4096

var (
	requestPool = sync.Pool{
		New: func() interface{} { return &Request{} },
	}

	responseWriterPool = sync.Pool{
		New: func() interface{} { return &ResponseWriter{} },
	}

	bufferPool = sync.Pool{
		New: func() interface{} {
			buf := make([]byte, DefaultBufferSize)
			return &buf
		},
	}
)

// GetRequest retrieves a reset Request from the pool. Callers must call
// PutRequest when finished.
func GetRequest() *Request {
	req := requestPool.Get().(*Request)
	req.Reset()
	return req
}

// PutRequest returns req to the pool. req must not be used afterward.
func PutRequest(req *Request) {
	if req == nil {
		return
	}
	req.Reset()
	requestPool.Put(req)
}

// GetResponseWriter retrieves a ResponseWriter from the pool, configured to
// write to w. Callers must call PutResponseWriter when finished.
func GetResponseWriter(w io.Writer) *ResponseWriter {
	rw := responseWriterPool.Get().(*ResponseWriter)
	rw.Reset(w)
	return rw
}

// PutResponseWriter returns rw to the pool. rw must not be used afterward.
func PutResponseWriter(rw *ResponseWriter) {
	if rw == nil {
		return
	}
	rw.Reset(nil)
	responseWriterPool.Put(rw)
}

// ParserPool hands out Parsers preconfigured with a connection's header and
// body size caps, so the server need not thread those caps through every
// Get call.
type ParserPool struct {
	pool sync.Pool
}

// NewParserPool builds a pool whose Parsers enforce maxHeaderBytes and
// maxBodyBytes (spec §6.5).
func NewParserPool(maxHeaderBytes, maxBodyBytes int64) *ParserPool {
	pp := &ParserPool{}
	pp.pool.New = func() interface{} {
		return NewParser(maxHeaderBytes, maxBodyBytes)
	}
	return pp
}

// Get retrieves a Parser from the pool.
func (pp *ParserPool) Get() *Parser {
	return pp.pool.Get().(*Parser)
}

// Put returns p to the pool, clearing buffered pipelining state so it
// cannot leak across connections.
func (pp *ParserPool) Put(p *Parser) {
	if p == nil {
		return
	}
	p.buf = p.buf[:0]
	p.unreadBuf = nil
	pp.pool.Put(p)
}

// GetBuffer retrieves a DefaultBufferSize scratch buffer from the pool.
func GetBuffer() []byte {
	bufPtr := bufferPool.Get().(*[]byte)
	return *bufPtr
}

// PutBuffer returns buf to the pool.
func PutBuffer(buf []byte) {
	b := buf[:cap(buf)]
	bufferPool.Put(&b)
}
