package server

import (
	"bufio"
	"io"
	"net"
	"sync/atomic"
	"time"

	"ember/internal/httpwire"
	"ember/internal/logging"
	"ember/internal/memory"
	"ember/internal/router"
)

// connState mirrors the teacher's connection lifecycle (spec §4.6 doesn't
// name an explicit state machine, but the accept/serve/close sequence it
// describes needs one to reason about concurrent Shutdown vs in-flight
// Serve).
type connState int32

const (
	connNew connState = iota
	connActive
	connIdle
	connClosed
)

// connection owns one accepted socket for its entire lifetime (spec §4.6
// "per-connection affinity": only the worker that owns a connection ever
// reads, parses, routes, or writes for it). It reuses one Request and one
// ResponseWriter across every request it serves, resetting them (and the
// per-connection arenas) between requests instead of returning them to the
// package pool each time — the arena-reset invariant (spec §8) only
// requires the high-water mark to return to baseline, not that the Go
// object itself round-trips through sync.Pool every request.
type connection struct {
	conn   net.Conn
	bufw   *bufio.Writer
	parser *httpwire.Parser

	req  *httpwire.Request
	resp *httpwire.ResponseWriter

	rtr        *router.Router
	parserPool *httpwire.ParserPool
	arenas     *memory.Set
	cfg        Config
	stats      *Stats
	log        logging.Logger

	state        atomic.Int32
	requestCount int
}

func newConnection(conn net.Conn, rtr *router.Router, pp *httpwire.ParserPool, cfg Config, stats *Stats, log logging.Logger) *connection {
	bufw := bufio.NewWriterSize(conn, httpwire.DefaultBufferSize)
	c := &connection{
		conn:       conn,
		bufw:       bufw,
		parser:     pp.Get(),
		parserPool: pp,
		req:        httpwire.GetRequest(),
		resp:       httpwire.GetResponseWriter(bufw),
		rtr:        rtr,
		arenas: memory.NewConnSet(memory.Config{
			RequestChunkBytes:  cfg.RequestArenaChunkBytes,
			ResponseChunkBytes: cfg.ResponseArenaChunkBytes,
			MaxRequestBytes:    int(cfg.MaxBodyBytes) * 4,
		}),
		cfg:   cfg,
		stats: stats,
		log:   log,
	}
	c.state.Store(int32(connNew))
	return c
}

// serve runs the connection's read-parse-route-handle-write loop until the
// peer closes, a timeout fires, an unrecoverable protocol error occurs, or
// done is closed by Shutdown. It always closes the underlying socket before
// returning.
func (c *connection) serve(done <-chan struct{}) {
	defer c.close()

	c.stats.connOpened()
	defer c.stats.connClosed()

	c.state.Store(int32(connActive))

	for {
		select {
		case <-done:
			return
		default:
		}

		idle := time.Duration(c.cfg.IdleTimeoutMS) * time.Millisecond
		header := time.Duration(c.cfg.HeaderTimeoutMS) * time.Millisecond
		readDeadline := idle
		if header > readDeadline {
			readDeadline = header
		}
		c.conn.SetReadDeadline(time.Now().Add(readDeadline))

		c.req.Reset()
		c.resp.Reset(c.bufw)

		if err := c.parser.Parse(c.conn, c.req); err != nil {
			if isTimeoutOrClosed(err) {
				// Spec §4.6/§7 Timeout: no response is synthesized for a
				// timed-out or disconnected in-flight request.
				return
			}
			c.stats.addError()
			status, _ := statusForParseError(err)
			c.resp.WriteError(status, "")
			c.bufw.Flush()
			return
		}

		c.requestCount++
		c.stats.requestStarted()
		c.handleOneRequest()
		c.stats.requestFinished()

		shouldClose := c.req.Close ||
			!c.cfg.KeepAliveEnabled ||
			c.requestCount >= c.cfg.MaxRequestsPerConnection

		c.arenas.ResetForNextRequest()
		c.stats.addReset()

		if shouldClose {
			return
		}

		c.state.Store(int32(connIdle))
		c.state.Store(int32(connActive))
	}
}

// handleOneRequest routes and dispatches a single already-parsed request,
// writing a response. Router/path failures bypass the middleware chain
// entirely (spec §7 "parser and router errors... bypass the middleware
// chain, pre and post"). invokeHandler wraps the whole built chain, so a
// handler/middleware error is turned into a 500 only after the chain has
// returned; post-route middleware does not see that 500.
func (c *connection) handleOneRequest() {
	c.req.RemoteAddr = c.conn.RemoteAddr().String()
	c.req.Arena = c.arenas.Request

	path, err := c.req.PathBytes()
	if err != nil {
		c.stats.addError()
		c.req.Close = true
		c.resp.WriteError(400, "")
		c.bufw.Flush()
		return
	}

	outcome := c.rtr.Match(c.req.MethodID, string(path))
	if outcome.BadRequest {
		c.stats.addError()
		c.req.Close = true
		c.resp.WriteError(400, "")
		c.bufw.Flush()
		return
	}

	writeDeadline := time.Duration(c.cfg.WriteTimeoutMS) * time.Millisecond
	c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))

	switch {
	case outcome.NotFound:
		c.resp.WriteError(404, "")

	case outcome.MethodNotAllowed:
		allow := allowHeaderValue(outcome.AllowedMethods)
		c.resp.SetHeader([]byte("Allow"), []byte(allow))
		c.resp.WriteError(405, "")

	default:
		c.req.PathParams = outcome.Params
		if err := invokeHandler(outcome.Handler, c.req, c.resp, c.log); err != nil {
			c.stats.addError()
			if !c.resp.HeaderWritten() {
				c.resp.WriteError(500, "")
			}
			c.req.Close = true
		}
	}

	if !c.resp.HeaderWritten() {
		c.resp.Flush()
	}
	c.bufw.Flush()

	c.stats.addBytesWritten(c.resp.BytesWritten())
}

func allowHeaderValue(methods []uint8) string {
	out := ""
	for i, m := range methods {
		if i > 0 {
			out += ", "
		}
		out += httpwire.MethodString(m)
	}
	return out
}

func isTimeoutOrClosed(err error) bool {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return true
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return true
	}
	return err == httpwire.ErrUnexpectedEOF
}

func (c *connection) close() {
	if connState(c.state.Swap(int32(connClosed))) == connClosed {
		return
	}
	c.bufw.Flush()
	c.conn.Close()
	httpwire.PutRequest(c.req)
	httpwire.PutResponseWriter(c.resp)
	c.parserPool.Put(c.parser)
}
