// Package server implements the connection I/O driver (spec §4.6): it
// accepts connections, assigns each to an I/O worker, and drives that
// connection's read-parse-route-handle-write loop until it closes.
package server

import (
	"context"
	"net"
	"sync"
	"time"

	"ember/internal/httpwire"
	"ember/internal/logging"
	"ember/internal/router"
	"ember/internal/sockopt"
)

// Server accepts connections on a listener and drives them against a
// finalized Router (spec §6.4's lifecycle API: listen/stop/stats).
type Server struct {
	cfg   Config
	rtr   *router.Router
	log   logging.Logger
	stats *Stats

	parserPool *httpwire.ParserPool

	listener net.Listener
	pool     *ioThreadPool

	mu     sync.Mutex
	conns  map[*connection]struct{}
	done   chan struct{}
	closed bool

	sem chan struct{} // MaxConcurrentConnections throttle; nil if unbounded
}

// New builds a Server over rtr, which must already be Finalize()d. cfg's
// zero fields are filled from DefaultConfig (spec §6.5).
func New(rtr *router.Router, cfg Config, log logging.Logger) *Server {
	cfg = cfg.applyDefaults()
	if log == nil {
		log = logging.Default()
	}
	s := &Server{
		cfg:        cfg,
		rtr:        rtr,
		log:        log,
		stats:      newStats(),
		parserPool: httpwire.NewParserPool(cfg.MaxHeaderBytes, cfg.MaxBodyBytes),
		conns:      make(map[*connection]struct{}),
		done:       make(chan struct{}),
	}
	if cfg.MaxConcurrentConnections > 0 {
		s.sem = make(chan struct{}, cfg.MaxConcurrentConnections)
	}
	return s
}

// ListenAndServe binds cfg.BindHost:cfg.BindPort with the configured
// listen backlog (spec §4.6) and serves until Shutdown or Close is called,
// or Accept returns a non-temporary error.
func (s *Server) ListenAndServe() error {
	ln, err := sockopt.ListenTCP(s.cfg.BindHost, s.cfg.BindPort, s.cfg.ListenBacklog)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve drives the accept loop over an already-bound listener, for callers
// that need control over how the socket was created (e.g. tests binding to
// an ephemeral port).
func (s *Server) Serve(ln net.Listener) error {
	s.listener = ln
	s.pool = newIOThreadPool(s.cfg.IOThreads, 256, s.dispatch)

	s.log.Info("server listening", "addr", ln.Addr().String(), "io_threads", s.cfg.IOThreads)

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.done:
				return nil
			default:
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return err
		}

		if s.sem != nil {
			select {
			case s.sem <- struct{}{}:
			default:
				// Backpressure: no room for another connection (spec §5
				// "per-thread max concurrent connections"); refuse it
				// immediately rather than queuing unbounded work.
				conn.Close()
				continue
			}
		}

		s.pool.submit(conn)
	}
}

// dispatch is called on the owning worker goroutine for every accepted
// connection (spec §4.6 "per-connection affinity").
func (s *Server) dispatch(conn net.Conn, workerID int) {
	if err := sockopt.Apply(conn, nil); err != nil {
		s.log.Warn("socket tuning failed", "err", err, "worker", workerID)
	}

	c := newConnection(conn, s.rtr, s.parserPool, s.cfg, s.stats, s.log)

	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()

	c.serve(s.done)

	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()

	if s.sem != nil {
		<-s.sem
	}
}

// Stats returns a point-in-time snapshot of server counters (spec §6.4).
func (s *Server) Stats() Snapshot { return s.stats.Snapshot() }

// Shutdown stops accepting new connections, signals in-flight connections
// to exit at their next safe point, and waits up to cfg.ShutdownGraceMS (or
// ctx's deadline, whichever is sooner) before force-closing whatever is
// still open (spec §4.6 "drains in-flight requests up to a grace period,
// then closes all sockets").
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.done)
	if s.listener != nil {
		s.listener.Close()
	}

	grace := time.Duration(s.cfg.ShutdownGraceMS) * time.Millisecond
	graceCtx, cancel := context.WithTimeout(ctx, grace)
	defer cancel()

	drained := make(chan struct{})
	go func() {
		if s.pool != nil {
			s.pool.closeAndWait()
		}
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-graceCtx.Done():
		s.forceCloseAll()
		<-drained
		return graceCtx.Err()
	}
}

// Close immediately stops the server without waiting for in-flight
// connections (spec §6.4's hard variant of stop).
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.done)
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	s.forceCloseAll()
	if s.pool != nil {
		s.pool.closeAndWait()
	}
	return err
}

func (s *Server) forceCloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.conns {
		c.conn.Close()
	}
}
