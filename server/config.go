package server

import "runtime"

// Config is the single configuration record for the server (spec §6.5).
// Every field has a documented default; DefaultConfig returns a Config with
// all of them applied, and any Config passed to New has its zero fields
// filled in the same way.
type Config struct {
	BindHost string
	BindPort int

	// IOThreads is the number of cooperative connection-dispatch workers
	// (spec §4.6/§5 "N parallel I/O threads... N defaults to CPU count").
	// Each worker serially owns every connection assigned to it for that
	// connection's lifetime; see iothread.go.
	IOThreads int

	// ListenBacklog is the kernel accept-queue backlog (spec §4.6: "at
	// least 4096").
	ListenBacklog int

	MaxHeaderBytes int64
	MaxBodyBytes   int64

	IdleTimeoutMS   int
	HeaderTimeoutMS int
	WriteTimeoutMS  int

	KeepAliveEnabled bool

	RequestArenaChunkBytes  int
	ResponseArenaChunkBytes int

	// MaxRequestsPerConnection bounds how many requests a single keep-alive
	// connection serves before the server forces Connection: close. Not a
	// named §6.5 field; grounded on the teacher's connection.go maxRequests
	// guard against a single client starving a worker indefinitely.
	MaxRequestsPerConnection int

	// MaxConcurrentConnections bounds how many connections may be alive at
	// once across the whole server, enforced by a semaphore in server.go.
	// 0 means unbounded.
	MaxConcurrentConnections int

	// ShutdownGraceMS bounds how long Shutdown waits for in-flight
	// connections to finish before force-closing them (spec §4.6).
	ShutdownGraceMS int
}

const (
	DefaultListenBacklog            = 4096
	DefaultMaxHeaderBytes     int64 = 64 * 1024
	DefaultMaxBodyBytes       int64 = 1024 * 1024
	DefaultIdleTimeoutMS            = 30000
	DefaultHeaderTimeoutMS          = 10000
	DefaultWriteTimeoutMS           = 30000
	DefaultRequestArenaChunk        = 16 * 1024
	DefaultResponseArenaChunk       = 16 * 1024
	DefaultMaxRequestsPerConn       = 10000
	DefaultShutdownGraceMS          = 30000
)

// DefaultConfig returns a Config with every field set to its documented
// default (spec §6.5).
func DefaultConfig() Config {
	return Config{
		BindHost:                 "0.0.0.0",
		BindPort:                 8080,
		IOThreads:                runtime.GOMAXPROCS(0),
		ListenBacklog:            DefaultListenBacklog,
		MaxHeaderBytes:           DefaultMaxHeaderBytes,
		MaxBodyBytes:             DefaultMaxBodyBytes,
		IdleTimeoutMS:            DefaultIdleTimeoutMS,
		HeaderTimeoutMS:          DefaultHeaderTimeoutMS,
		WriteTimeoutMS:           DefaultWriteTimeoutMS,
		KeepAliveEnabled:         true,
		RequestArenaChunkBytes:   DefaultRequestArenaChunk,
		ResponseArenaChunkBytes:  DefaultResponseArenaChunk,
		MaxRequestsPerConnection: DefaultMaxRequestsPerConn,
		ShutdownGraceMS:          DefaultShutdownGraceMS,
	}
}

// applyDefaults fills any zero-valued field of c with DefaultConfig's value,
// so callers may supply a partially-populated Config (spec §6.5: "a single
// configuration record with enumerated recognized options").
func (c Config) applyDefaults() Config {
	d := DefaultConfig()
	if c.BindHost == "" {
		c.BindHost = d.BindHost
	}
	if c.IOThreads <= 0 {
		c.IOThreads = d.IOThreads
	}
	if c.ListenBacklog <= 0 {
		c.ListenBacklog = d.ListenBacklog
	}
	if c.MaxHeaderBytes <= 0 {
		c.MaxHeaderBytes = d.MaxHeaderBytes
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = d.MaxBodyBytes
	}
	if c.IdleTimeoutMS <= 0 {
		c.IdleTimeoutMS = d.IdleTimeoutMS
	}
	if c.HeaderTimeoutMS <= 0 {
		c.HeaderTimeoutMS = d.HeaderTimeoutMS
	}
	if c.WriteTimeoutMS <= 0 {
		c.WriteTimeoutMS = d.WriteTimeoutMS
	}
	if c.RequestArenaChunkBytes <= 0 {
		c.RequestArenaChunkBytes = d.RequestArenaChunkBytes
	}
	if c.ResponseArenaChunkBytes <= 0 {
		c.ResponseArenaChunkBytes = d.ResponseArenaChunkBytes
	}
	if c.MaxRequestsPerConnection <= 0 {
		c.MaxRequestsPerConnection = d.MaxRequestsPerConnection
	}
	if c.ShutdownGraceMS <= 0 {
		c.ShutdownGraceMS = d.ShutdownGraceMS
	}
	return c
}
