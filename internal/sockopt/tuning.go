// Package sockopt applies the socket-level tuning spec §4.6's connection
// I/O driver assumes: TCP_NODELAY on accepted connections, and a listen
// backlog that actually reaches the kernel rather than being silently
// clamped by the standard library's default (spec §4.6 "a backlog of at
// least 4096").
package sockopt

import (
	"net"
	"syscall"
)

// Config controls per-connection and per-listener socket options. Zero
// values mean "leave the system default alone" except where noted.
type Config struct {
	// NoDelay disables Nagle's algorithm, the single option that matters
	// most for request/response latency on short-lived HTTP connections.
	NoDelay bool

	// RecvBuffer/SendBuffer set SO_RCVBUF/SO_SNDBUF in bytes; 0 leaves the
	// kernel default.
	RecvBuffer int
	SendBuffer int

	KeepAlive bool
}

// DefaultConfig mirrors the tuning every connection in this server gets
// unless the caller overrides it.
func DefaultConfig() *Config {
	return &Config{
		NoDelay:    true,
		RecvBuffer: 256 * 1024,
		SendBuffer: 256 * 1024,
		KeepAlive:  true,
	}
}

// Apply tunes an already-accepted connection. Non-TCP connections (used in
// tests against net.Pipe, for example) are left untouched.
func Apply(conn net.Conn, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}

	rawConn, err := tcpConn.SyscallConn()
	if err != nil {
		return err
	}

	var firstErr error
	err = rawConn.Control(func(fd uintptr) {
		if cfg.NoDelay {
			if e := syscall.SetsockoptInt(int(fd), syscall.IPPROTO_TCP, syscall.TCP_NODELAY, 1); e != nil {
				firstErr = e
				return
			}
		}
		if cfg.RecvBuffer > 0 {
			_ = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_RCVBUF, cfg.RecvBuffer)
		}
		if cfg.SendBuffer > 0 {
			_ = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_SNDBUF, cfg.SendBuffer)
		}
		if cfg.KeepAlive {
			_ = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_KEEPALIVE, 1)
		}
		applyPlatformOptions(int(fd), cfg)
	})
	if err != nil {
		return err
	}
	return firstErr
}
