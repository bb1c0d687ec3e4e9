//go:build linux

package sockopt

import "syscall"

// TCP_QUICKACK disables delayed ACKs for the lifetime of one read; not
// persistent, so it is only useful applied right after accept.
const tcpQuickAck = 12

func applyPlatformOptions(fd int, cfg *Config) {
	_ = syscall.SetsockoptInt(fd, syscall.IPPROTO_TCP, tcpQuickAck, 1)
}
