//go:build unix

package sockopt

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

type resolvedAddr struct {
	family   int
	sockaddr unix.Sockaddr
}

// resolveAddr turns a host:port pair into a raw sockaddr, preferring IPv4
// since that is what BindHost (spec §6.5, default "0.0.0.0") expects.
func resolveAddr(host string, port int) (*resolvedAddr, error) {
	if host == "" || host == "0.0.0.0" {
		return &resolvedAddr{
			family:   unix.AF_INET,
			sockaddr: &unix.SockaddrInet4{Port: port},
		}, nil
	}

	ip := net.ParseIP(host)
	if ip == nil {
		resolved, err := net.ResolveIPAddr("ip", host)
		if err != nil {
			return nil, fmt.Errorf("sockopt: resolve %q: %w", host, err)
		}
		ip = resolved.IP
	}

	if v4 := ip.To4(); v4 != nil {
		var addr [4]byte
		copy(addr[:], v4)
		return &resolvedAddr{family: unix.AF_INET, sockaddr: &unix.SockaddrInet4{Port: port, Addr: addr}}, nil
	}

	var addr [16]byte
	copy(addr[:], ip.To16())
	return &resolvedAddr{family: unix.AF_INET6, sockaddr: &unix.SockaddrInet6{Port: port, Addr: addr}}, nil
}
