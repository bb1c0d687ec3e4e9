//go:build unix

package sockopt

import (
	"net"
	"testing"
	"time"
)

func TestListenTCPAcceptsConnections(t *testing.T) {
	ln, err := ListenTCP("127.0.0.1", 0, 128)
	if err != nil {
		t.Fatalf("ListenTCP: %v", err)
	}
	defer ln.Close()

	addr := ln.Addr().String()

	accepted := make(chan error, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			accepted <- err
			return
		}
		defer conn.Close()
		accepted <- nil
	}()

	client, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	select {
	case err := <-accepted:
		if err != nil {
			t.Fatalf("accept: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for accept")
	}
}

func TestListenTCPDefaultsBacklogWhenZero(t *testing.T) {
	ln, err := ListenTCP("127.0.0.1", 0, 0)
	if err != nil {
		t.Fatalf("ListenTCP with zero backlog: %v", err)
	}
	defer ln.Close()
}

func TestListenTCPRejectsUnresolvableHost(t *testing.T) {
	_, err := ListenTCP("not-a-real-host.invalid", 0, 128)
	if err == nil {
		t.Fatal("expected an error resolving an invalid host")
	}
}
