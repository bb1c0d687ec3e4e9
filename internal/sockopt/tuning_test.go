package sockopt

import (
	"net"
	"testing"
	"time"
)

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.NoDelay {
		t.Error("expected NoDelay true by default")
	}
	if !cfg.KeepAlive {
		t.Error("expected KeepAlive true by default")
	}
	if cfg.RecvBuffer <= 0 {
		t.Error("expected a positive default RecvBuffer")
	}
	if cfg.SendBuffer <= 0 {
		t.Error("expected a positive default SendBuffer")
	}
}

func TestApplyNilConfigUsesDefaults(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	done := make(chan struct{})
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			defer conn.Close()
			if err := Apply(conn, nil); err != nil {
				t.Errorf("Apply with nil config: %v", err)
			}
		}
		close(done)
	}()

	client, err := net.DialTimeout("tcp", ln.Addr().String(), time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	<-done
}

func TestApplyOnNonTCPConnIsNoop(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()

	if err := Apply(c1, DefaultConfig()); err != nil {
		t.Fatalf("Apply on net.Pipe should be a no-op, got error: %v", err)
	}
}
