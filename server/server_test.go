package server

import (
	"bufio"
	"net"
	"net/http"
	"testing"
	"time"

	"ember/internal/httpwire"
	"ember/internal/logging"
	"ember/internal/router"
)

func startTestServer(t *testing.T, rtr *router.Router, cfg Config) (*Server, string) {
	t.Helper()
	rtr.Finalize()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	cfg.IOThreads = 2
	srv := New(rtr, cfg, logging.NoOp())

	go func() {
		_ = srv.Serve(ln)
	}()

	t.Cleanup(func() {
		srv.Close()
	})

	return srv, ln.Addr().String()
}

func TestServerStaticHitEndToEnd(t *testing.T) {
	rtr := router.New(nil)
	rtr.Handle(httpwire.MethodGET, "/health", func(req *httpwire.Request, resp *httpwire.ResponseWriter) error {
		return resp.WriteJSON(200, []byte(`{"ok":true}`))
	})

	_, addr := startTestServer(t, rtr, Config{})

	conn, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.Write([]byte("GET /health HTTP/1.1\r\nHost: x\r\n\r\n"))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	resp, err := http.ReadResponse(bufio.NewReader(conn), nil)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Fatalf("content-type = %q", got)
	}
}

func TestServerNotFoundAndMethodNotAllowed(t *testing.T) {
	rtr := router.New(nil)
	rtr.Handle(httpwire.MethodGET, "/widgets", func(req *httpwire.Request, resp *httpwire.ResponseWriter) error {
		return resp.WriteText(200, []byte("ok"))
	})
	rtr.Handle(httpwire.MethodPOST, "/widgets", func(req *httpwire.Request, resp *httpwire.ResponseWriter) error {
		return resp.WriteText(200, []byte("ok"))
	})

	_, addr := startTestServer(t, rtr, Config{})

	conn, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	conn.Write([]byte("GET /missing HTTP/1.1\r\nHost: x\r\n\r\n"))
	resp, err := http.ReadResponse(bufio.NewReader(conn), nil)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 404 {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}

	conn2, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn2.Close()
	conn2.SetReadDeadline(time.Now().Add(2 * time.Second))

	conn2.Write([]byte("DELETE /widgets HTTP/1.1\r\nHost: x\r\n\r\n"))
	resp2, err := http.ReadResponse(bufio.NewReader(conn2), nil)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != 405 {
		t.Fatalf("status = %d, want 405", resp2.StatusCode)
	}
	allow := resp2.Header.Get("Allow")
	if allow == "" {
		t.Fatal("expected Allow header on 405")
	}
}

func TestServerDotDotEscapingRootIsBadRequest(t *testing.T) {
	rtr := router.New(nil)
	rtr.Handle(httpwire.MethodGET, "/etc", func(req *httpwire.Request, resp *httpwire.ResponseWriter) error {
		return resp.WriteText(200, []byte("ok"))
	})

	_, addr := startTestServer(t, rtr, Config{})

	conn, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	conn.Write([]byte("GET /../etc HTTP/1.1\r\nHost: x\r\n\r\n"))
	resp, err := http.ReadResponse(bufio.NewReader(conn), nil)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestServerKeepAlivePipelining(t *testing.T) {
	rtr := router.New(nil)
	rtr.Handle(httpwire.MethodGET, "/health", func(req *httpwire.Request, resp *httpwire.ResponseWriter) error {
		return resp.WriteJSON(200, []byte(`{"ok":true}`))
	})

	_, addr := startTestServer(t, rtr, Config{})

	conn, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	req := "GET /health HTTP/1.1\r\nHost: x\r\n\r\n"
	conn.Write([]byte(req + req))

	br := bufio.NewReader(conn)
	for i := 0; i < 2; i++ {
		resp, err := http.ReadResponse(br, nil)
		if err != nil {
			t.Fatalf("read response %d: %v", i, err)
		}
		resp.Body.Close()
		if resp.StatusCode != 200 {
			t.Fatalf("response %d status = %d, want 200", i, resp.StatusCode)
		}
	}
}

func TestServerHandlerPanicMapsTo500(t *testing.T) {
	rtr := router.New(nil)
	rtr.Handle(httpwire.MethodGET, "/boom", func(req *httpwire.Request, resp *httpwire.ResponseWriter) error {
		panic("kaboom")
	})

	_, addr := startTestServer(t, rtr, Config{})

	conn, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	conn.Write([]byte("GET /boom HTTP/1.1\r\nHost: x\r\n\r\n"))
	resp, err := http.ReadResponse(bufio.NewReader(conn), nil)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 500 {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
}
