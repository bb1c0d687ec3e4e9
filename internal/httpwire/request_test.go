package httpwire

import "testing"

func TestRequestPathDecodesOnce(t *testing.T) {
	req := &Request{rawPath: []byte("/a%20b")}
	p1, err := req.Path()
	must(t, err)
	if p1 != "/a b" {
		t.Fatalf("Path() = %q, want %q", p1, "/a b")
	}
	// Calling again must not re-decode (idempotent, and cached).
	p2, err := req.Path()
	must(t, err)
	if p2 != p1 {
		t.Fatalf("second Path() = %q, want %q", p2, p1)
	}
}

func TestRequestQueryValueDecodesAndCaches(t *testing.T) {
	req := &Request{queryBytes: []byte("a=1&b=hello+world")}
	v, ok := req.QueryValue("b")
	if !ok || v != "hello world" {
		t.Fatalf("QueryValue(b) = %q,%v want %q,true", v, ok, "hello world")
	}
	if _, ok := req.QueryValue("missing"); ok {
		t.Fatal("QueryValue(missing) unexpectedly found")
	}
}

func TestRequestResetClearsEverything(t *testing.T) {
	req := &Request{}
	req.MethodID = MethodPOST
	req.rawPath = []byte("/x")
	req.Close = true
	req.PathParams.add(NewParam("id", "42", ParamStr))
	req.Ctx.Set("k", "v")

	req.Reset()

	if req.MethodID != MethodUnknown {
		t.Fatalf("MethodID after reset = %d", req.MethodID)
	}
	if req.rawPath != nil {
		t.Fatalf("rawPath after reset = %v", req.rawPath)
	}
	if req.Close {
		t.Fatal("Close after reset = true")
	}
	if req.PathParams.Len() != 0 {
		t.Fatalf("PathParams.Len() after reset = %d", req.PathParams.Len())
	}
	if _, ok := req.Ctx.Get("k"); ok {
		t.Fatal("Ctx still has key after reset")
	}
}

func TestRequestIsChunkedOnlyWhenLastCoding(t *testing.T) {
	req := &Request{TransferEncoding: []string{"gzip", "chunked"}}
	if !req.IsChunked() {
		t.Fatal("expected IsChunked true when chunked is last coding")
	}
	req2 := &Request{TransferEncoding: nil}
	if req2.IsChunked() {
		t.Fatal("expected IsChunked false with no transfer-encoding")
	}
}
