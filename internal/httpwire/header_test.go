package httpwire

import "testing"

func TestHeaderAddPreservesDuplicatesAndOrder(t *testing.T) {
	var h Header
	must(t, h.Add([]byte("X-Trace"), []byte("a")))
	must(t, h.Add([]byte("X-Trace"), []byte("b")))
	must(t, h.Add([]byte("X-Trace"), []byte("c")))

	var got []string
	for v := range h.All([]byte("x-trace")) {
		got = append(got, string(v))
	}
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("All() = %v, want [a b c] in insertion order", got)
	}

	if v := h.GetString([]byte("X-TRACE")); v != "a" {
		t.Fatalf("Get returned %q, want first occurrence %q", v, "a")
	}
}

func TestHeaderSetReplacesAllOccurrences(t *testing.T) {
	var h Header
	must(t, h.Add([]byte("X-Trace"), []byte("a")))
	must(t, h.Add([]byte("X-Trace"), []byte("b")))
	must(t, h.Set([]byte("X-Trace"), []byte("only")))

	n := 0
	for range h.All([]byte("X-Trace")) {
		n++
	}
	if n != 1 {
		t.Fatalf("expected exactly one value after Set, got %d", n)
	}
	if got := h.GetString([]byte("X-Trace")); got != "only" {
		t.Fatalf("Get = %q, want %q", got, "only")
	}
}

func TestHeaderRejectsCRLFInjection(t *testing.T) {
	var h Header
	if err := h.Add([]byte("X-Evil"), []byte("a\r\nSet-Cookie: x=y")); err != ErrInvalidHeader {
		t.Fatalf("Add with embedded CRLF = %v, want ErrInvalidHeader", err)
	}
}

func TestHeaderOverflowBeyondInlineCapacity(t *testing.T) {
	var h Header
	for i := 0; i < MaxHeaders+5; i++ {
		must(t, h.Add([]byte("X-N"), []byte("v")))
	}
	if got := h.Len(); got != MaxHeaders+5 {
		t.Fatalf("Len() = %d, want %d", got, MaxHeaders+5)
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
