package httpwire

import "testing"

func TestPercentDecodeIsIdempotent(t *testing.T) {
	raw := []byte("/users/jane%20doe/posts%2F1")
	once, err := percentDecode(raw)
	must(t, err)

	twice, err := percentDecode(once)
	must(t, err)

	if string(once) != string(twice) {
		t.Fatalf("decoding twice changed the result: %q then %q", once, twice)
	}
	if string(once) != "/users/jane doe/posts/1" {
		t.Fatalf("percentDecode = %q", once)
	}
}

func TestPercentDecodePassesThroughBarePercent(t *testing.T) {
	raw := []byte("/100%done")
	got, err := percentDecode(raw)
	must(t, err)
	if string(got) != "/100%done" {
		t.Fatalf("percentDecode(%q) = %q, want unchanged (malformed escape passes through)", raw, got)
	}
}

func TestParseQueryDecodesPlusAndEscapes(t *testing.T) {
	values := parseQuery([]byte("name=jane+doe&tag=a%2Bb&tag=c"))
	if values["name"][0] != "jane doe" {
		t.Fatalf("name = %q, want %q", values["name"][0], "jane doe")
	}
	if len(values["tag"]) != 2 || values["tag"][0] != "a+b" || values["tag"][1] != "c" {
		t.Fatalf("tag = %v, want [a+b c]", values["tag"])
	}
}
