package httpwire

// Header stores HTTP headers as an ordered multi-map: duplicates are
// preserved and iteration follows insertion order (spec §3 — "headers:
// ordered multi-map"). Up to MaxHeaders entries are stored inline in a
// fixed array to avoid a heap allocation for the overwhelming majority of
// real requests; additional entries spill into an append-only overflow
// slice. Lookup is case-insensitive, per RFC 7230.
type Header struct {
	inline   [MaxHeaders]headerPair
	count    int
	overflow []headerPair
}

type headerPair struct {
	name  []byte
	value []byte
}

// Add appends a header, preserving any existing header of the same name.
// Returns ErrHeaderTooLarge if name exceeds MaxHeaderName, or
// ErrInvalidHeader if name or value contain a CR or LF (RFC 7230 §3.2 —
// this is the CRLF response/request-splitting guard).
func (h *Header) Add(name, value []byte) error {
	if len(name) > MaxHeaderName {
		return ErrHeaderTooLarge
	}
	if containsCRLF(name) || containsCRLF(value) {
		return ErrInvalidHeader
	}

	p := headerPair{name: name, value: value}
	if h.count < MaxHeaders {
		h.inline[h.count] = p
		h.count++
		return nil
	}
	h.overflow = append(h.overflow, p)
	return nil
}

func containsCRLF(b []byte) bool {
	for _, c := range b {
		if c == '\r' || c == '\n' {
			return true
		}
	}
	return false
}

// Get returns the first value stored for name, or nil if absent.
func (h *Header) Get(name []byte) []byte {
	for i := 0; i < h.count; i++ {
		if bytesEqualFold(h.inline[i].name, name) {
			return h.inline[i].value
		}
	}
	for i := range h.overflow {
		if bytesEqualFold(h.overflow[i].name, name) {
			return h.overflow[i].value
		}
	}
	return nil
}

// GetString is Get, returning a string (one allocation).
func (h *Header) GetString(name []byte) string {
	v := h.Get(name)
	if v == nil {
		return ""
	}
	return string(v)
}

// Has reports whether name occurs at least once.
func (h *Header) Has(name []byte) bool {
	return h.Get(name) != nil
}

// All returns an iterator over every value stored for name, in insertion
// order — the "headers(name) -> iterator" accessor in spec §4.3.
func (h *Header) All(name []byte) func(yield func([]byte) bool) {
	return func(yield func([]byte) bool) {
		for i := 0; i < h.count; i++ {
			if bytesEqualFold(h.inline[i].name, name) {
				if !yield(h.inline[i].value) {
					return
				}
			}
		}
		for i := range h.overflow {
			if bytesEqualFold(h.overflow[i].name, name) {
				if !yield(h.overflow[i].value) {
					return
				}
			}
		}
	}
}

// Set removes every existing occurrence of name and stores a single new
// occurrence, matching net/http's Header.Set semantics.
func (h *Header) Set(name, value []byte) error {
	h.Del(name)
	return h.Add(name, value)
}

// Del removes every occurrence of name, preserving the relative order of
// the remaining headers.
func (h *Header) Del(name []byte) {
	w := 0
	for i := 0; i < h.count; i++ {
		if !bytesEqualFold(h.inline[i].name, name) {
			h.inline[w] = h.inline[i]
			w++
		}
	}
	h.count = w

	if len(h.overflow) == 0 {
		return
	}
	kept := h.overflow[:0]
	for _, p := range h.overflow {
		if !bytesEqualFold(p.name, name) {
			kept = append(kept, p)
		}
	}
	h.overflow = kept
}

// Len returns the total number of stored header entries, including
// duplicates.
func (h *Header) Len() int {
	return h.count + len(h.overflow)
}

// Reset clears the header set for pooled reuse.
func (h *Header) Reset() {
	h.count = 0
	h.overflow = h.overflow[:0]
}

// VisitAll calls visitor for every header in insertion order. Iteration
// stops early if visitor returns false. Used by the response writer to
// serialize headers onto the wire without allocating an intermediate
// slice.
func (h *Header) VisitAll(visitor func(name, value []byte) bool) {
	for i := 0; i < h.count; i++ {
		if !visitor(h.inline[i].name, h.inline[i].value) {
			return
		}
	}
	for i := range h.overflow {
		if !visitor(h.overflow[i].name, h.overflow[i].value) {
			return
		}
	}
}

func bytesEqualFold(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if upper(a[i]) != upper(b[i]) {
			return false
		}
	}
	return true
}
