// Package memory implements the named-arena bump allocator shared by every
// hot-path allocation in the server, router, and middleware engine.
package memory

import (
	"errors"
	"sync/atomic"

	"github.com/valyala/bytebufferpool"
)

// Kind identifies one of the named arenas. Each connection owns its own
// Request and Response arenas; Cache and Static are shared, read-mostly
// after server startup; Task is reserved for the out-of-scope background
// work collaborator and is never allocated from by this core.
type Kind uint8

const (
	KindRequest Kind = iota
	KindResponse
	KindCache
	KindStatic
	KindTask
)

func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "request"
	case KindResponse:
		return "response"
	case KindCache:
		return "cache"
	case KindStatic:
		return "static"
	case KindTask:
		return "task"
	default:
		return "unknown"
	}
}

// ErrAllocationExhausted is returned when an arena cannot satisfy a request
// because it would grow past its configured ceiling. The caller (connection
// driver) maps this to the AllocationExhausted failure kind and closes the
// connection with a 500.
var ErrAllocationExhausted = errors.New("memory: arena allocation exhausted")

const (
	// defaultAlign covers every scalar and slice header Go allocates on the
	// hot path; 8 bytes satisfies alignment on both 32 and 64-bit targets.
	defaultAlign = 8
)

// chunk is one bump-allocated region backed by a pooled byte slice. Buffers
// come from bytebufferpool so repeated chunk churn under load reuses the
// same underlying arrays the library already calibrates by size class.
type chunk struct {
	buf *bytebufferpool.ByteBuffer
	off int
}

func newChunk(size int) *chunk {
	b := bytebufferpool.Get()
	if cap(b.B) < size {
		b.B = make([]byte, size)
	} else {
		b.B = b.B[:size]
	}
	return &chunk{buf: b}
}

func (c *chunk) cap() int { return len(c.buf.B) }

func (c *chunk) alloc(size int) ([]byte, bool) {
	aligned := (c.off + defaultAlign - 1) &^ (defaultAlign - 1)
	if aligned+size > len(c.buf.B) {
		return nil, false
	}
	p := c.buf.B[aligned : aligned+size : aligned+size]
	c.off = aligned + size
	return p, true
}

func (c *chunk) release() {
	c.buf.Reset()
	bytebufferpool.Put(c.buf)
}

// Stats reports arena usage for the server stats() surface (§6.4).
type Stats struct {
	Allocated  uint64 // bytes currently bump-allocated since the last reset
	Peak       uint64 // high-water mark of Allocated across the arena's life
	ResetCount uint64 // number of completed Reset calls
}

// Arena is a growable list of chunks serving bump-pointer allocations. A
// chunk exhaustion allocates a new one sized max(defaultChunkSize,
// requested); Reset rewinds every chunk's bump pointer to its origin and
// returns all but the first chunk to the pool so steady-state traffic does
// not keep re-growing.
type Arena struct {
	kind             Kind
	defaultChunkSize int
	maxTotalBytes    int // 0 = unbounded

	chunks []*chunk
	cur    int

	allocated  atomic.Uint64
	peak       atomic.Uint64
	resetCount atomic.Uint64
	totalCap   int
}

// New creates an arena of the given kind with the given default chunk size.
// maxTotalBytes bounds the arena's combined chunk capacity; 0 means
// unbounded (suitable for Cache/Static, which the server sizes once at
// startup and never re-grows under request load).
func New(kind Kind, defaultChunkSize, maxTotalBytes int) *Arena {
	if defaultChunkSize <= 0 {
		defaultChunkSize = 16 * 1024
	}
	a := &Arena{kind: kind, defaultChunkSize: defaultChunkSize, maxTotalBytes: maxTotalBytes}
	first := newChunk(defaultChunkSize)
	a.chunks = append(a.chunks, first)
	a.totalCap = first.cap()
	return a
}

// Kind reports which named arena this is.
func (a *Arena) Kind() Kind { return a.kind }

// Alloc reserves size bytes, aligned to a pointer-safe boundary, and returns
// a slice into arena-owned memory. The slice is valid until the next Reset.
func (a *Arena) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrAllocationExhausted
	}
	if size == 0 {
		return nil, nil
	}

	for a.cur < len(a.chunks) {
		if p, ok := a.chunks[a.cur].alloc(size); ok {
			a.bump(size)
			return p, nil
		}
		a.cur++
	}

	want := a.defaultChunkSize
	if size > want {
		want = size
	}
	if a.maxTotalBytes > 0 && a.totalCap+want > a.maxTotalBytes {
		return nil, ErrAllocationExhausted
	}

	c := newChunk(want)
	a.chunks = append(a.chunks, c)
	a.totalCap += c.cap()
	a.cur = len(a.chunks) - 1

	p, ok := c.alloc(size)
	if !ok {
		// size exceeds even a freshly sized chunk; cannot happen given
		// want >= size above, but keep the contract total.
		return nil, ErrAllocationExhausted
	}
	a.bump(size)
	return p, nil
}

func (a *Arena) bump(size int) {
	v := a.allocated.Add(uint64(size))
	for {
		p := a.peak.Load()
		if v <= p || a.peak.CompareAndSwap(p, v) {
			return
		}
	}
}

// MakeSlice allocates and returns a zeroed byte slice of length n.
func (a *Arena) MakeSlice(n int) ([]byte, error) {
	b, err := a.Alloc(n)
	if err != nil {
		return nil, err
	}
	for i := range b {
		b[i] = 0
	}
	return b, nil
}

// Clone copies src into arena-owned memory and returns the copy. Used by the
// parser and router to move data that must outlive a pooled read buffer
// into the request arena, and by long-lived route metadata that must
// outlive a request into the cache arena.
func (a *Arena) Clone(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, nil
	}
	b, err := a.Alloc(len(src))
	if err != nil {
		return nil, err
	}
	copy(b, src)
	return b, nil
}

// CloneString is Clone for strings, returning an arena-backed string via an
// unsafe-free copy (one allocation outside the arena for the string header
// is unavoidable in Go without package unsafe; the backing bytes are still
// arena memory).
func (a *Arena) CloneString(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	b, err := a.Clone([]byte(s))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Reset rewinds every chunk to its origin and releases all but the first
// chunk back to the pool. Addresses previously returned by Alloc become
// invalid the instant Reset returns.
func (a *Arena) Reset() {
	for i := 1; i < len(a.chunks); i++ {
		a.chunks[i].release()
		a.totalCap -= a.chunks[i].cap()
	}
	if len(a.chunks) > 1 {
		a.chunks = a.chunks[:1]
	}
	a.chunks[0].off = 0
	a.cur = 0
	a.allocated.Store(0)
	a.resetCount.Add(1)
}

// Stats reports current usage, for §6.4's stats() surface.
func (a *Arena) Stats() Stats {
	return Stats{
		Allocated:  a.allocated.Load(),
		Peak:       a.peak.Load(),
		ResetCount: a.resetCount.Load(),
	}
}
