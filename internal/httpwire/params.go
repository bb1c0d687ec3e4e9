package httpwire

import "github.com/google/uuid"

// ParamKind identifies how a path parameter was declared (spec §3: "str,
// int, uint, float, uuid, path").
type ParamKind uint8

const (
	ParamStr ParamKind = iota
	ParamInt
	ParamUint
	ParamFloat
	ParamUUID
	ParamPath
)

// Param is one bound path parameter: the raw path segment plus the value
// coerced to its declared type. Coercion happens once, at match time in the
// router (spec §4.4 — "type coercion errors are reported at match time, not
// at accessor time"), so accessors below never fail.
type Param struct {
	Name string
	Kind ParamKind
	Raw  string

	intVal   int64
	uintVal  uint64
	floatVal float64
	uuidVal  uuid.UUID
}

// Params is the small ordered set of path parameters bound for one matched
// route. MaxPathParams bounds the inline array so binding a typical route
// (a handful of segments) never allocates.
const MaxPathParams = 16

type Params struct {
	entries [MaxPathParams]Param
	count   int
	extra   []Param // overflow for patterns with more than MaxPathParams segments
}

func (p *Params) reset() {
	p.count = 0
	p.extra = p.extra[:0]
}

func (p *Params) add(v Param) {
	if p.count < MaxPathParams {
		p.entries[p.count] = v
		p.count++
		return
	}
	p.extra = append(p.extra, v)
}

// Get returns the raw string segment and whether name was bound.
func (p *Params) Get(name string) (string, bool) {
	for i := 0; i < p.count; i++ {
		if p.entries[i].Name == name {
			return p.entries[i].Raw, true
		}
	}
	for i := range p.extra {
		if p.extra[i].Name == name {
			return p.extra[i].Raw, true
		}
	}
	return "", false
}

func (p *Params) find(name string) *Param {
	for i := 0; i < p.count; i++ {
		if p.entries[i].Name == name {
			return &p.entries[i]
		}
	}
	for i := range p.extra {
		if p.extra[i].Name == name {
			return &p.extra[i]
		}
	}
	return nil
}

// Int returns the coerced int64 value bound for name.
func (p *Params) Int(name string) (int64, bool) {
	e := p.find(name)
	if e == nil || e.Kind != ParamInt {
		return 0, false
	}
	return e.intVal, true
}

// Uint returns the coerced uint64 value bound for name.
func (p *Params) Uint(name string) (uint64, bool) {
	e := p.find(name)
	if e == nil || e.Kind != ParamUint {
		return 0, false
	}
	return e.uintVal, true
}

// Float returns the coerced float64 value bound for name.
func (p *Params) Float(name string) (float64, bool) {
	e := p.find(name)
	if e == nil || e.Kind != ParamFloat {
		return 0, false
	}
	return e.floatVal, true
}

// UUID returns the coerced uuid.UUID value bound for name.
func (p *Params) UUID(name string) (uuid.UUID, bool) {
	e := p.find(name)
	if e == nil || e.Kind != ParamUUID {
		return uuid.UUID{}, false
	}
	return e.uuidVal, true
}

// Len reports how many parameters are bound.
func (p *Params) Len() int { return p.count + len(p.extra) }

// NewParam constructs a Param of kind str/path carrying only the raw
// segment. The router calls the WithXxx constructors below once it has
// coerced the value for typed segments.
func NewParam(name, raw string, kind ParamKind) Param {
	return Param{Name: name, Kind: kind, Raw: raw}
}

// WithInt returns an int-kind Param.
func WithInt(name, raw string, v int64) Param {
	return Param{Name: name, Kind: ParamInt, Raw: raw, intVal: v}
}

// WithUint returns a uint-kind Param.
func WithUint(name, raw string, v uint64) Param {
	return Param{Name: name, Kind: ParamUint, Raw: raw, uintVal: v}
}

// WithFloat returns a float-kind Param.
func WithFloat(name, raw string, v float64) Param {
	return Param{Name: name, Kind: ParamFloat, Raw: raw, floatVal: v}
}

// WithUUID returns a uuid-kind Param.
func WithUUID(name, raw string, v uuid.UUID) Param {
	return Param{Name: name, Kind: ParamUUID, Raw: raw, uuidVal: v}
}

// AddParam appends a bound parameter. Exported so the router (a different
// package) can populate a request's Params after a successful match without
// httpwire needing to know anything about trie matching.
func (p *Params) AddParam(v Param) { p.add(v) }
