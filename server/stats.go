package server

import (
	"sync/atomic"
	"time"
)

// Stats holds lock-free counters exposed through Server.Stats (spec §6.4
// "stats() → { connections, requests_in_flight, requests_total, arenas:
// per-kind }"). Every field is updated with atomic ops from any I/O worker
// without coordination, per spec §5's "metrics counters — lock-free
// atomics".
type Stats struct {
	startTime time.Time

	connectionsTotal  atomic.Int64
	connectionsActive atomic.Int64
	requestsTotal     atomic.Int64
	requestsInFlight  atomic.Int64
	bytesRead         atomic.Int64
	bytesWritten      atomic.Int64
	errorsTotal       atomic.Int64
	resetCount        atomic.Int64
}

func newStats() *Stats {
	return &Stats{startTime: time.Now()}
}

func (s *Stats) connOpened() {
	s.connectionsTotal.Add(1)
	s.connectionsActive.Add(1)
}

func (s *Stats) connClosed() {
	s.connectionsActive.Add(-1)
}

func (s *Stats) requestStarted() {
	s.requestsTotal.Add(1)
	s.requestsInFlight.Add(1)
}

func (s *Stats) requestFinished() {
	s.requestsInFlight.Add(-1)
}

func (s *Stats) addBytesRead(n int64)    { s.bytesRead.Add(n) }
func (s *Stats) addBytesWritten(n int64) { s.bytesWritten.Add(n) }
func (s *Stats) addError()               { s.errorsTotal.Add(1) }
func (s *Stats) addReset()               { s.resetCount.Add(1) }

// Snapshot is a point-in-time, non-atomic copy of Stats suitable for
// marshaling or logging.
type Snapshot struct {
	Uptime            time.Duration
	ConnectionsTotal  int64
	ConnectionsActive int64
	RequestsTotal     int64
	RequestsInFlight  int64
	BytesRead         int64
	BytesWritten      int64
	ErrorsTotal       int64
	ArenaResetCount   int64
}

// Snapshot reads every counter into a plain struct.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Uptime:            time.Since(s.startTime),
		ConnectionsTotal:  s.connectionsTotal.Load(),
		ConnectionsActive: s.connectionsActive.Load(),
		RequestsTotal:     s.requestsTotal.Load(),
		RequestsInFlight:  s.requestsInFlight.Load(),
		BytesRead:         s.bytesRead.Load(),
		BytesWritten:      s.bytesWritten.Load(),
		ErrorsTotal:       s.errorsTotal.Load(),
		ArenaResetCount:   s.resetCount.Load(),
	}
}

// RequestsPerSecond is requests_total divided by uptime, for a
// dashboard-friendly derived figure (grounded on the teacher's Stats rate
// helpers).
func (snap Snapshot) RequestsPerSecond() float64 {
	secs := snap.Uptime.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(snap.RequestsTotal) / secs
}
