package middleware

import (
	"strconv"
	"sync"
	"time"

	"ember/internal/httpwire"
	"ember/internal/router"
)

// KeyFunc derives the rate-limit bucket key for a request, e.g. per client
// IP or per authenticated subject.
type KeyFunc func(*httpwire.Request) string

type rateLimitConfig struct {
	rate    int
	burst   int
	keyFunc KeyFunc
	headers bool
}

// RateLimitOption configures NewRateLimit.
type RateLimitOption func(*rateLimitConfig)

// WithRequestsPerSecond sets the steady-state refill rate. Default: 100.
func WithRequestsPerSecond(rate int) RateLimitOption {
	return func(c *rateLimitConfig) { c.rate = rate }
}

// WithBurst sets the bucket capacity. Default: 20.
func WithBurst(burst int) RateLimitOption {
	return func(c *rateLimitConfig) { c.burst = burst }
}

// WithKeyFunc overrides the default per-RemoteAddr bucketing.
func WithKeyFunc(fn KeyFunc) RateLimitOption {
	return func(c *rateLimitConfig) { c.keyFunc = fn }
}

// WithoutRateLimitHeaders disables the RateLimit-* response headers.
func WithoutRateLimitHeaders() RateLimitOption {
	return func(c *rateLimitConfig) { c.headers = false }
}

// NewRateLimit returns pre-route middleware enforcing a token-bucket limit
// per key, responding 429 with Retry-After once a bucket is exhausted.
// Supplements spec §4.6's connection-level backpressure (accept-queue
// depth) with a request-level limiter the core itself does not specify.
func NewRateLimit(opts ...RateLimitOption) router.Middleware {
	cfg := rateLimitConfig{
		rate:    100,
		burst:   20,
		headers: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.keyFunc == nil {
		cfg.keyFunc = func(req *httpwire.Request) string { return req.RemoteAddr }
	}

	store := newTokenBucketStore(cfg.rate, cfg.burst)

	return func(next router.Handler) router.Handler {
		return func(req *httpwire.Request, resp *httpwire.ResponseWriter) error {
			key := cfg.keyFunc(req)
			allowed, remaining, resetSeconds := store.allow(key, time.Now())

			if cfg.headers {
				resp.SetHeader([]byte("RateLimit-Limit"), []byte(strconv.Itoa(cfg.burst)))
				resp.SetHeader([]byte("RateLimit-Remaining"), []byte(strconv.Itoa(remaining)))
				resp.SetHeader([]byte("RateLimit-Reset"), []byte(strconv.Itoa(resetSeconds)))
			}

			if !allowed {
				resp.SetHeader([]byte("Retry-After"), []byte(strconv.Itoa(resetSeconds)))
				return resp.WriteError(429, "Too Many Requests")
			}

			return next(req, resp)
		}
	}
}

// tokenBucketEntry tracks one key's bucket state.
type tokenBucketEntry struct {
	mu         sync.Mutex
	tokens     float64
	lastUpdate time.Time
}

// tokenBucketStore is an in-memory token bucket keyed by rate-limit key,
// with a background sweep reclaiming buckets idle for over an hour.
type tokenBucketStore struct {
	rate    float64
	burst   float64
	mu      sync.RWMutex
	entries map[string]*tokenBucketEntry
}

func newTokenBucketStore(rate, burst int) *tokenBucketStore {
	s := &tokenBucketStore{
		rate:    float64(rate),
		burst:   float64(burst),
		entries: make(map[string]*tokenBucketEntry),
	}
	go s.sweepLoop()
	return s
}

func (s *tokenBucketStore) sweepLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-time.Hour)
		s.mu.Lock()
		for key, entry := range s.entries {
			entry.mu.Lock()
			stale := entry.lastUpdate.Before(cutoff)
			entry.mu.Unlock()
			if stale {
				delete(s.entries, key)
			}
		}
		s.mu.Unlock()
	}
}

func (s *tokenBucketStore) allow(key string, now time.Time) (allowed bool, remaining, resetSeconds int) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		s.mu.Lock()
		entry, ok = s.entries[key]
		if !ok {
			entry = &tokenBucketEntry{tokens: s.burst, lastUpdate: now}
			s.entries[key] = entry
		}
		s.mu.Unlock()
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	elapsed := now.Sub(entry.lastUpdate).Seconds()
	entry.tokens += elapsed * s.rate
	if entry.tokens > s.burst {
		entry.tokens = s.burst
	}
	entry.lastUpdate = now

	if entry.tokens >= 1.0 {
		entry.tokens--
		return true, int(entry.tokens), 1
	}

	needed := 1.0 - entry.tokens
	reset := int(needed / s.rate)
	if reset < 1 {
		reset = 1
	}
	return false, 0, reset
}
