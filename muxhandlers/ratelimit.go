package muxhandlers

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/vitalvas/routix/mux"
)

// RateLimitConfig configures the rate limit middleware.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained refill rate of each client
	// bucket. Defaults to 10.
	RequestsPerSecond float64

	// Burst is how many requests a client may send at once before the
	// refill rate applies. Defaults to the refill rate rounded down,
	// with a minimum of 1.
	Burst int

	// KeyFunc derives the bucket key from a request. Defaults to the
	// client IP taken from RemoteAddr.
	KeyFunc func(r *http.Request) string

	// ClientTTL is how long an idle client entry is kept before its
	// bucket is dropped and the next request starts a fresh one.
	// Defaults to 10 minutes.
	ClientTTL time.Duration

	// OnLimit handles rejected requests. Defaults to a plain 429
	// response with a Retry-After header.
	OnLimit http.Handler
}

// RateLimitMiddleware returns a middleware that applies a token bucket
// per client. Idle entries expire after ClientTTL and are swept out on
// later requests, so the client table does not grow without bound.
//
// The default key is the request's RemoteAddr, which is the proxy
// address when the server sits behind one. Register the middleware
// after ProxyHeadersMiddleware, or supply a KeyFunc, so limits apply to
// real clients.
func RateLimitMiddleware(cfg RateLimitConfig) mux.MiddlewareFunc {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = int(rps)
		if burst < 1 {
			burst = 1
		}
	}

	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = clientAddr
	}

	ttl := cfg.ClientTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	onLimit := cfg.OnLimit
	if onLimit == nil {
		onLimit = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Retry-After", "1")
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		})
	}

	clients := &rateLimitClients{
		entries: make(map[string]*rateLimitEntry),
		rps:     rate.Limit(rps),
		burst:   burst,
		ttl:     ttl,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !clients.get(keyFunc(r), time.Now()).Allow() {
				onLimit.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// rateLimitClients maps bucket keys to their limiters. Expiry runs
// inline on the request path instead of in a background goroutine, so
// the middleware needs no shutdown hook.
type rateLimitClients struct {
	mu        sync.Mutex
	entries   map[string]*rateLimitEntry
	rps       rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
}

type rateLimitEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// get returns the limiter for key, creating a fresh one when the key is
// new or its entry sat idle past the TTL. At most once per TTL it also
// sweeps the whole table.
func (c *rateLimitClients) get(key string, now time.Time) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if now.Sub(c.lastSweep) >= c.ttl {
		c.sweep(now)
	}

	entry, ok := c.entries[key]
	if !ok || now.Sub(entry.lastSeen) > c.ttl {
		entry = &rateLimitEntry{limiter: rate.NewLimiter(c.rps, c.burst)}
		c.entries[key] = entry
	}
	entry.lastSeen = now

	return entry.limiter
}

// sweep drops entries idle longer than the TTL. The caller holds mu.
func (c *rateLimitClients) sweep(now time.Time) {
	for key, entry := range c.entries {
		if now.Sub(entry.lastSeen) > c.ttl {
			delete(c.entries, key)
		}
	}

	c.lastSweep = now
}

// clientAddr returns the request's client address without the port.
// ProxyHeadersMiddleware may have already rewritten RemoteAddr to a
// bare IP, which is returned as is.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
