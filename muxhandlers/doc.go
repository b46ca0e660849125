// Package muxhandlers provides HTTP middleware for the mux router.
//
// Every middleware follows the same shape: a config struct whose zero
// value is usable, and a constructor returning a mux.MiddlewareFunc to
// register with Router.Use. Constructors that validate their input also
// return an error.
//
// # Request Identity
//
// RequestIDMiddleware generates a request ID per request, or reuses the
// incoming header when TrustIncoming is set, and stores it in the
// request context for handlers and the access log.
//
//	r.Use(muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{}))
//
// # Observability
//
// LoggingMiddleware writes one zap entry per request with the method,
// path, matched route template, status, size and duration.
// MetricsMiddleware registers Prometheus collectors for request totals,
// latencies and in-flight requests, labeled by route template so the
// cardinality stays bounded.
//
//	r.Use(
//	    muxhandlers.LoggingMiddleware(muxhandlers.LoggingConfig{Logger: logger}),
//	    muxhandlers.MetricsMiddleware(muxhandlers.MetricsConfig{}),
//	)
//
// # Resilience
//
// RecoveryMiddleware converts handler panics into 500 responses, keeping
// http.ErrAbortHandler panics intact for the server loop.
// RateLimitMiddleware applies a token bucket per client with idle-entry
// expiry. CircuitBreakerMiddleware stops calling a failing handler and
// answers 503 until a probe succeeds.
//
//	r.Use(
//	    muxhandlers.RecoveryMiddleware(muxhandlers.RecoveryConfig{}),
//	    muxhandlers.RateLimitMiddleware(muxhandlers.RateLimitConfig{RequestsPerSecond: 50}),
//	    muxhandlers.CircuitBreakerMiddleware(muxhandlers.CircuitBreakerConfig{}),
//	)
//
// # Proxy Headers
//
// ProxyHeadersMiddleware populates request fields from reverse proxy
// headers when the request originates from a trusted proxy. It sets
// r.RemoteAddr from X-Forwarded-For or X-Real-IP, r.URL.Scheme from
// X-Forwarded-Proto or X-Forwarded-Scheme, and r.Host from
// X-Forwarded-Host. When EnableForwarded is true, the RFC 7239
// Forwarded header is also parsed as a lowest-priority fallback. A
// trusted proxy list (IPs and CIDRs) restricts which peers are allowed
// to set these headers, preventing spoofing from untrusted clients.
// When TrustedProxies is empty, DefaultTrustedProxies (RFC 1918,
// RFC 4193, and loopback ranges) is used.
//
//	mw, err := muxhandlers.ProxyHeadersMiddleware(muxhandlers.ProxyHeadersConfig{
//	    TrustedProxies:  []string{"10.0.0.0/8", "172.16.0.0/12"},
//	    EnableForwarded: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r.Use(mw)
//
// # Host Identity
//
// ServerMiddleware stamps responses with an X-Server-Hostname header so
// load balanced deployments can tell which instance answered.
package muxhandlers
