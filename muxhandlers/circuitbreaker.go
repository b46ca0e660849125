package muxhandlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/vitalvas/routix/mux"
)

// errHandlerFailure marks responses the breaker counts as failures.
var errHandlerFailure = errors.New("handler failure")

// CircuitBreakerConfig configures the circuit breaker middleware.
type CircuitBreakerConfig struct {
	// Name identifies the breaker in state change notifications.
	// Defaults to "http".
	Name string

	// MinRequests is how many requests must be observed before the
	// failure ratio is evaluated. Defaults to 5.
	MinRequests uint32

	// FailureRatio is the failure fraction at which the breaker opens.
	// Defaults to 0.5.
	FailureRatio float64

	// Interval is the closed-state window after which counts reset.
	// Zero keeps counts for the life of the breaker.
	Interval time.Duration

	// OpenTimeout is how long the breaker stays open before a probe
	// request is let through. Defaults to 30 seconds.
	OpenTimeout time.Duration

	// IsFailure reports whether a response status counts as a failure.
	// Defaults to treating 5xx as failures.
	IsFailure func(status int) bool

	// OnStateChange is called on breaker state transitions.
	OnStateChange func(name string, from, to gobreaker.State)

	// OnOpen handles requests rejected while the breaker is open.
	// Defaults to a plain 503 response.
	OnOpen http.Handler
}

// CircuitBreakerMiddleware returns a middleware that stops calling the
// wrapped handler once it keeps failing. The breaker opens when at
// least MinRequests requests have been seen and the failure ratio
// reaches FailureRatio; while open, requests go to OnOpen without
// reaching the handler. After OpenTimeout a single probe request is let
// through, and a successful probe closes the breaker again.
//
// Failed responses pass through unchanged. The handler already wrote
// them; the breaker only counts the outcome.
func CircuitBreakerMiddleware(cfg CircuitBreakerConfig) mux.MiddlewareFunc {
	name := cfg.Name
	if name == "" {
		name = "http"
	}

	minRequests := cfg.MinRequests
	if minRequests == 0 {
		minRequests = 5
	}

	failureRatio := cfg.FailureRatio
	if failureRatio <= 0 {
		failureRatio = 0.5
	}

	openTimeout := cfg.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}

	isFailure := cfg.IsFailure
	if isFailure == nil {
		isFailure = func(status int) bool {
			return status >= http.StatusInternalServerError
		}
	}

	onOpen := cfg.OnOpen
	if onOpen == nil {
		onOpen = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     name,
		Interval: cfg.Interval,
		Timeout:  openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= minRequests && ratio >= failureRatio
		},
		OnStateChange: cfg.OnStateChange,
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)

			_, err := breaker.Execute(func() (any, error) {
				next.ServeHTTP(sw, r)

				if isFailure(sw.status) {
					return nil, errHandlerFailure
				}

				return nil, nil
			})

			// Only rejections need a response here. On errHandlerFailure
			// the handler has already written its own.
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				onOpen.ServeHTTP(w, r)
			}
		})
	}
}
