package muxhandlers

import (
	"net/http"
	"runtime/debug"

	"github.com/vitalvas/routix/mux"
)

// RecoveryConfig configures the Recovery middleware behaviour.
type RecoveryConfig struct {
	// LogFunc is an optional callback invoked with the request, the
	// recovered value, and a stack trace when a panic occurs. When nil,
	// no logging is performed.
	LogFunc func(r *http.Request, err any, stack []byte)

	// DisableStack skips stack capture; LogFunc receives a nil stack.
	DisableStack bool
}

// RecoveryMiddleware returns a middleware that recovers from panics in
// downstream handlers. When a panic occurs it returns 500 Internal Server
// Error to the client and optionally invokes LogFunc. Panics with
// http.ErrAbortHandler are re-raised: net/http uses that sentinel to abort
// the connection without a reply, and it must reach the server loop.
func RecoveryMiddleware(cfg RecoveryConfig) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				err := recover()
				if err == nil {
					return
				}
				if err == http.ErrAbortHandler { //nolint:errorlint // sentinel panic value, never wrapped
					panic(err)
				}

				if cfg.LogFunc != nil {
					var stack []byte
					if !cfg.DisableStack {
						stack = debug.Stack()
					}
					cfg.LogFunc(r, err, stack)
				}

				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
