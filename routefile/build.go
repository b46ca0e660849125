package routefile

import (
	"fmt"
	"net/http"

	"github.com/vitalvas/routix/mux"
)

// Handlers resolves the symbolic handler names a route file uses.
type Handlers map[string]http.Handler

// Build compiles the file into a router, resolving each entry's handler
// name through handlers. Build-only entries need no handler and keep
// any resolved one out of dispatch either way.
func (f *File) Build(handlers Handlers) (*mux.Router, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	router := applyOptions(mux.NewRouter(), f.Options)

	for i := range f.Routes {
		e := &f.Routes[i]

		route := e.apply(router.NewRoute())

		if !e.BuildOnly {
			h, ok := handlers[e.Handler]
			if !ok {
				return nil, fmt.Errorf("routefile: route %q: %w: %q", e.Name, ErrUnknownHandler, e.Handler)
			}
			route.Handler(h)
		}

		if err := route.GetError(); err != nil {
			return nil, fmt.Errorf("routefile: route %q: %w", e.Name, err)
		}
	}

	return router, nil
}
