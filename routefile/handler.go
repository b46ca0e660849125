package routefile

import (
	"net/http"
	"sync/atomic"

	"github.com/vitalvas/routix/mux"
)

type publishedTable struct {
	router *mux.Router
	file   *File
}

// Handler serves requests from the most recently published route table
// and lets that table be swapped atomically while requests are in
// flight. An in-flight request keeps dispatching through the table it
// started with.
//
// The zero value is ready to use and answers 503 until the first Swap.
type Handler struct {
	table atomic.Pointer[publishedTable]
}

// Swap publishes a new router and the file it was built from.
func (h *Handler) Swap(router *mux.Router, file *File) {
	h.table.Store(&publishedTable{router: router, file: file})
}

// Router returns the currently published router, or nil before the
// first Swap.
func (h *Handler) Router() *mux.Router {
	if t := h.table.Load(); t != nil {
		return t.router
	}
	return nil
}

// File returns the file the current router was built from, or nil
// before the first Swap.
func (h *Handler) File() *File {
	if t := h.table.Load(); t != nil {
		return t.file
	}
	return nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	t := h.table.Load()
	if t == nil {
		http.Error(w, "route table not loaded", http.StatusServiceUnavailable)
		return
	}
	t.router.ServeHTTP(w, r)
}

// Manifest returns a handler that renders the current route table as
// YAML, suitable for mounting on a diagnostics endpoint.
func (h *Handler) Manifest() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := h.table.Load()
		if t == nil {
			http.Error(w, "route table not loaded", http.StatusServiceUnavailable)
			return
		}
		mux.ResponseYAML(w, http.StatusOK, t.file)
	})
}
