package routefile

import (
	"fmt"

	"github.com/vitalvas/routix/mux"
)

// Dump projects a programmatically built router back into a route
// table. Subrouter trees are flattened: each leaf route becomes one
// entry carrying its full host, path and query templates. Every dumped
// route must be named.
//
// The result is a manifest, not a complete round trip. Handler values
// cannot be mapped back to symbolic names, so the handler fields are
// left empty, and matchers with no file representation (MatcherFunc,
// HeadersRegexp, matchers set only on a subrouter's parent route) are
// omitted.
func Dump(router *mux.Router) (*File, error) {
	f := &File{
		Options: Options{
			StrictSlash:    router.GetStrictSlash(),
			SkipClean:      router.GetSkipClean(),
			UseEncodedPath: router.GetUseEncodedPath(),
		},
	}

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		if _, ok := route.GetHandler().(*mux.Router); ok {
			return nil
		}
		if err := route.GetError(); err != nil {
			return err
		}

		e := Entry{
			Name:      route.GetName(),
			BuildOnly: route.IsBuildOnly(),
		}
		if e.Name == "" {
			template, _ := route.GetPathTemplate()
			return fmt.Errorf("route %q: %w", template, ErrMissingName)
		}

		if host, err := route.GetHostTemplate(); err == nil {
			e.Host = host
		}
		if path, err := route.GetPathTemplate(); err == nil {
			if route.IsPathPrefix() {
				e.PathPrefix = path
			} else {
				e.Path = path
			}
		}
		if methods, err := route.GetMethods(); err == nil {
			e.Methods = methods
		}
		if schemes, err := route.GetSchemes(); err == nil {
			e.Schemes = schemes
		}
		if headers, err := route.GetHeadersTemplates(); err == nil {
			e.Headers = headers
		}
		if queries, err := route.GetQueriesTemplates(); err == nil {
			e.Queries = queries
		}

		f.Routes = append(f.Routes, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("routefile: dump: %w", err)
	}

	return f, nil
}
