// Package mux routes HTTP requests to handlers based on URL and request
// properties.
//
// The matching model is that of gorilla/mux: a router keeps its routes in
// registration order, tries a request against them one by one, and the
// first route whose every matcher accepts the request wins. If at least
// one route turned the request away because of its method alone, the
// router answers 405 Method Not Allowed rather than 404 Not Found. The
// observable behavior follows:
//   - RFC 9110 (HTTP Semantics, successor to RFC 7231)
//   - RFC 9112 (HTTP/1.1, successor to RFC 7230)
//   - RFC 3986 (URIs)
//   - RFC 7538 (308 Permanent Redirect)
//
// Beyond plain path dispatch the package provides:
//   - Path variables with regexp constraints and named pattern macros
//   - Host matching, with or without a port
//   - Header, query string, and scheme matching
//   - Arbitrary matcher functions
//   - Subrouters for grouping and scoped fallbacks
//   - Middleware per router or subrouter
//   - Reverse URL building from named routes, query parts included
//   - Traversal of the registered route tree
//
// # Routing Basics
//
// A router satisfies http.Handler, so it plugs in wherever one is
// accepted:
//
//	r := mux.NewRouter()
//	r.HandleFunc("/orders/{region}/{id:[0-9]+}", OrderHandler)
//	r.HandleFunc("/items/{sku}", ItemHandler)
//	http.Handle("/", r)
//
// # Path Variables
//
// A template segment written as {name} captures anything up to the next
// slash. Adding a colon and a pattern, {name:pattern}, restricts what the
// variable accepts:
//
//	r.HandleFunc("/orders/{region}/{id:[0-9]+}", handler)
//
// Captured values are stored in the request context and read back with
// Vars:
//
//	vars := mux.Vars(r)
//	region := vars["region"]
//
// A variable name may appear only once per route, counting everything the
// route matches on: using the same name in the host template and the path
// template, or twice inside one template, is a configuration error.
//
// # Pattern Macros
//
// Common patterns have named shorthands. Writing {name:macro} with a known
// macro name expands to the corresponding pattern:
//
//	r.HandleFunc("/users/{id:uuid}", handler)
//	r.HandleFunc("/pages/{num:int}", handler)
//	r.HandleFunc("/posts/{title:slug}", handler)
//	r.HandleFunc("/reports/{day:date}", handler)
//
// The defined macros are:
//
//	uuid     - RFC 4122 UUID (e.g. 123e4567-e89b-12d3-a456-426614174000)
//	int      - unsigned integer (e.g. 128)
//	float    - decimal number (e.g. 2.5, 10, .75)
//	slug     - URL-safe slug (e.g. summer-sale-2024)
//	alpha    - alphabetic characters (e.g. tokyo)
//	alphanum - alphanumeric characters (e.g. a1b2c3)
//	date     - ISO 8601 date (e.g. 2025-12-31)
//	hex      - hexadecimal string (e.g. c0ffee)
//	domain   - domain name per RFC 1123 (e.g. api.example.org)
//
// A name after the colon that is not on this list is compiled as a raw
// regular expression, so macros never get in the way of explicit patterns.
//
// # Matchers
//
// A route can stack any number of conditions; the route matches only when
// all of them hold:
//
//	// HTTP method
//	r.HandleFunc("/orders", handler).Methods(http.MethodGet, http.MethodPost)
//
//	// Host, optionally with variables
//	r.Host("{tenant}.example.org").Path("/dashboard").HandlerFunc(handler)
//
//	// Exact header value
//	r.HandleFunc("/hooks", handler).Headers("X-Event", "push")
//
//	// Header value by regexp
//	r.HandleFunc("/data", handler).HeadersRegexp("Accept", "application/.*")
//
//	// Query string parameter
//	r.HandleFunc("/search", handler).Queries("q", "{query}")
//
//	// URL scheme
//	r.HandleFunc("/checkout", handler).Schemes("https")
//
//	// Anything else
//	r.HandleFunc("/beta", handler).MatcherFunc(func(r *http.Request, rm *mux.RouteMatch) bool {
//	    return r.Header.Get("X-Beta") != ""
//	})
//
// A host template that names no port matches the request host on any port;
// spell the port out in the template to pin it. Scheme matching consults
// the X-Forwarded-Proto header before the URL scheme, so routes restricted
// to https keep matching behind a TLS-terminating proxy. The muxhandlers
// package can promote the remaining forwarded headers onto the request.
//
// # Subrouters
//
// Subrouter groups routes under a shared prefix, host, or any other
// matcher set:
//
//	api := r.PathPrefix("/api").Subrouter()
//	api.HandleFunc("/orders", OrdersHandler)
//
// A subrouter may carry its own NotFoundHandler. When the subrouter's own
// matchers accept the request but none of its routes do, that handler
// answers instead of the parent's:
//
//	api := r.PathPrefix("/api").Subrouter()
//	api.NotFoundHandler = http.HandlerFunc(apiNotFound)
//	api.HandleFunc("/orders", OrdersHandler)
//
// # Middleware
//
// Use attaches middleware to a router or subrouter. It wraps the handlers
// of matched routes:
//
//	r.Use(mux.MiddlewareFunc(loggingMiddleware))
//
// The first middleware registered ends up outermost: it sees the request
// first and the response last. Parent router middleware wraps subrouter
// middleware. CORSMethodMiddleware is included for preflight support; it
// fills Access-Control-Allow-Methods from the methods registered on the
// matched path:
//
//	r.Use(mux.CORSMethodMiddleware(r))
//
// # Building URLs
//
// A named route can be turned back into a URL. Names are unique within a
// router tree, a name can be assigned only once, and a route cannot be
// renamed; violations are configuration errors:
//
//	r.HandleFunc("/orders/{region}/{id:[0-9]+}", handler).Name("order")
//	url, err := r.Get("order").URL("region", "eu", "id", "42")
//
// URL fills in every component the route constrains: the scheme (the first
// one passed to Schemes, or "http" when none), the host, the path, and a
// query string assembled from the route's query templates. Every variable
// across those templates needs a value, each value must satisfy the
// variable's pattern, and values are substituted without escaping. URLHost
// and URLPath build just the one component:
//
//	hostURL, _ := route.URLHost("tenant", "acme")
//	pathURL, _ := route.URLPath("region", "eu", "id", "42")
//
// Routes meant only for URL building can be excluded from matching; see
// Build-Only Routes below.
//
// # Inspecting Routes
//
// The route configuration can be read back after setup:
//
//	tpl, _ := route.GetPathTemplate()     // e.g. "/orders/{region}/{id}"
//	re, _ := route.GetPathRegexp()        // compiled path regexp string
//	host, _ := route.GetHostTemplate()    // e.g. "{tenant}.example.org"
//	methods, _ := route.GetMethods()      // e.g. ["GET", "POST"]
//	schemes, _ := route.GetSchemes()      // e.g. ["https"]
//	queries, _ := route.GetQueriesTemplates() // e.g. ["q={query}"]
//	qre, _ := route.GetQueriesRegexp()    // compiled query regexp strings
//	vars, _ := route.GetVarNames()        // e.g. ["region", "id"]
//
// # Path Normalization
//
// A request path holding repeated slashes or dot segments never reaches
// the routes. The router instead replies with a 301 redirect to the
// normalized form per RFC 3986 Section 5.2.4, keeping the query string
// intact. SkipClean switches both the normalization and the redirect off:
//
//	r.SkipClean(true)
//
// UseEncodedPath makes matching operate on the percent-encoded original
// path (RFC 3986 Section 2.1) instead of the decoded one; captured
// variables are decoded after extraction:
//
//	r.UseEncodedPath()
//
// # Trailing Slashes
//
// With StrictSlash enabled, a route registered as "/path/" answers a
// request for "/path" with a redirect to "/path/", and the other way
// around. The redirect is a 308 Permanent Redirect (RFC 7538), so the
// method and body survive it, and the query string is carried along:
//
//	r.StrictSlash(true)
//
// # Configuration Errors
//
// Mistakes made while configuring a route surface as errors wrapping one
// of the package sentinels: ErrPathMustStartWithSlash,
// ErrDuplicatedRouteVariable, ErrRouteAlreadyNamed, ErrDuplicateRouteName,
// ErrOddNumberOfParameters, and ErrMissingRouteVariable during URL
// building. The first error poisons the route: it stops matching, later
// configuration calls become no-ops, and GetError returns it:
//
//	route := r.HandleFunc("/users/{id}/{id}", handler)
//	if err := route.GetError(); err != nil {
//	    // errors.Is(err, mux.ErrDuplicatedRouteVariable) == true
//	}
//
// # Not Found and Method Not Allowed
//
// Two router fields control the request-time fallbacks.
//
// NotFoundHandler answers requests no route matched. When nil,
// http.NotFoundHandler() is used. This is the 404 Not Found case of
// RFC 9110 Section 15.5.5.
//
// MethodNotAllowedHandler answers requests that matched a path but not a
// method. When nil, a plain 405 handler is used. Either way the Allow
// header is populated before the handler runs, as RFC 9110
// Section 15.5.6 requires.
//
//	r.NotFoundHandler = http.HandlerFunc(custom404)
//	r.MethodNotAllowedHandler = http.HandlerFunc(custom405)
//
// # Probing Matches
//
// Router.Match checks a request against the routes without serving it:
//
//	var match mux.RouteMatch
//	if r.Match(req, &match) {
//	    // match.Route, match.Handler, match.Vars are populated
//	}
//
// On failure, RouteMatch.MatchErr tells the two cases apart:
// ErrMethodMismatch for a would-be 405 and ErrNotFound for a would-be 404.
//
// # Request Context
//
// Handlers read the routing outcome from the request context. Vars
// returns every captured variable:
//
//	vars := mux.Vars(r)
//
// VarGet looks up one variable and reports whether it was captured:
//
//	id, ok := mux.VarGet(r, "id")
//
// CurrentRoute returns the route that matched; it is only meaningful
// inside that route's handler:
//
//	route := mux.CurrentRoute(r)
//	tpl, _ := route.GetPathTemplate()
//
// SetURLVars injects variables into a request, which keeps handlers
// testable without a router:
//
//	req = mux.SetURLVars(req, map[string]string{"id": "42"})
//
// # Request Binding
//
// BindJSON, BindXML, and BindYAML decode a request body into a Go value.
// BindJSON rejects unknown fields unless told otherwise; all three reject
// trailing data after the first document:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    var req CreateOrderRequest
//	    if err := mux.BindJSON(r, &req); err != nil {
//	        http.Error(w, err.Error(), http.StatusBadRequest)
//	        return
//	    }
//	    // use req
//	}
//
// # Response Helpers
//
// ResponseJSON, ResponseXML, and ResponseYAML encode a value, set the
// matching Content-Type, and write it out. An encoding failure turns into
// an HTTP 500 Internal Server Error:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    mux.ResponseJSON(w, http.StatusOK, map[string]string{"status": "ok"})
//	}
//
// # Build-Only Routes
//
// BuildOnly marks a route as a URL template with no matching role. The
// route never serves requests but still builds URLs:
//
//	r.HandleFunc("/legacy/{id}", handler).Name("legacy").BuildOnly()
//	url, _ := r.Get("legacy").URL("id", "42")
//
// # Walking the Route Tree
//
// Walk visits every registered route, descending into subrouters:
//
//	r.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
//	    tpl, _ := route.GetPathTemplate()
//	    fmt.Println(tpl)
//	    return nil
//	})
//
// Returning SkipRouter from the function skips the subrouter the walk was
// about to enter.
package mux
