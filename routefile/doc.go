// Package routefile loads HTTP route tables from YAML files and builds
// mux routers out of them, so the URL layout of a service can live in
// configuration instead of code.
//
// # File format
//
// A route file holds router options and a list of named route entries:
//
//	options:
//	  strictSlash: true
//	routes:
//	  - name: user
//	    path: /users/{id:[0-9]+}
//	    methods: [GET, PUT]
//	    handler: user
//	  - name: api
//	    host: "{subdomain}.example.com"
//	    pathPrefix: /api/
//	    schemes: [https]
//	    headers:
//	      - X-Requested-With=XMLHttpRequest
//	      - Authorization
//	    queries:
//	      - version={v:[0-9]+}
//	    handler: api
//	  - name: asset
//	    path: /static/{file}
//	    buildOnly: true
//
// Entry fields map one to one onto mux route matchers: path and
// pathPrefix are mutually exclusive, headers are "Name=value" pairs
// with a bare name matching on presence, and queries are
// "key=value-template" pairs kept in declaration order. An entry with
// buildOnly set registers only for URL building and needs no handler;
// every other entry names a handler resolved at build time:
//
//	file, err := routefile.Load("routes.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	router, err := file.Build(routefile.Handlers{
//	    "user": userHandler,
//	    "api":  apiHandler,
//	})
//
// Parsing is strict: unknown fields, unnamed entries, duplicate names
// and malformed templates are all reported before a router is built.
//
// # Hot reload
//
// Handler holds the built router behind an atomic pointer, so a table
// can be replaced while requests are in flight. Watcher drives that
// swap from the file itself, rebuilding on every change and keeping
// the previous table when a reload fails:
//
//	var table routefile.Handler
//	watcher, err := routefile.NewWatcher(routefile.WatcherConfig{
//	    Path:     "routes.yaml",
//	    Handlers: handlers,
//	    Target:   &table,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := watcher.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer watcher.Stop()
//
//	http.ListenAndServe(":8080", &table)
//
// # Limits
//
// Route files cover the declarative subset of the mux API. Custom
// MatcherFunc predicates, HeadersRegexp patterns and middleware cannot
// be expressed in a file; attach middleware to the routers a file
// builds, or to the Handler serving them. Dump has the same limits in
// reverse: it flattens subrouter trees into standalone entries and
// drops matchers that have no file representation.
package routefile
