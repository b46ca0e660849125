package routefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vitalvas/routix/mux"
)

var (
	// ErrEmptyFile is returned when the data holds no YAML document. A
	// truncated write looks the same, so callers keep their current table.
	ErrEmptyFile = errors.New("empty route file")

	// ErrMissingName is returned when a route entry has no name.
	ErrMissingName = errors.New("route entry has no name")

	// ErrAmbiguousPath is returned when an entry sets both path and
	// pathPrefix.
	ErrAmbiguousPath = errors.New("path and pathPrefix are mutually exclusive")

	// ErrMissingTemplate is returned when an entry has no host, path or
	// pathPrefix.
	ErrMissingTemplate = errors.New("route entry needs a host, path or pathPrefix")

	// ErrMissingHandler is returned when a dispatching entry names no
	// handler.
	ErrMissingHandler = errors.New("route entry has no handler")

	// ErrUnknownHandler is returned by Build when an entry references a
	// handler name missing from the Handlers map.
	ErrUnknownHandler = errors.New("unknown handler name")

	// ErrMalformedQuery is returned when a queries entry is not a
	// key=value pair.
	ErrMalformedQuery = errors.New("queries entries must be key=value pairs")
)

// Options configures the router a File builds. The fields mirror the
// mux.Router options of the same names.
type Options struct {
	StrictSlash    bool `yaml:"strictSlash,omitempty"`
	SkipClean      bool `yaml:"skipClean,omitempty"`
	UseEncodedPath bool `yaml:"useEncodedPath,omitempty"`
}

// Entry declares a single route. Exactly one of Path and PathPrefix may
// be set; Host alone is also enough. Headers are "Name=value" strings,
// with a bare name matching on header presence. Queries are
// "key=value-template" strings in declaration order, the order URL
// building uses. Handler is the symbolic name resolved against the
// Handlers map at build time; entries marked buildOnly need none and
// are registered for URL building only.
type Entry struct {
	Name       string   `yaml:"name"`
	Host       string   `yaml:"host,omitempty"`
	Path       string   `yaml:"path,omitempty"`
	PathPrefix string   `yaml:"pathPrefix,omitempty"`
	Methods    []string `yaml:"methods,omitempty,flow"`
	Schemes    []string `yaml:"schemes,omitempty,flow"`
	Headers    []string `yaml:"headers,omitempty"`
	Queries    []string `yaml:"queries,omitempty"`
	Handler    string   `yaml:"handler,omitempty"`
	BuildOnly  bool     `yaml:"buildOnly,omitempty"`
}

// File is a parsed route table.
type File struct {
	Options Options `yaml:"options,omitempty"`
	Routes  []Entry `yaml:"routes"`
}

// Parse decodes and validates a route table. Unknown YAML fields are
// rejected, so typos in entry keys fail loudly instead of silently
// dropping a matcher.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("routefile: %w", ErrEmptyFile)
		}
		return nil, fmt.Errorf("routefile: decode: %w", err)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}

	return &f, nil
}

// Load reads and parses the route table at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("routefile: %w", err)
	}
	return Parse(data)
}

// Validate checks every entry and compiles its templates through a
// scratch router, so malformed templates, duplicate variables and
// duplicate names surface before anything is built. Handler names are
// not resolved here; that is deferred to Build.
func (f *File) Validate() error {
	scratch := applyOptions(mux.NewRouter(), f.Options)

	for i := range f.Routes {
		e := &f.Routes[i]

		if err := e.check(); err != nil {
			if e.Name == "" {
				return fmt.Errorf("routefile: route %d: %w", i, err)
			}
			return fmt.Errorf("routefile: route %q: %w", e.Name, err)
		}

		if err := e.apply(scratch.NewRoute()).GetError(); err != nil {
			return fmt.Errorf("routefile: route %q: %w", e.Name, err)
		}
	}

	return nil
}

// Encode renders the file as YAML.
func (f *File) Encode() ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	err := enc.Encode(f)
	if cerr := enc.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("routefile: encode: %w", err)
	}

	return buf.Bytes(), nil
}

// check validates the entry fields that do not need a compiled route.
func (e *Entry) check() error {
	if e.Name == "" {
		return ErrMissingName
	}
	if e.Path != "" && e.PathPrefix != "" {
		return ErrAmbiguousPath
	}
	if e.Host == "" && e.Path == "" && e.PathPrefix == "" {
		return ErrMissingTemplate
	}
	if e.Handler == "" && !e.BuildOnly {
		return ErrMissingHandler
	}
	for _, q := range e.Queries {
		if !strings.Contains(q, "=") {
			return fmt.Errorf("query %q: %w", q, ErrMalformedQuery)
		}
	}
	return nil
}

// apply registers the entry's name and matchers on the route.
func (e *Entry) apply(route *mux.Route) *mux.Route {
	route.Name(e.Name)

	if e.Host != "" {
		route.Host(e.Host)
	}
	if e.Path != "" {
		route.Path(e.Path)
	}
	if e.PathPrefix != "" {
		route.PathPrefix(e.PathPrefix)
	}
	if len(e.Methods) > 0 {
		route.Methods(e.Methods...)
	}
	if len(e.Schemes) > 0 {
		route.Schemes(e.Schemes...)
	}
	if len(e.Headers) > 0 {
		route.Headers(headerPairs(e.Headers)...)
	}
	for _, q := range e.Queries {
		key, value, _ := strings.Cut(q, "=")
		route.Queries(key, value)
	}
	if e.BuildOnly {
		route.BuildOnly()
	}

	return route
}

// headerPairs flattens "Name=value" strings into the pairs Headers
// expects. A bare name becomes a presence-only match.
func headerPairs(headers []string) []string {
	pairs := make([]string, 0, len(headers)*2)
	for _, h := range headers {
		name, value, _ := strings.Cut(h, "=")
		pairs = append(pairs, name, value)
	}
	return pairs
}

func applyOptions(router *mux.Router, opts Options) *mux.Router {
	router.StrictSlash(opts.StrictSlash)
	router.SkipClean(opts.SkipClean)
	if opts.UseEncodedPath {
		router.UseEncodedPath()
	}
	return router
}
