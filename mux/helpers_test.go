package mux

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanPath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty becomes root", input: "", want: "/"},
		{name: "root stays root", input: "/", want: "/"},
		{name: "plain segment", input: "/foo", want: "/foo"},
		{name: "leading slash is added", input: "foo", want: "/foo"},
		{name: "doubled slashes collapse", input: "/foo//bar", want: "/foo/bar"},
		{name: "dot segments drop out", input: "/foo/./bar", want: "/foo/bar"},
		{name: "dotdot removes a segment", input: "/foo/bar/../baz", want: "/foo/baz"},
		{name: "climbing stops at the root", input: "/../../x", want: "/x"},
		{name: "trailing slash survives", input: "/foo/bar/", want: "/foo/bar/"},
		{name: "collapse to root keeps one slash", input: "/foo/../", want: "/"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, cleanPath(tc.input))
		})
	}
}

func TestCheckPairs(t *testing.T) {
	t.Run("counts the pairs", func(t *testing.T) {
		n, err := checkPairs("a", "b", "c", "d")
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("no arguments is zero pairs", func(t *testing.T) {
		n, err := checkPairs()
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("an odd count is reported with the arguments", func(t *testing.T) {
		_, err := checkPairs("a", "b", "c")
		assert.ErrorIs(t, err, ErrOddNumberOfParameters)
		assert.Contains(t, err.Error(), "[a b c]")
	})
}

func TestMapFromPairsToString(t *testing.T) {
	t.Run("builds the map", func(t *testing.T) {
		m, err := mapFromPairsToString("k1", "v1", "k2", "v2")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"k1": "v1", "k2": "v2"}, m)
	})

	t.Run("an odd count is an error", func(t *testing.T) {
		_, err := mapFromPairsToString("k1")
		assert.ErrorIs(t, err, ErrOddNumberOfParameters)
	})
}

func TestMapFromPairsToRegex(t *testing.T) {
	t.Run("compiles each value", func(t *testing.T) {
		m, err := mapFromPairsToRegex("digits", "^[0-9]+$", "letters", "^[a-z]+$")
		require.NoError(t, err)
		assert.True(t, m["digits"].MatchString("123"))
		assert.False(t, m["digits"].MatchString("abc"))
		assert.True(t, m["letters"].MatchString("abc"))
	})

	t.Run("a broken pattern is an error", func(t *testing.T) {
		_, err := mapFromPairsToRegex("k", "[broken")
		assert.Error(t, err)
	})

	t.Run("an odd count is an error", func(t *testing.T) {
		_, err := mapFromPairsToRegex("k")
		assert.ErrorIs(t, err, ErrOddNumberOfParameters)
	})
}

func TestUniqueVars(t *testing.T) {
	t.Run("disjoint slices pass", func(t *testing.T) {
		assert.NoError(t, uniqueVars([]string{"a", "b"}, []string{"c", "d"}))
	})

	t.Run("an empty side passes", func(t *testing.T) {
		assert.NoError(t, uniqueVars(nil, []string{"a"}))
		assert.NoError(t, uniqueVars([]string{"a"}, nil))
	})

	t.Run("a shared name is reported", func(t *testing.T) {
		err := uniqueVars([]string{"a", "b"}, []string{"b", "c"})
		assert.ErrorIs(t, err, ErrDuplicatedRouteVariable)
		assert.Contains(t, err.Error(), `"b"`)
	})
}

func TestMatchInArray(t *testing.T) {
	arr := []string{"a", "b", "c"}
	assert.True(t, matchInArray(arr, "b"))
	assert.False(t, matchInArray(arr, "d"))
	assert.False(t, matchInArray(nil, "a"))
}

func TestMatchMapWithString(t *testing.T) {
	tests := []struct {
		name      string
		toCheck   map[string]string
		toMatch   map[string][]string
		canonical bool
		want      bool
	}{
		{
			name:    "key and value present",
			toCheck: map[string]string{"Content-Type": "application/json"},
			toMatch: map[string][]string{"Content-Type": {"application/json"}},
			want:    true,
		},
		{
			name:    "value found among several",
			toCheck: map[string]string{"Accept": "application/json"},
			toMatch: map[string][]string{"Accept": {"text/html", "application/json"}},
			want:    true,
		},
		{
			name:    "missing key fails",
			toCheck: map[string]string{"X-Custom": "value"},
			toMatch: map[string][]string{"Content-Type": {"text/plain"}},
			want:    false,
		},
		{
			name:    "wrong value fails",
			toCheck: map[string]string{"Content-Type": "text/html"},
			toMatch: map[string][]string{"Content-Type": {"application/json"}},
			want:    false,
		},
		{
			name:    "an empty expected value only requires the key",
			toCheck: map[string]string{"Content-Type": ""},
			toMatch: map[string][]string{"Content-Type": {"anything"}},
			want:    true,
		},
		{
			name:      "lowercase key is canonicalized before lookup",
			toCheck:   map[string]string{"content-type": "text/plain"},
			toMatch:   map[string][]string{"Content-Type": {"text/plain"}},
			canonical: true,
			want:      true,
		},
		{
			name:    "without canonicalization the case must agree",
			toCheck: map[string]string{"content-type": "text/plain"},
			toMatch: map[string][]string{"Content-Type": {"text/plain"}},
			want:    false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, matchMapWithString(tc.toCheck, tc.toMatch, tc.canonical))
		})
	}
}

func TestMatchMapWithRegex(t *testing.T) {
	t.Run("a matching pattern passes", func(t *testing.T) {
		m, err := mapFromPairsToRegex("Content-Type", "^application/.*$")
		require.NoError(t, err)
		assert.True(t, matchMapWithRegex(m, map[string][]string{"Content-Type": {"application/json"}}, false))
	})

	t.Run("any one of several values may match", func(t *testing.T) {
		m, err := mapFromPairsToRegex("Accept", "json")
		require.NoError(t, err)
		assert.True(t, matchMapWithRegex(m, map[string][]string{"Accept": {"text/html", "application/json"}}, false))
	})

	t.Run("a non-matching pattern fails", func(t *testing.T) {
		m, err := mapFromPairsToRegex("Content-Type", "^text/.*$")
		require.NoError(t, err)
		assert.False(t, matchMapWithRegex(m, map[string][]string{"Content-Type": {"application/json"}}, false))
	})

	t.Run("a missing key fails", func(t *testing.T) {
		m, err := mapFromPairsToRegex("X-Custom", ".*")
		require.NoError(t, err)
		assert.False(t, matchMapWithRegex(m, map[string][]string{"Content-Type": {"text/plain"}}, false))
	})

	t.Run("a key with no values fails", func(t *testing.T) {
		m, err := mapFromPairsToRegex("Content-Type", ".*")
		require.NoError(t, err)
		assert.False(t, matchMapWithRegex(m, map[string][]string{"Content-Type": {}}, false))
	})

	t.Run("lowercase key is canonicalized before lookup", func(t *testing.T) {
		m, err := mapFromPairsToRegex("x-request-id", "^[0-9a-f]+$")
		require.NoError(t, err)
		assert.True(t, matchMapWithRegex(m, map[string][]string{"X-Request-Id": {"c0ffee"}}, true))
	})
}

func TestStripHostPort(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no port to strip", input: "example.com", want: "example.com"},
		{name: "port is stripped", input: "example.com:8080", want: "example.com"},
		{name: "localhost", input: "localhost:3000", want: "localhost"},
		{name: "ipv4 literal", input: "127.0.0.1:80", want: "127.0.0.1"},
		{name: "bracketed ipv6 loses brackets and port", input: "[::1]:8080", want: "::1"},
		{name: "bare ipv6 is left alone", input: "::1", want: "::1"},
		{name: "empty input", input: "", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stripHostPort(tc.input))
		})
	}
}

func TestRequestScheme(t *testing.T) {
	tests := []struct {
		name    string
		request func() *http.Request
		want    string
	}{
		{
			name: "plain request defaults to http",
			request: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/", nil)
			},
			want: "http",
		},
		{
			name: "absolute form carries its scheme",
			request: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "https://example.com/", nil)
			},
			want: "https",
		},
		{
			name: "tls connection implies https",
			request: func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.TLS = &tls.ConnectionState{}
				return req
			},
			want: "https",
		},
		{
			name: "forwarded proto outranks the url scheme",
			request: func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "https://example.com/", nil)
				req.Header.Set("X-Forwarded-Proto", "http")
				return req
			},
			want: "http",
		},
		{
			name: "forwarded proto is folded to lowercase",
			request: func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.Header.Set("X-Forwarded-Proto", "HTTPS")
				return req
			},
			want: "https",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, requestScheme(tc.request()))
		})
	}
}

func TestRequestURIPath(t *testing.T) {
	t.Run("prefers the raw encoded form", func(t *testing.T) {
		u := &url.URL{Path: "/foo/bar", RawPath: "/foo%2Fbar"}
		assert.Equal(t, "/foo%2Fbar", requestURIPath(u))
	})

	t.Run("falls back to the decoded path", func(t *testing.T) {
		u := &url.URL{Path: "/foo/bar"}
		assert.Equal(t, "/foo/bar", requestURIPath(u))
	})
}

func TestAllowedMethods(t *testing.T) {
	newTestRouter := func() *Router {
		r := NewRouter()
		r.HandleFunc("/users", noopHandler).Methods(http.MethodGet, http.MethodPost)
		r.HandleFunc("/orders", noopHandler).Methods(http.MethodDelete)
		return r
	}

	t.Run("collects methods the path accepts", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/users", nil)
		assert.Equal(t, []string{http.MethodGet, http.MethodPost}, allowedMethods(newTestRouter(), req))
	})

	t.Run("the request method itself is excluded", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		assert.Equal(t, []string{http.MethodPost}, allowedMethods(newTestRouter(), req))
	})

	t.Run("an unknown path allows nothing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/missing", nil)
		assert.Empty(t, allowedMethods(newTestRouter(), req))
	})

	t.Run("the result is sorted", func(t *testing.T) {
		r := NewRouter()
		r.HandleFunc("/multi", noopHandler).Methods(http.MethodPost, http.MethodGet, http.MethodDelete)
		req := httptest.NewRequest(http.MethodPut, "/multi", nil)
		assert.Equal(t, []string{http.MethodDelete, http.MethodGet, http.MethodPost}, allowedMethods(r, req))
	})
}

func TestMethodNotAllowedHandler(t *testing.T) {
	w := httptest.NewRecorder()
	methodNotAllowedHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Empty(t, w.Body.String())
}

// --- Benchmarks ---

func BenchmarkCleanPath(b *testing.B) {
	paths := []string{
		"/",
		"/users/42",
		"/users/../orders",
		"/a/./b//c/",
		"/x/y/z/../../deep/path",
	}
	b.ResetTimer()
	for b.Loop() {
		for _, p := range paths {
			cleanPath(p)
		}
	}
}

func BenchmarkMatchInArray(b *testing.B) {
	arr := []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	b.ResetTimer()
	for b.Loop() {
		matchInArray(arr, "OPTIONS")
	}
}

func BenchmarkMatchMapWithString(b *testing.B) {
	toCheck := map[string]string{
		"Content-Type":  "application/json",
		"Accept":        "application/json",
		"Authorization": "Bearer token",
	}
	toMatch := map[string][]string{
		"Content-Type":  {"application/json"},
		"Accept":        {"text/html", "application/json"},
		"Authorization": {"Bearer token"},
	}
	b.ResetTimer()
	for b.Loop() {
		matchMapWithString(toCheck, toMatch, true)
	}
}

func BenchmarkMatchMapWithRegex(b *testing.B) {
	m, err := mapFromPairsToRegex("Content-Type", "^application/.*$", "Accept", "json")
	if err != nil {
		b.Fatal(err)
	}
	toMatch := map[string][]string{
		"Content-Type": {"application/json"},
		"Accept":       {"text/html", "application/json"},
	}
	b.ResetTimer()
	for b.Loop() {
		matchMapWithRegex(m, toMatch, false)
	}
}

// --- Fuzz ---

func FuzzCleanPath(f *testing.F) {
	f.Add("")
	f.Add("/")
	f.Add("/users/42")
	f.Add("/users/../orders")
	f.Add("/a/./b//c/")
	f.Add("no-leading-slash")
	f.Add("/../..//../x")

	f.Fuzz(func(t *testing.T, path string) {
		got := cleanPath(path)
		require.NotEmpty(t, got)
		assert.True(t, strings.HasPrefix(got, "/"))
		assert.Equal(t, got, cleanPath(got))
	})
}
