package routefile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/routix/mux"
)

const routesYAML = `
options:
  strictSlash: true
routes:
  - name: user
    path: /users/{id:[0-9]+}
    methods: [GET, PUT]
    handler: user
  - name: api
    host: "{subdomain}.example.com"
    pathPrefix: /api/
    schemes: [https]
    headers:
      - X-Requested-With=XMLHttpRequest
      - Authorization
    queries:
      - version={v:[0-9]+}
    handler: api
  - name: asset
    path: /static/{file}
    buildOnly: true
`

func TestParse(t *testing.T) {
	t.Run("decodes options and entries", func(t *testing.T) {
		f, err := Parse([]byte(routesYAML))
		require.NoError(t, err)

		assert.True(t, f.Options.StrictSlash)
		assert.False(t, f.Options.SkipClean)
		require.Len(t, f.Routes, 3)

		user := f.Routes[0]
		assert.Equal(t, "user", user.Name)
		assert.Equal(t, "/users/{id:[0-9]+}", user.Path)
		assert.Equal(t, []string{"GET", "PUT"}, user.Methods)
		assert.Equal(t, "user", user.Handler)

		api := f.Routes[1]
		assert.Equal(t, "{subdomain}.example.com", api.Host)
		assert.Equal(t, "/api/", api.PathPrefix)
		assert.Equal(t, []string{"https"}, api.Schemes)
		assert.Equal(t, []string{"X-Requested-With=XMLHttpRequest", "Authorization"}, api.Headers)
		assert.Equal(t, []string{"version={v:[0-9]+}"}, api.Queries)

		asset := f.Routes[2]
		assert.True(t, asset.BuildOnly)
		assert.Empty(t, asset.Handler)
	})

	t.Run("empty document", func(t *testing.T) {
		for _, data := range []string{"", "\n\n", "# just a comment\n"} {
			_, err := Parse([]byte(data))
			assert.ErrorIs(t, err, ErrEmptyFile)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		_, err := Parse([]byte(`
routes:
  - name: user
    path: /users
    handlr: user
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "handlr")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("routes: ["))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name:    "entry without a name",
			yaml:    "routes:\n  - path: /users\n    handler: user\n",
			wantErr: ErrMissingName,
		},
		{
			name:    "path and pathPrefix together",
			yaml:    "routes:\n  - name: user\n    path: /users\n    pathPrefix: /users\n    handler: user\n",
			wantErr: ErrAmbiguousPath,
		},
		{
			name:    "no host or path at all",
			yaml:    "routes:\n  - name: user\n    methods: [GET]\n    handler: user\n",
			wantErr: ErrMissingTemplate,
		},
		{
			name:    "dispatching entry without a handler",
			yaml:    "routes:\n  - name: user\n    path: /users\n",
			wantErr: ErrMissingHandler,
		},
		{
			name:    "query without an equals sign",
			yaml:    "routes:\n  - name: user\n    path: /users\n    queries: [version]\n    handler: user\n",
			wantErr: ErrMalformedQuery,
		},
		{
			name:    "duplicate route names",
			yaml:    "routes:\n  - name: user\n    path: /users\n    handler: a\n  - name: user\n    path: /accounts\n    handler: b\n",
			wantErr: mux.ErrDuplicateRouteName,
		},
		{
			name:    "path without leading slash",
			yaml:    "routes:\n  - name: user\n    path: users\n    handler: user\n",
			wantErr: mux.ErrPathMustStartWithSlash,
		},
		{
			name:    "variable repeated across templates",
			yaml:    "routes:\n  - name: user\n    path: /users/{id}\n    queries: [\"id={id}\"]\n    handler: user\n",
			wantErr: mux.ErrDuplicatedRouteVariable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("unbalanced braces", func(t *testing.T) {
		_, err := Parse([]byte("routes:\n  - name: user\n    path: /users/{id\n    handler: user\n"))
		assert.Error(t, err)
	})

	t.Run("host alone is enough", func(t *testing.T) {
		_, err := Parse([]byte("routes:\n  - name: api\n    host: api.example.com\n    handler: api\n"))
		assert.NoError(t, err)
	})

	t.Run("build only entry needs no handler", func(t *testing.T) {
		_, err := Parse([]byte("routes:\n  - name: asset\n    path: /static/{file}\n    buildOnly: true\n"))
		assert.NoError(t, err)
	})

	t.Run("error names the offending route", func(t *testing.T) {
		_, err := Parse([]byte("routes:\n  - name: broken\n    path: users\n    handler: user\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `route "broken"`)
	})
}

func TestEncodeRoundTrip(t *testing.T) {
	original, err := Parse([]byte(routesYAML))
	require.NoError(t, err)

	data, err := original.Encode()
	require.NoError(t, err)

	reparsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, original, reparsed)
}

func TestHeaderPairs(t *testing.T) {
	pairs := headerPairs([]string{"X-Requested-With=XMLHttpRequest", "Authorization"})
	assert.Equal(t, []string{"X-Requested-With", "XMLHttpRequest", "Authorization", ""}, pairs)
}
