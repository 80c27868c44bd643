package urlutil_test

import (
	"net/url"
	"testing"

	"github.com/rohmanhakim/site-mirror/pkg/urlutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return *u
}

func TestResolve(t *testing.T) {
	base := mustParse(t, "http://example.test/docs/guide/intro.html")

	tests := []struct {
		name     string
		ref      string
		expected string
	}{
		{
			name:     "root relative",
			ref:      "/about.html",
			expected: "http://example.test/about.html",
		},
		{
			name:     "document relative",
			ref:      "setup.html",
			expected: "http://example.test/docs/guide/setup.html",
		},
		{
			name:     "parent directory",
			ref:      "../api/index.html",
			expected: "http://example.test/docs/api/index.html",
		},
		{
			name:     "absolute passes through",
			ref:      "http://other.test/x.png",
			expected: "http://other.test/x.png",
		},
		{
			name:     "scheme relative",
			ref:      "//cdn.example.test/app.js",
			expected: "http://cdn.example.test/app.js",
		},
		{
			name:     "fragment kept",
			ref:      "#section-2",
			expected: "http://example.test/docs/guide/intro.html#section-2",
		},
		{
			name:     "query kept",
			ref:      "?page=2",
			expected: "http://example.test/docs/guide/intro.html?page=2",
		},
		{
			name:     "empty reference is the base",
			ref:      "",
			expected: "http://example.test/docs/guide/intro.html",
		},
		{
			name:     "surrounding whitespace stripped",
			ref:      "  /about.html\n",
			expected: "http://example.test/about.html",
		},
		{
			name:     "case preserved",
			ref:      "/About.HTML",
			expected: "http://example.test/About.HTML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, err := urlutil.Resolve(base, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, resolved.String())
		})
	}
}

func TestResolve_Malformed(t *testing.T) {
	base := mustParse(t, "http://example.test/")

	for _, ref := range []string{"http://[::1", "%zz", "http://exa mple.test/"} {
		t.Run(ref, func(t *testing.T) {
			_, err := urlutil.Resolve(base, ref)
			assert.Error(t, err)
		})
	}
}

func TestResolve_DoesNotMutateBase(t *testing.T) {
	base := mustParse(t, "http://example.test/a/b.html")
	_, err := urlutil.Resolve(base, "../c.html")
	require.NoError(t, err)
	assert.Equal(t, "http://example.test/a/b.html", base.String())
}

func TestParseAbsolute(t *testing.T) {
	u, err := urlutil.ParseAbsolute("https://example.test/start")
	require.NoError(t, err)
	assert.Equal(t, "example.test", u.Host)

	for _, raw := range []string{"example.test/start", "/relative", "http://", "::bad"} {
		t.Run(raw, func(t *testing.T) {
			_, err := urlutil.ParseAbsolute(raw)
			assert.Error(t, err)
		})
	}
}
