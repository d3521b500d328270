package htmlrewrite

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()

	u, err := url.Parse(raw)
	require.NoError(t, err)

	return u
}

func TestIsHTML(t *testing.T) {
	assert.True(t, IsHTML("text/html"))
	assert.True(t, IsHTML("text/html; charset=utf-8"))
	assert.False(t, IsHTML("application/json"))
	assert.False(t, IsHTML("text/plain"))
	assert.False(t, IsHTML(""))
}

func TestRewrite(t *testing.T) {
	base := mustParse(t, "https://origin.example/page/index.html")

	t.Run("non-html passes through", func(t *testing.T) {
		body := []byte(`{"src": "/a.js"}`)

		out, preloads, err := Rewrite(body, "application/json", base)
		require.NoError(t, err)

		assert.Equal(t, body, out)
		assert.Empty(t, preloads)
	})

	t.Run("rewrites root-relative script src", func(t *testing.T) {
		body := []byte(`<html><script src=/a.js></script></html>`)

		out, preloads, err := Rewrite(body, "text/html", base)
		require.NoError(t, err)

		assert.Contains(t, string(out), `src="https://origin.example/a.js"`)
		assert.Equal(t, []string{"https://origin.example/a.js"}, preloads)
	})

	t.Run("rewrites relative img and stylesheet", func(t *testing.T) {
		body := []byte(`<img src="logo.png"><link rel="stylesheet" href="../style.css">`)

		out, preloads, err := Rewrite(body, "text/html", base)
		require.NoError(t, err)

		assert.Contains(t, string(out), `src="https://origin.example/page/logo.png"`)
		assert.Contains(t, string(out), `href="https://origin.example/style.css"`)
		assert.Equal(t, []string{
			"https://origin.example/page/logo.png",
			"https://origin.example/style.css",
		}, preloads)
	})

	t.Run("absolute urls are collected but unchanged", func(t *testing.T) {
		body := []byte(`<script src="https://cdn.example/lib.js"></script>`)

		out, preloads, err := Rewrite(body, "text/html", base)
		require.NoError(t, err)

		assert.Equal(t, string(body), string(out))
		assert.Equal(t, []string{"https://cdn.example/lib.js"}, preloads)
	})

	t.Run("non-subresource links untouched", func(t *testing.T) {
		body := []byte(`<link rel="canonical" href="/page/">`)

		out, preloads, err := Rewrite(body, "text/html", base)
		require.NoError(t, err)

		assert.Equal(t, string(body), string(out))
		assert.Empty(t, preloads)
	})

	t.Run("bytes outside rewritten tags preserved", func(t *testing.T) {
		body := []byte("<!DOCTYPE html>\n<p class=X>text &amp; more</p>\n<script src=/a.js></script>")

		out, _, err := Rewrite(body, "text/html", base)
		require.NoError(t, err)

		assert.Contains(t, string(out), "<!DOCTYPE html>\n<p class=X>text &amp; more</p>\n")
	})

	t.Run("deterministic output", func(t *testing.T) {
		body := []byte(`<script src=/a.js></script><img src=b.png>`)

		one, _, err := Rewrite(body, "text/html", base)
		require.NoError(t, err)

		two, _, err := Rewrite(body, "text/html", base)
		require.NoError(t, err)

		assert.Equal(t, one, two)
	})

	t.Run("malformed subresource url fails whole rewrite", func(t *testing.T) {
		body := []byte(`<p>kept</p><script src="http://%zz/a.js"></script>`)

		out, preloads, err := Rewrite(body, "text/html", base)
		assert.ErrorIs(t, err, ErrRewrite)
		assert.Nil(t, out)
		assert.Nil(t, preloads)
	})

	t.Run("nil base fails", func(t *testing.T) {
		_, _, err := Rewrite([]byte("<html></html>"), "text/html", nil)
		assert.ErrorIs(t, err, ErrRewrite)
	})

	t.Run("script content not scanned for tags", func(t *testing.T) {
		body := []byte(`<script src=/a.js>var s = "<img src=fake.png>";</script>`)

		_, preloads, err := Rewrite(body, "text/html", base)
		require.NoError(t, err)

		assert.Equal(t, []string{"https://origin.example/a.js"}, preloads)
	})
}
