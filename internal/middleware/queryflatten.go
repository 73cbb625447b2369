package middleware

import (
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

// NormalizeQuery rewrites bracketed-list query parameters into the flat
// repeated-key form the rest of the pipeline binds against, so that
// ?range=[0,9]&sort=["id","ASC"] and ?range=0&range=9&sort=id&sort=ASC
// are the same request. Already-flat input passes through unchanged.
// It runs before any guard or handler touches the query string.
func NormalizeQuery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()
			if r.URL.RawQuery != "" {
				r.URL.RawQuery = flattenQuery(r.URL.RawQuery)
			}
			return next(c)
		}
	}
}

// flattenQuery strips brackets and quoting from each value, splits on
// commas and re-encodes as repeated keys, preserving parameter order.
func flattenQuery(raw string) string {
	var b strings.Builder
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, val, _ := strings.Cut(pair, "=")
		k := unescape(key)
		v := strings.Trim(unescape(val), "[]")
		for _, entry := range strings.Split(v, ",") {
			entry = strings.Trim(entry, `"`)
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(entry))
		}
	}
	return b.String()
}

// unescape decodes a query component, falling back to the raw text when
// the encoding is broken rather than dropping the parameter.
func unescape(s string) string {
	if out, err := url.QueryUnescape(s); err == nil {
		return out
	}
	return s
}
