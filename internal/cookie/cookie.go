// Package cookie implements the session-cookie codec: parsing a raw Cookie
// header and assembling Set-Cookie header values, including the expired
// variant used for logout.
package cookie

import (
	"net/url"
	"strconv"
	"strings"
)

// expiredStamp is a fixed past expiry that forces browser-side deletion
// regardless of the cookie's original Max-Age.
const expiredStamp = "Thu, 01 Jan 1970 00:00:00 GMT"

// Options controls the attributes appended to a Set-Cookie value.
type Options struct {
	Path     string
	Domain   string
	SameSite string
	MaxAge   int // seconds; 0 omits the attribute
	HTTPOnly bool
	Secure   bool
}

// DefaultOptions returns the attribute defaults: Path=/, HttpOnly,
// SameSite=None, Secure. SameSite=None requires Secure, so the defaults are
// safe for cross-site use as-is.
func DefaultOptions() Options {
	return Options{
		Path:     "/",
		SameSite: "None",
		HTTPOnly: true,
		Secure:   true,
	}
}

// Parse splits a Cookie header into a name→value map. Values are
// URL-decoded; entries without a "=" are skipped. An empty header yields an
// empty map.
func Parse(header string) map[string]string {
	cookies := make(map[string]string)
	if header == "" {
		return cookies
	}
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		name, value, ok := strings.Cut(part, "=")
		if !ok || name == "" {
			continue
		}
		if decoded, err := url.QueryUnescape(value); err == nil {
			value = decoded
		}
		cookies[name] = value
	}
	return cookies
}

// Get returns the named cookie's value from a Cookie header, or "" when
// absent.
func Get(header, name string) string {
	return Parse(header)[name]
}

// Build assembles a Set-Cookie header value. Attribute order is fixed:
// Path, HttpOnly, SameSite, Secure, Domain, Max-Age.
func Build(name, value string, opts Options) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteString("=")
	b.WriteString(url.QueryEscape(value))
	writeAttributes(&b, opts, true)
	return b.String()
}

// BuildExpired assembles a Set-Cookie value that deletes the named cookie:
// empty value, same attributes minus Max-Age, and a fixed 1970 expiry.
func BuildExpired(name string, opts Options) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteString("=")
	writeAttributes(&b, opts, false)
	b.WriteString("; Expires=")
	b.WriteString(expiredStamp)
	return b.String()
}

func writeAttributes(b *strings.Builder, opts Options, includeMaxAge bool) {
	path := opts.Path
	if path == "" {
		path = "/"
	}
	b.WriteString("; Path=")
	b.WriteString(path)

	if opts.HTTPOnly {
		b.WriteString("; HttpOnly")
	}

	sameSite := opts.SameSite
	if sameSite == "" {
		sameSite = "None"
	}
	b.WriteString("; SameSite=")
	b.WriteString(sameSite)

	if opts.Secure {
		b.WriteString("; Secure")
	}

	if opts.Domain != "" {
		b.WriteString("; Domain=")
		b.WriteString(opts.Domain)
	}

	if includeMaxAge && opts.MaxAge > 0 {
		b.WriteString("; Max-Age=")
		b.WriteString(strconv.Itoa(opts.MaxAge))
	}
}
