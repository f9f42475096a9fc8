// Package canonical turns hrefs into canonical URLs.
// A canonical URL is absolute (resolved against the page it came from) and
// carries no tracking parameters. It is the deduplication key for footnotes.
package canonical

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/gaurav-prasanna/copymd/core"
)

// trackingParams are the query parameters removed by Strip.
var trackingParams = map[string]bool{
	"utm_source":   true,
	"utm_medium":   true,
	"utm_campaign": true,
	"utm_content":  true,
	"utm_term":     true,
	"gclid":        true, // Google click ID
	"fbclid":       true, // Facebook click ID
	"mc_cid":       true, // Mailchimp campaign ID
	"mc_eid":       true, // Mailchimp email ID
	"igshid":       true, // Instagram share ID
}

// defaultPorts are elided when computing an origin.
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// Resolve makes href absolute against base.
// On failure it returns href unchanged together with an error wrapping
// core.ErrUnresolvableURL. Opaque references (javascript:, mailto:, tel:)
// cannot be resolved.
func Resolve(href, base string) (string, error) {
	trimmed := strings.TrimSpace(href)
	if trimmed == "" {
		return href, fmt.Errorf("%w: empty href", core.ErrUnresolvableURL)
	}

	ref, err := url.Parse(trimmed)
	if err != nil {
		return href, fmt.Errorf("%w: %v", core.ErrUnresolvableURL, err)
	}
	if ref.Opaque != "" {
		return href, fmt.Errorf("%w: opaque %s: reference", core.ErrUnresolvableURL, ref.Scheme)
	}

	if ref.IsAbs() {
		return normalize(ref).String(), nil
	}

	baseURL, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return href, fmt.Errorf("%w: base %q: %v", core.ErrUnresolvableURL, base, err)
	}
	if !baseURL.IsAbs() || baseURL.Host == "" {
		return href, fmt.Errorf("%w: base %q is not absolute", core.ErrUnresolvableURL, base)
	}

	return normalize(baseURL.ResolveReference(ref)).String(), nil
}

// normalize lowercases scheme and host and gives hierarchical URLs
// a root path, so equivalent spellings compare equal.
func normalize(u *url.URL) *url.URL {
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Host != "" && u.Path == "" && u.RawPath == "" {
		u.Path = "/"
	}
	return u
}

// Strip removes known tracking parameters from u.
// Everything else, including the order and encoding of the remaining
// parameters, is preserved byte for byte. Input that does not parse as a URL
// is returned unchanged. Strip is idempotent.
func Strip(u string) string {
	if !mayCarryTrackers(u) {
		return u
	}
	return stripQuery(u)
}

// mayCarryTrackers is the fast path of Strip. It must only answer false when
// stripQuery would return u unchanged: without a '?' there is no query, and
// without a tracker name or a percent escape no key can decode to one.
func mayCarryTrackers(u string) bool {
	if !strings.Contains(u, "?") {
		return false
	}
	if strings.Contains(u, "%") {
		return true
	}
	for name := range trackingParams {
		if strings.Contains(u, name) {
			return true
		}
	}
	return false
}

// stripQuery is the full-parse implementation of Strip.
func stripQuery(u string) string {
	if _, err := url.Parse(u); err != nil {
		return u
	}

	q := strings.IndexByte(u, '?')
	hash := strings.IndexByte(u, '#')
	if q < 0 || (hash >= 0 && hash < q) {
		return u
	}

	end := len(u)
	if hash >= 0 {
		end = hash
	}

	params := strings.Split(u[q+1:end], "&")
	kept := make([]string, 0, len(params))
	removed := false
	for _, p := range params {
		if isTracker(p) {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	if !removed {
		return u
	}

	// Once something was dropped, empty segments ("a=1&&b=2") go too.
	query := kept[:0]
	for _, p := range kept {
		if p != "" {
			query = append(query, p)
		}
	}

	var b strings.Builder
	b.WriteString(u[:q])
	if len(query) > 0 {
		b.WriteByte('?')
		b.WriteString(strings.Join(query, "&"))
	}
	b.WriteString(u[end:])
	return b.String()
}

// isTracker reports whether a raw "key=value" segment names a tracking parameter.
func isTracker(param string) bool {
	key, _, _ := strings.Cut(param, "=")
	if decoded, err := url.QueryUnescape(key); err == nil {
		key = decoded
	}
	return trackingParams[key]
}

// Canonicalize resolves href against base and strips tracking parameters.
// Unresolvable hrefs are stripped as-is.
func Canonicalize(href, base string) string {
	resolved, err := Resolve(href, base)
	if err != nil {
		resolved = href
	}
	return Strip(resolved)
}

// destinationEscaper percent-encodes the characters that would end the
// (url) part of a Markdown link early.
var destinationEscaper = strings.NewReplacer(
	" ", "%20",
	"(", "%28",
	")", "%29",
	"<", "%3C",
	">", "%3E",
)

// EscapeDestination makes u safe to write as a Markdown link destination.
func EscapeDestination(u string) string {
	return destinationEscaper.Replace(u)
}

// Origin returns the lowercase scheme://host[:port] of u, with default
// ports elided. The second result is false for URLs without a host.
func Origin(u string) (string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(u))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}

	scheme := strings.ToLower(parsed.Scheme)
	host := strings.ToLower(parsed.Hostname())
	port := parsed.Port()
	if port == defaultPorts[scheme] {
		port = ""
	}
	switch {
	case port != "":
		host = net.JoinHostPort(host, port)
	case strings.Contains(host, ":"):
		host = "[" + host + "]"
	}
	return scheme + "://" + host, true
}

// SameOrigin reports whether a and b share an origin.
func SameOrigin(a, b string) bool {
	oa, ok := Origin(a)
	if !ok {
		return false
	}
	ob, ok := Origin(b)
	return ok && oa == ob
}

// Hostname returns the lowercase host of u without port, or "" if u has none.
func Hostname(u string) string {
	parsed, err := url.Parse(strings.TrimSpace(u))
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}
