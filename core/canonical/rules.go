// Package canonical — URL rules.
// Decides which pages may be read and which destinations are safe to cite.
package canonical

import (
	"net/url"
	"strings"
)

// restrictedHosts are extension stores whose pages cannot be scripted.
var restrictedHosts = []string{
	"chrome.google.com",
	"chromewebstore.google.com",
	"addons.mozilla.org",
}

// scriptSchemes never become footnote destinations.
var scriptSchemes = map[string]bool{
	"javascript": true,
	"vbscript":   true,
	"data":       true,
}

// IsRestricted reports whether copying from the page at rawURL is refused.
// Only http and https pages are allowed; unparseable URLs are restricted.
func IsRestricted(rawURL string) bool {
	if strings.TrimSpace(rawURL) == "" {
		return true
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return true
	}

	host := strings.ToLower(parsed.Hostname())
	for _, h := range restrictedHosts {
		if host == h {
			return true
		}
	}
	return strings.HasSuffix(host, ".chrome.google.com")
}

// IsScriptURL reports whether rawURL uses a scripting scheme.
func IsScriptURL(rawURL string) bool {
	scheme, _, ok := strings.Cut(strings.TrimSpace(rawURL), ":")
	if !ok {
		return false
	}
	return scriptSchemes[strings.ToLower(scheme)]
}
