package app

import (
	"net/url"
	"strings"
)

// originAllowed reports whether a request origin matches one of the
// configured patterns. Patterns compare against the host[:port] part of the
// origin; "*.example.com" matches any subdomain and "localhost:*" matches
// any port.
func originAllowed(patterns []string, origin string) bool {
	host := origin
	if u, err := url.Parse(origin); err == nil && u.Host != "" {
		host = u.Host
	}
	for _, pattern := range patterns {
		if hostMatchesPattern(pattern, host) {
			return true
		}
	}
	return false
}

func hostMatchesPattern(pattern, host string) bool {
	switch {
	case pattern == host:
		return true
	case strings.HasPrefix(pattern, "*."):
		return strings.HasSuffix(host, pattern[1:])
	case strings.HasSuffix(pattern, ":*"):
		return strings.HasPrefix(host, pattern[:len(pattern)-1])
	}
	return false
}
