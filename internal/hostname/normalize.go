package hostname

import (
	"net"
	"strings"

	"golang.org/x/net/idna"
)

// StripPort removes a trailing ":port" from host, leaving bracketed IPv6
// literals intact.
func StripPort(host string) string {
	if host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	// No port, or a malformed value: fall back to cutting at the last colon
	// unless it belongs to an IPv6 literal.
	if strings.HasPrefix(host, "[") {
		return strings.Trim(host, "[]")
	}
	if i := strings.LastIndexByte(host, ':'); i >= 0 && strings.Count(host, ":") == 1 {
		return host[:i]
	}
	return host
}

// Normalize lowercases host, strips its port and any trailing dot.
func Normalize(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	host = StripPort(host)
	return strings.TrimSuffix(host, ".")
}

// NormalizeDomain canonicalises a custom domain for use as a mapping key:
// trimmed, lowercased, without port or trailing dot, and converted to its
// ASCII (punycode) form when it is an internationalised name.
func NormalizeDomain(domain string) string {
	d := Normalize(domain)
	if d == "" {
		return ""
	}
	if ascii, err := idna.Lookup.ToASCII(d); err == nil && ascii != "" {
		return ascii
	}
	return d
}
