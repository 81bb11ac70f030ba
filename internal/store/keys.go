package store

import "strings"

// Key prefixes. The layout is shared with every other deployment of the
// platform, so these strings must not change.
const (
	subdomainPrefix    = "subdomain:"
	libraryPrefix      = "library:"
	customDomainPrefix = "customdomain:"
	userPrefix         = "user:"
	userSetSuffix      = ":subdomains"
	sessionPrefix      = "session:"
)

func subdomainKey(sub string) string {
	return subdomainPrefix + sub
}

func libraryKey(sub string) string {
	return libraryPrefix + sub
}

func customDomainKey(domain string) string {
	return customDomainPrefix + domain
}

// userSubdomainsKey builds user:<email>:subdomains. Emails are lowercased so
// ownership checks don't depend on how the address was typed at login.
func userSubdomainsKey(email string) string {
	return userPrefix + normalizeEmail(email) + userSetSuffix
}

func sessionKey(id string) string {
	return sessionPrefix + id
}

// normalizeEmail canonicalises an email address for keys and comparisons.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
