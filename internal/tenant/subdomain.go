package tenant

import (
	"errors"
	"strings"
)

// ErrInvalidSubdomain is returned when user input is not already canonical.
var ErrInvalidSubdomain = errors.New("subdomain can only have lowercase letters, numbers, and hyphens")

// SanitizeSubdomain lowercases s and strips every character outside [a-z0-9-].
// The result is a fixed point: sanitizing it again changes nothing.
func SanitizeSubdomain(s string) string {
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// ValidateSubdomain rejects input that sanitizing would change. Creation
// never silently corrects a name the user typed.
func ValidateSubdomain(raw string) error {
	if raw == "" || SanitizeSubdomain(raw) != raw {
		return ErrInvalidSubdomain
	}
	return nil
}
