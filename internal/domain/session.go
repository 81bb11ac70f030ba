package domain

import "time"

// SessionTTL is how long a dashboard login stays valid.
const SessionTTL = 7 * 24 * time.Hour

// SessionRecord is the server-side state behind the opaque session cookie.
type SessionRecord struct {
	ID        string    `json:"id,omitempty"`
	Email     string    `json:"email"`
	Subdomain string    `json:"subdomain,omitempty"`
	IsAdmin   bool      `json:"isAdmin"`
	LoginTime Timestamp `json:"loginTime"`
	ExpiresAt Timestamp `json:"expiresAt"`
}

// IsExpired reports whether the session has passed its expiry. Records
// written without an expiry rely on the store's TTL alone.
func (s *SessionRecord) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt.Time)
}
