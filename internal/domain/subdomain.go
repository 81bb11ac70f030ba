package domain

// DefaultEmoji is shown for subdomains whose record carries no icon.
const DefaultEmoji = "❓"

// SubdomainRecord is a registered tenant. The Subdomain key is immutable once
// created; deleting the record is the only way to free the name.
type SubdomainRecord struct {
	Subdomain      string    `json:"subdomain,omitempty"`
	Emoji          string    `json:"emoji"`
	CreatedAt      Timestamp `json:"createdAt"`
	OwnerEmail     string    `json:"ownerEmail,omitempty"`
	OwnerSubdomain string    `json:"ownerSubdomain,omitempty"`
}

// SubdomainSummary is the listing shape used by the dashboard.
type SubdomainSummary struct {
	Subdomain string    `json:"subdomain"`
	Emoji     string    `json:"emoji"`
	CreatedAt Timestamp `json:"createdAt"`
}

// Summary projects the record into its listing shape, applying the defaults
// for records written without an icon or creation time.
func (r *SubdomainRecord) Summary(subdomain string) SubdomainSummary {
	s := SubdomainSummary{
		Subdomain: subdomain,
		Emoji:     r.Emoji,
		CreatedAt: r.CreatedAt,
	}
	if s.Emoji == "" {
		s.Emoji = DefaultEmoji
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = Now()
	}
	return s
}

// CustomDomainMapping points an externally owned domain at a subdomain.
type CustomDomainMapping struct {
	Domain    string `json:"domain"`
	Subdomain string `json:"subdomain"`
}
