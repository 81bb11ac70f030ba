// Package hostname classifies inbound request hosts against the platform's
// root domain and maps tenant requests onto the tenant route namespace.
package hostname

import (
	"context"
	"log/slog"
	"strings"

	"github.com/librarysites/librarysites-server/internal/tenant"
)

// TenantPrefix is the route namespace that serves per-subdomain pages.
const TenantPrefix = "/s"

// DefaultPreviewSuffixes are the deployment-preview hosts recognised when
// none are configured.
var DefaultPreviewSuffixes = []string{"vercel.app"}

// Kind describes how a hostname was classified.
type Kind string

// Hostname classifications.
const (
	KindRoot         Kind = "root"
	KindSubdomain    Kind = "subdomain"
	KindCustomDomain Kind = "custom_domain"
	KindPreview      Kind = "preview"
)

// CustomDomainLookup maps a custom domain to the subdomain it serves.
// An empty result with a nil error means "no mapping".
type CustomDomainLookup interface {
	GetSubdomainFromCustomDomain(ctx context.Context, domain string) (string, error)
}

// Resolution is the outcome of classifying a host.
type Resolution struct {
	Hostname  string `json:"hostname"`
	Subdomain string `json:"subdomain,omitempty"`
	Kind      Kind   `json:"kind"`
}

// IsTenant reports whether the host resolved to a tenant.
func (r Resolution) IsTenant() bool {
	return r.Subdomain != ""
}

// Resolver classifies hosts. The zero value is not usable; use NewResolver.
type Resolver struct {
	rootDomain      string
	rootFirstLabel  string
	previewSuffixes []string
	lookup          CustomDomainLookup
	logger          *slog.Logger
}

// NewResolver creates a Resolver for rootDomain (which may carry a port, as
// in "localhost:3000"). lookup may be nil to disable custom domains.
func NewResolver(rootDomain string, previewSuffixes []string, lookup CustomDomainLookup, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if len(previewSuffixes) == 0 {
		previewSuffixes = DefaultPreviewSuffixes
	}

	root := Normalize(rootDomain)
	first, _, _ := strings.Cut(root, ".")

	suffixes := make([]string, 0, len(previewSuffixes))
	for _, s := range previewSuffixes {
		if s = strings.Trim(strings.ToLower(strings.TrimSpace(s)), "."); s != "" {
			suffixes = append(suffixes, s)
		}
	}

	return &Resolver{
		rootDomain:      root,
		rootFirstLabel:  first,
		previewSuffixes: suffixes,
		lookup:          lookup,
		logger:          logger,
	}
}

// RootDomain returns the normalised root domain.
func (r *Resolver) RootDomain() string {
	return r.rootDomain
}

// Resolve classifies host. It never fails: a lookup error is logged and
// structural detection still runs.
func (r *Resolver) Resolve(ctx context.Context, host string) Resolution {
	h := Normalize(host)
	res := Resolution{Hostname: h, Kind: KindRoot}
	if h == "" {
		return res
	}

	if r.lookup != nil && r.isCustomDomainCandidate(h) {
		sub, err := r.lookup.GetSubdomainFromCustomDomain(ctx, h)
		if err != nil {
			r.logger.Warn("custom domain lookup failed, falling back to subdomain detection",
				"hostname", h,
				"error", err,
			)
		} else if sub != "" {
			res.Subdomain = sub
			res.Kind = KindCustomDomain
			return res
		}
	}

	// A label that is not a canonical subdomain would be sanitized into a
	// different tenant further down, so it addresses nothing.
	if sub, kind := r.structural(h); sub != "" && tenant.SanitizeSubdomain(sub) == sub {
		res.Subdomain = sub
		res.Kind = kind
	}
	return res
}

// isCustomDomainCandidate: anything that is not the root domain and does not
// contain it.
func (r *Resolver) isCustomDomainCandidate(h string) bool {
	if r.rootDomain == "" {
		return true
	}
	return h != r.rootDomain && !strings.Contains(h, r.rootDomain)
}

func (r *Resolver) structural(h string) (string, Kind) {
	// Local development: tenant.localhost
	if h == "localhost" || strings.HasSuffix(h, ".localhost") {
		first, _, _ := strings.Cut(h, ".")
		if first == "localhost" || first == "www" || first == r.rootFirstLabel {
			return "", KindRoot
		}
		return first, KindSubdomain
	}

	if r.isPreviewHost(h) {
		if r.rootDomain != "" && strings.Contains(h, r.rootDomain) {
			return r.generic(h)
		}
		// tenant-project.vercel.app
		first, _, _ := strings.Cut(h, ".")
		if sub, _, found := strings.Cut(first, "-"); found && sub != "" {
			return sub, KindPreview
		}
		return "", KindRoot
	}

	return r.generic(h)
}

func (r *Resolver) isPreviewHost(h string) bool {
	for _, s := range r.previewSuffixes {
		if h == s || strings.HasSuffix(h, "."+s) {
			return true
		}
	}
	return false
}

// generic handles <subdomain>.<root-domain>.
func (r *Resolver) generic(h string) (string, Kind) {
	if r.rootDomain == "" {
		return "", KindRoot
	}

	hostParts := strings.Split(h, ".")
	rootParts := strings.Split(r.rootDomain, ".")
	if len(hostParts) <= len(rootParts) {
		return "", KindRoot
	}
	if strings.Join(hostParts[1:], ".") != r.rootDomain {
		return "", KindRoot
	}
	if hostParts[0] == "www" || hostParts[0] == "" {
		return "", KindRoot
	}
	return hostParts[0], KindSubdomain
}

// RewritePath maps path onto the tenant namespace for subdomain. It reports
// false (and returns path unchanged) when no rewrite applies: no subdomain,
// the path is already tenant-scoped, or it targets the root app's dashboard
// or login pages.
func RewritePath(path, subdomain string) (string, bool) {
	if subdomain == "" || IsExempt(path) {
		return path, false
	}
	prefix := TenantPrefix + "/" + subdomain
	if path == "" || path == "/" {
		return prefix, true
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return prefix + path, true
}

// IsExempt reports whether path always resolves against the root app. The
// tenant namespace matches whole segments; the dashboard and login prefixes
// match any path starting with them.
func IsExempt(path string) bool {
	return hasSegmentPrefix(path, TenantPrefix) ||
		strings.HasPrefix(path, "/dashboard") ||
		strings.HasPrefix(path, "/login")
}

// hasSegmentPrefix matches prefix as a whole leading path segment, so
// "/s" matches "/s/acme" but not "/search".
func hasSegmentPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	rest := path[len(prefix):]
	return rest == "" || rest[0] == '/' || rest[0] == '?'
}
