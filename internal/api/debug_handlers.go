package api

import (
	"net/http"

	"github.com/librarysites/librarysites-server/internal/domain"
	"github.com/librarysites/librarysites-server/internal/hostname"
	"github.com/librarysites/librarysites-server/internal/http/response"
	"github.com/librarysites/librarysites-server/internal/logger"
)

func (s *Server) registerDebugRoutes() {
	s.router.Get("/api/debug/custom-domains", s.handleDebugCustomDomains)
}

// customDomainDebug is the payload of the custom domain diagnostic.
type customDomainDebug struct {
	Mappings []domain.CustomDomainMapping `json:"mappings"`
	// Lookup is set when the domain query parameter was given.
	Lookup *customDomainLookup `json:"lookup,omitempty"`
	// Resolution is set when the hostname query parameter was given.
	Resolution *hostname.Resolution `json:"resolution,omitempty"`
}

type customDomainLookup struct {
	Domain    string `json:"domain"`
	Subdomain string `json:"subdomain"`
	Found     bool   `json:"found"`
}

// handleDebugCustomDomains lists every custom domain mapping and optionally
// tests a lookup (?domain=) and a full host resolution (?hostname=).
// GET /api/debug/custom-domains
func (s *Server) handleDebugCustomDomains(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx, s.logger)

	if s.opts.Production {
		sess := SessionFromContext(ctx)
		if sess == nil || !sess.IsAdmin {
			response.Failed(w, http.StatusForbidden, "Admin access required", log)
			return
		}
	}

	mappings, err := s.store.ListCustomDomains(ctx)
	if err != nil {
		log.Error("debug: listing custom domains failed", "error", err)
		response.Failed(w, http.StatusInternalServerError, err.Error(), log)
		return
	}

	out := customDomainDebug{Mappings: mappings}

	if d := r.URL.Query().Get("domain"); d != "" {
		sub, err := s.store.GetSubdomainFromCustomDomain(ctx, d)
		if err != nil {
			log.Error("debug: custom domain lookup failed", "domain", d, "error", err)
			response.Failed(w, http.StatusInternalServerError, err.Error(), log)
			return
		}
		out.Lookup = &customDomainLookup{
			Domain:    hostname.NormalizeDomain(d),
			Subdomain: sub,
			Found:     sub != "",
		}
	}

	if h := r.URL.Query().Get("hostname"); h != "" && s.resolver != nil {
		res := s.resolver.Resolve(ctx, h)
		out.Resolution = &res
	}

	response.Wrapped(w, out, log)
}
