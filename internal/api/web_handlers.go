package api

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/librarysites/librarysites-server/internal/domain"
	domainerrors "github.com/librarysites/librarysites-server/internal/errors"
	"github.com/librarysites/librarysites-server/internal/hostname"
	"github.com/librarysites/librarysites-server/internal/http/response"
	"github.com/librarysites/librarysites-server/internal/logger"
	"github.com/librarysites/librarysites-server/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// siteSection is an optional page of a tenant site.
type siteSection struct {
	Slug  string
	Title string
}

// siteSections in navigation order.
var siteSections = []siteSection{
	{"about", "About"},
	{"gallery", "Gallery"},
	{"shifts", "Shifts"},
	{"facilities", "Facilities"},
	{"testimonials", "Testimonials"},
	{"faqs", "FAQ"},
	{"contact", "Contact"},
}

func (s *Server) registerWebRoutes() {
	s.router.Get("/", s.handleRoot)
	s.router.Get("/login", s.handleLoginPage)
	s.router.Get("/dashboard", s.handleDashboard)
	s.router.Get(hostname.TenantPrefix+"/{subdomain}", s.handleTenantSite)
	s.router.Get(hostname.TenantPrefix+"/{subdomain}/*", s.handleTenantSite)
}

// rootSummary is the root site's JSON landing document.
type rootSummary struct {
	Name             string              `json:"name"`
	RootDomain       string              `json:"rootDomain"`
	DefaultProductID string              `json:"defaultProductId,omitempty"`
	Host             hostname.Resolution `json:"host"`
	Authenticated    bool                `json:"authenticated"`
	Links            map[string]string   `json:"links"`
}

// handleRoot serves the platform's own landing document.
// GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	res := ResolutionFromContext(r.Context())
	if res.Kind == "" {
		res = hostname.Resolution{Hostname: hostname.Normalize(r.Host), Kind: hostname.KindRoot}
	}

	response.Success(w, rootSummary{
		Name:             "LibrarySites",
		RootDomain:       s.opts.RootDomain,
		DefaultProductID: s.opts.DefaultProductID,
		Host:             res,
		Authenticated:    SessionFromContext(r.Context()) != nil,
		Links: map[string]string{
			"login":     "/login",
			"dashboard": "/dashboard",
			"search":    "/api/libraries/search",
			"docs":      "/api/docs",
		},
	}, logger.FromContext(r.Context(), s.logger))
}

// handleLoginPage serves the sign-in form, or sends signed-in users on to
// the dashboard.
// GET /login
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if SessionFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "login.html", nil)
}

type dashboardView struct {
	Email        string
	IsAdmin      bool
	Subdomains   []domain.SubdomainSummary
	TenantPrefix string
}

// handleDashboard lists the caller's tenants.
// GET /dashboard
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := SessionFromContext(ctx)
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	subs, err := s.services.Subdomains.ListSubdomains(ctx, sess)
	if err != nil {
		response.HandleError(w, err, logger.FromContext(ctx, s.logger))
		return
	}

	w.Header().Set("Cache-Control", CacheNoStore)
	s.render(w, r, http.StatusOK, "dashboard.html", dashboardView{
		Email:        sess.Email,
		IsAdmin:      sess.IsAdmin,
		Subdomains:   subs,
		TenantPrefix: hostname.TenantPrefix,
	})
}

type siteView struct {
	Subdomain       string
	Name            string
	Title           string
	Emoji           string
	MetaDescription string
	Keywords        string
	OGImage         string
	CanonicalURL    string
	BasePath        string
	HomePath        string
	Page            string
	Sections        []siteSection
	HasDetails      bool
	Details         *domain.LibraryDetails
	AboutParagraphs []string
}

// sitePayload is the ?format=json rendering of a tenant page.
type sitePayload struct {
	*service.Site
	Page         string              `json:"page"`
	Sections     []string            `json:"sections"`
	CanonicalURL string              `json:"canonicalUrl"`
	Host         hostname.Resolution `json:"host"`
}

// handleTenantSite renders a tenant's public site. Tenant hosts reach it
// through the host rewrite; the root host can address it directly.
// GET /s/{subdomain} and /s/{subdomain}/*
func (s *Server) handleTenantSite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx, s.logger)
	wantJSON := r.URL.Query().Get("format") == "json"
	page := strings.Trim(chi.URLParam(r, "*"), "/")

	site, err := s.services.Libraries.GetSite(ctx, chi.URLParam(r, "subdomain"))
	if err != nil {
		s.siteError(w, r, err, wantJSON)
		return
	}
	log = (&logger.Logger{Logger: log}).WithTenant(site.Subdomain).Logger

	sections := availableSections(site.Details)
	if page != "" && !containsSection(sections, page) {
		s.siteError(w, r, domainerrors.NotFoundf("%s has no %s page", site.Subdomain, page), wantJSON)
		return
	}

	res := ResolutionFromContext(ctx)
	canonical := s.canonicalURL(r, site, page)

	w.Header().Set("Cache-Control", CacheTenantPage)
	if wantJSON {
		slugs := make([]string, len(sections))
		for i, sec := range sections {
			slugs[i] = sec.Slug
		}
		response.Success(w, sitePayload{
			Site:         site,
			Page:         page,
			Sections:     slugs,
			CanonicalURL: canonical,
			Host:         res,
		}, log)
		return
	}

	view := siteView{
		Subdomain:       site.Subdomain,
		Name:            site.Subdomain,
		Emoji:           site.Record.Emoji,
		MetaDescription: site.MetaDescription,
		CanonicalURL:    canonical,
		BasePath:        hostname.TenantPrefix + "/" + site.Subdomain,
		Page:            page,
		Sections:        sections,
		HasDetails:      site.Details != nil,
		Details:         site.Details,
	}
	if res.IsTenant() {
		// Links stay on the tenant's own host.
		view.BasePath = ""
	}
	if view.Emoji == "" {
		view.Emoji = domain.DefaultEmoji
	}
	if d := site.Details; d != nil {
		if d.Name != "" {
			view.Name = d.Name
		}
		view.Keywords = strings.Join(d.SEO.Keywords, ", ")
		view.OGImage = d.SEO.OGImage
		if page == "about" {
			view.AboutParagraphs = service.PlainParagraphs(d.About)
		}
	} else {
		view.Details = &domain.LibraryDetails{}
	}
	view.Title = view.Name
	if site.Details != nil && site.Details.SEO.Title != "" {
		view.Title = site.Details.SEO.Title
	}
	view.HomePath = view.BasePath
	if view.HomePath == "" {
		view.HomePath = "/"
	}

	s.render(w, r, http.StatusOK, "site.html", view)
}

// siteError renders a tenant lookup failure as JSON or as the not-found page.
func (s *Server) siteError(w http.ResponseWriter, r *http.Request, err error, wantJSON bool) {
	log := logger.FromContext(r.Context(), s.logger)
	if wantJSON || !errors.Is(err, domainerrors.ErrNotFound) {
		response.HandleError(w, err, log)
		return
	}

	var domainErr *domainerrors.Error
	msg := "This library does not exist."
	if errors.As(err, &domainErr) {
		msg = domainErr.Message
	}
	s.render(w, r, http.StatusNotFound, "notfound.html", map[string]string{
		"Message": msg,
		"HomeURL": requestScheme(r) + "://" + s.rootHost(),
	})
}

// availableSections lists the sections with content to show.
func availableSections(d *domain.LibraryDetails) []siteSection {
	if d == nil {
		return nil
	}
	has := map[string]bool{
		"about":        strings.TrimSpace(d.About) != "",
		"gallery":      len(d.Gallery) > 0,
		"shifts":       len(d.Shifts) > 0,
		"facilities":   len(d.Facilities) > 0,
		"testimonials": len(d.Testimonials) > 0,
		"faqs":         len(d.FAQs) > 0,
		"contact":      d.Email != "" || d.Phone != "" || d.Website != "" || d.Address != "",
	}
	out := make([]siteSection, 0, len(siteSections))
	for _, sec := range siteSections {
		if has[sec.Slug] {
			out = append(out, sec)
		}
	}
	return out
}

func containsSection(sections []siteSection, slug string) bool {
	for _, sec := range sections {
		if sec.Slug == slug {
			return true
		}
	}
	return false
}

// canonicalURL prefers the library's custom domain over its subdomain.
func (s *Server) canonicalURL(r *http.Request, site *service.Site, page string) string {
	var base string
	if site.Details != nil && site.Details.CustomDomain != "" {
		base = "https://" + site.Details.CustomDomain
	} else {
		base = requestScheme(r) + "://" + site.Subdomain + "." + s.rootHost()
	}
	if page == "" {
		return base + "/"
	}
	return base + "/" + page
}

func (s *Server) rootHost() string {
	if s.opts.RootDomain != "" {
		return strings.ToLower(s.opts.RootDomain)
	}
	if s.resolver != nil {
		return s.resolver.RootDomain()
	}
	return "localhost"
}

// requestScheme honours X-Forwarded-Proto from a reverse proxy.
func requestScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	return "http"
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		logger.FromContext(r.Context(), s.logger).Error("failed to render page", "template", name, "error", err)
	}
}
