package api

import "github.com/librarysites/librarysites-server/internal/service"

// Services groups the business services used by the API server.
type Services struct {
	Auth       *service.AuthService
	Sessions   *service.SessionService
	Subdomains *service.SubdomainService
	Libraries  *service.LibraryService
}

// Options holds HTTP-level settings.
type Options struct {
	// Production marks session cookies Secure and restricts the debug
	// endpoints to admin sessions.
	Production bool
	// CORSAllowedOrigins lists dashboard origins allowed to call /api.
	CORSAllowedOrigins []string
	// RootDomain is the platform domain as configured, port included.
	RootDomain string
	// DefaultProductID is echoed by the root site summary.
	DefaultProductID string
}
