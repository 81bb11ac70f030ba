package providers

import (
	"github.com/samber/do/v2"

	"github.com/librarysites/librarysites-server/internal/auth"
	"github.com/librarysites/librarysites-server/internal/config"
	"github.com/librarysites/librarysites-server/internal/logger"
	"github.com/librarysites/librarysites-server/internal/service"
	"github.com/librarysites/librarysites-server/internal/validation"
)

// ProvideSessionService provides the session service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, cfg.Auth.SessionDuration, log.WithComponent("sessions").Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	verifier := do.MustInvoke[auth.CredentialVerifier](i)
	sessions := do.MustInvoke[*service.SessionService](i)
	limiter := do.MustInvoke[*LoginLimiterHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(
		verifier,
		sessions,
		limiter.KeyedRateLimiter,
		validator,
		cfg.Auth.AdminEmail,
		log.WithComponent("auth").Logger,
	), nil
}

// ProvideSubdomainService provides the tenant lifecycle service.
func ProvideSubdomainService(i do.Injector) (*service.SubdomainService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sessions := do.MustInvoke[*service.SessionService](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSubdomainService(storeHandle.Store, sessions, indexHandle.Index, log.WithComponent("subdomains").Logger), nil
}

// ProvideLibraryService provides the library content service.
func ProvideLibraryService(i do.Injector) (*service.LibraryService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sessions := do.MustInvoke[*service.SessionService](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLibraryService(
		storeHandle.Store,
		sessions,
		indexHandle.Index,
		validator,
		cfg.Tenancy.RootDomain,
		log.WithComponent("libraries").Logger,
	), nil
}
