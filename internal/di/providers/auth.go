package providers

import (
	"github.com/samber/do/v2"

	"github.com/librarysites/librarysites-server/internal/auth"
	"github.com/librarysites/librarysites-server/internal/config"
	"github.com/librarysites/librarysites-server/internal/logger"
	"github.com/librarysites/librarysites-server/internal/ratelimit"
	"github.com/librarysites/librarysites-server/internal/validation"
)

// ProvideCredentialVerifier provides the dashboard credential check. Without
// configured admin credentials every login is rejected.
func ProvideCredentialVerifier(i do.Injector) (auth.CredentialVerifier, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Auth.AdminEmail == "" || cfg.Auth.AdminPassword == "" {
		log.Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, dashboard login disabled")
		return auth.DenyAllVerifier{}, nil
	}

	v, err := auth.NewStaticVerifier(cfg.Auth.AdminEmail, cfg.Auth.AdminPassword)
	if err != nil {
		return nil, err
	}

	log.Info("Admin credentials loaded",
		"admin_email", v.Email(),
		"session_duration", cfg.Auth.SessionDuration,
	)

	return v, nil
}

// LoginLimiterHandle wraps the per-IP login limiter with shutdown capability.
type LoginLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *LoginLimiterHandle) Shutdown() error {
	return h.KeyedRateLimiter.Shutdown()
}

// ProvideLoginLimiter provides the per-IP login attempt limiter.
func ProvideLoginLimiter(i do.Injector) (*LoginLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	limiter := ratelimit.PerMinute(cfg.Auth.LoginRatePerMinute, ratelimit.DefaultIdleTTL)
	return &LoginLimiterHandle{KeyedRateLimiter: limiter}, nil
}

// ProvideValidator provides the shared request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}
