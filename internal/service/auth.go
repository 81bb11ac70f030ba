package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/librarysites/librarysites-server/internal/auth"
	"github.com/librarysites/librarysites-server/internal/domain"
	domainerrors "github.com/librarysites/librarysites-server/internal/errors"
	"github.com/librarysites/librarysites-server/internal/ratelimit"
	"github.com/librarysites/librarysites-server/internal/validation"
)

// AuthService checks dashboard credentials and opens sessions.
type AuthService struct {
	verifier   auth.CredentialVerifier
	sessions   *SessionService
	limiter    *ratelimit.KeyedRateLimiter
	validator  *validation.Validator
	adminEmail string
	logger     *slog.Logger
}

// NewAuthService creates an authentication service. Logins from adminEmail
// get an admin session. limiter may be nil to disable rate limiting.
func NewAuthService(
	verifier auth.CredentialVerifier,
	sessions *SessionService,
	limiter *ratelimit.KeyedRateLimiter,
	validator *validation.Validator,
	adminEmail string,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		verifier:   verifier,
		sessions:   sessions,
		limiter:    limiter,
		validator:  validator,
		adminEmail: strings.ToLower(strings.TrimSpace(adminEmail)),
		logger:     logger,
	}
}

// LoginRequest contains dashboard credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=1024"`
	ClientIP string `json:"-"` // Extracted from request by handler
}

// VerifyCredentials reports whether the pair may log in.
func (s *AuthService) VerifyCredentials(ctx context.Context, email, password string) bool {
	return s.verifier.Verify(ctx, email, password)
}

// Login verifies the credentials and opens a session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*domain.SessionRecord, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if s.limiter != nil && req.ClientIP != "" && !s.limiter.Allow(req.ClientIP) {
		s.logger.Warn("login rate limited", "client_ip", req.ClientIP)
		return nil, domainerrors.RateLimited("Too many login attempts. Please try again later.")
	}

	if !s.VerifyCredentials(ctx, req.Email, req.Password) {
		s.logger.Info("login failed", "email", req.Email, "client_ip", req.ClientIP)
		return nil, domainerrors.InvalidCredentials("Invalid email or password")
	}

	if s.limiter != nil && req.ClientIP != "" {
		s.limiter.Reset(req.ClientIP)
	}

	isAdmin := s.adminEmail != "" && strings.EqualFold(strings.TrimSpace(req.Email), s.adminEmail)

	sess, err := s.sessions.CreateSession(ctx, req.Email, "", isAdmin)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "Could not start a session")
	}
	return sess, nil
}

// Logout revokes the session with the given ID. Unknown IDs are ignored.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.DeleteSession(ctx, sessionID)
}
