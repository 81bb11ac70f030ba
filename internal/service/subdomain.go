package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/librarysites/librarysites-server/internal/domain"
	domainerrors "github.com/librarysites/librarysites-server/internal/errors"
	"github.com/librarysites/librarysites-server/internal/search"
	"github.com/librarysites/librarysites-server/internal/store"
	"github.com/librarysites/librarysites-server/internal/tenant"
)

// User-facing messages shown by the dashboard forms.
const (
	msgLoginRequired    = "You must be logged in to do that"
	msgNoAccess         = "You don't have access to this subdomain"
	msgInvalidIcon      = "Please enter a valid emoji (maximum 10 characters)"
	msgInvalidSubdomain = "Subdomain can only have lowercase letters, numbers, and hyphens. Please try again."
	msgSubdomainTaken   = "This subdomain is already taken"
)

// SubdomainService provisions and removes tenants.
type SubdomainService struct {
	store    *store.Store
	sessions *SessionService
	index    *search.Index
	logger   *slog.Logger
}

// NewSubdomainService creates a subdomain service. index may be nil.
func NewSubdomainService(store *store.Store, sessions *SessionService, index *search.Index, logger *slog.Logger) *SubdomainService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubdomainService{
		store:    store,
		sessions: sessions,
		index:    index,
		logger:   logger,
	}
}

// CreateSubdomainRequest is the tenant registration form.
type CreateSubdomainRequest struct {
	Subdomain string `json:"subdomain"`
	Icon      string `json:"icon"`
}

// CreateSubdomain registers a new tenant owned by the caller.
//
// The raw subdomain must already be in canonical form; input that would be
// changed by sanitising is rejected rather than silently corrected.
func (s *SubdomainService) CreateSubdomain(ctx context.Context, sess *domain.SessionRecord, req CreateSubdomainRequest) (*domain.SubdomainRecord, error) {
	if sess == nil {
		return nil, domainerrors.Unauthorized(msgLoginRequired)
	}

	icon := req.Icon
	if !tenant.IsValidIcon(icon) {
		return nil, domainerrors.Validation(msgInvalidIcon)
	}

	if err := tenant.ValidateSubdomain(req.Subdomain); err != nil {
		return nil, domainerrors.Validation(msgInvalidSubdomain)
	}
	sub := req.Subdomain

	rec := &domain.SubdomainRecord{
		Subdomain:      sub,
		Emoji:          icon,
		CreatedAt:      domain.Now(),
		OwnerEmail:     sess.Email,
		OwnerSubdomain: sess.Subdomain,
	}

	if err := s.store.CreateSubdomain(ctx, rec); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists(msgSubdomainTaken)
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "Could not create subdomain")
	}

	return rec, nil
}

// DeleteSubdomain removes a tenant the caller has access to. Its library
// details and any custom domain mapping are left in place; the mapping is
// cleared by the reconciliation sweep when that is enabled.
func (s *SubdomainService) DeleteSubdomain(ctx context.Context, sess *domain.SessionRecord, sub string) error {
	if sess == nil {
		return domainerrors.Unauthorized(msgLoginRequired)
	}

	sub = tenant.SanitizeSubdomain(sub)
	if sub == "" {
		return domainerrors.Validation(msgInvalidSubdomain)
	}

	if !s.sessions.HasSubdomainAccess(ctx, sess, sub) {
		return domainerrors.Forbidden(msgNoAccess)
	}

	exists, err := s.store.SubdomainExists(ctx, sub)
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "Could not delete subdomain")
	}
	if !exists {
		return domainerrors.NotFoundf("Subdomain %s does not exist", sub)
	}

	if err := s.store.DeleteSubdomain(ctx, sub); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "Could not delete subdomain")
	}

	// The owner's set is handled by the store; an admin or delegated caller
	// may also hold the name in their own set.
	if err := s.store.RemoveUserSubdomain(ctx, sess.Email, sub); err != nil {
		s.logger.Warn("failed to remove subdomain from caller set", "subdomain", sub, "email", sess.Email, "error", err)
	}

	if s.index != nil {
		if err := s.index.DeleteDocument(sub); err != nil {
			s.logger.Warn("failed to remove library from directory", "subdomain", sub, "error", err)
		}
	}

	return nil
}

// ListSubdomains returns every tenant for admins, and otherwise the caller's
// own tenants plus the one their session was issued for.
func (s *SubdomainService) ListSubdomains(ctx context.Context, sess *domain.SessionRecord) ([]domain.SubdomainSummary, error) {
	if sess == nil {
		return nil, domainerrors.Unauthorized(msgLoginRequired)
	}

	if sess.IsAdmin {
		all, err := s.store.GetAllSubdomains(ctx)
		if err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "Could not load subdomains")
		}
		return all, nil
	}

	names, err := s.store.GetUserSubdomains(ctx, sess.Email)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "Could not load subdomains")
	}
	if sess.Subdomain != "" {
		names = append(names, sess.Subdomain)
	}

	seen := make(map[string]struct{}, len(names))
	unique := names[:0]
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		unique = append(unique, n)
	}

	summaries, err := s.store.GetSubdomainSummaries(ctx, unique)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "Could not load subdomains")
	}
	return summaries, nil
}
