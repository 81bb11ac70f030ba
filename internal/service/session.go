package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/librarysites/librarysites-server/internal/domain"
	"github.com/librarysites/librarysites-server/internal/id"
	"github.com/librarysites/librarysites-server/internal/store"
	"github.com/librarysites/librarysites-server/internal/tenant"
)

// SessionService issues, reads and revokes dashboard sessions, and answers
// per-subdomain authorization questions for a given session.
type SessionService struct {
	store  *store.Store
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewSessionService creates a session service. A non-positive ttl uses
// domain.SessionTTL.
func NewSessionService(store *store.Store, ttl time.Duration, logger *slog.Logger) *SessionService {
	if ttl <= 0 {
		ttl = domain.SessionTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// TTL returns the lifetime of new sessions.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// CreateSession stores a new session for email and returns it.
func (s *SessionService) CreateSession(ctx context.Context, email, subdomain string, isAdmin bool) (*domain.SessionRecord, error) {
	now := s.now()

	sessionID, err := id.NewSessionID(now)
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	sess := &domain.SessionRecord{
		ID:        sessionID,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Subdomain: tenant.SanitizeSubdomain(subdomain),
		IsAdmin:   isAdmin,
		LoginTime: domain.NewTimestamp(now),
		ExpiresAt: domain.NewTimestamp(now.Add(s.ttl)),
	}

	if err := s.store.CreateSession(ctx, sess, s.ttl); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.logger.Info("session created", "session_id", sessionID, "email", sess.Email, "is_admin", isAdmin)
	return sess, nil
}

// GetSession returns the live session for id, or nil. Store failures,
// malformed records and expired sessions all yield nil: the caller is
// treated as logged out.
func (s *SessionService) GetSession(ctx context.Context, id string) *domain.SessionRecord {
	if id == "" {
		return nil
	}

	sess, err := s.store.GetSession(ctx, id)
	if err != nil {
		s.logger.Warn("session lookup failed", "session_id", id, "error", err)
		return nil
	}
	if sess == nil {
		return nil
	}
	if sess.IsExpired(s.now()) {
		s.logger.Debug("session expired", "session_id", id)
		return nil
	}
	return sess
}

// DeleteSession revokes a session.
func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	if err := s.store.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.logger.Info("session deleted", "session_id", id)
	return nil
}

// HasSubdomainAccess reports whether sess may manage sub. Rules are checked
// in order and the first match wins:
//
//  1. admins may manage everything
//  2. the subdomain the session was issued for
//  3. the subdomain's recorded owner
//  4. membership in the caller's own subdomain set
//
// Store errors deny access.
func (s *SessionService) HasSubdomainAccess(ctx context.Context, sess *domain.SessionRecord, sub string) bool {
	if sess == nil {
		return false
	}
	if sess.IsAdmin {
		return true
	}

	sub = tenant.SanitizeSubdomain(sub)
	if sub == "" {
		return false
	}
	if sess.Subdomain != "" && sess.Subdomain == sub {
		return true
	}

	rec, err := s.store.GetSubdomainData(ctx, sub)
	if err != nil {
		s.logger.Warn("access check: subdomain lookup failed", "subdomain", sub, "error", err)
		return false
	}
	if rec != nil && rec.OwnerEmail != "" && strings.EqualFold(rec.OwnerEmail, sess.Email) {
		return true
	}

	member, err := s.store.IsUserSubdomain(ctx, sess.Email, sub)
	if err != nil {
		s.logger.Warn("access check: membership lookup failed", "subdomain", sub, "email", sess.Email, "error", err)
		return false
	}
	return member
}
