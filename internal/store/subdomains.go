package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/librarysites/librarysites-server/internal/domain"
	"github.com/librarysites/librarysites-server/internal/tenant"
)

// GetSubdomainData returns the record for sub, or nil when none exists.
func (s *Store) GetSubdomainData(ctx context.Context, sub string) (*domain.SubdomainRecord, error) {
	sub = tenant.SanitizeSubdomain(sub)
	if sub == "" {
		return nil, nil
	}

	var rec domain.SubdomainRecord
	found, err := s.getJSON(ctx, subdomainKey(sub), &rec)
	if err != nil {
		return nil, fmt.Errorf("get subdomain %s: %w", sub, err)
	}
	if !found {
		return nil, nil
	}
	rec.Subdomain = sub
	return &rec, nil
}

// SubdomainExists reports whether sub is registered.
func (s *Store) SubdomainExists(ctx context.Context, sub string) (bool, error) {
	sub = tenant.SanitizeSubdomain(sub)
	if sub == "" {
		return false, nil
	}
	return s.exists(ctx, subdomainKey(sub))
}

// CreateSubdomain registers rec.Subdomain. Uniqueness is checked before the
// write; two concurrent creations of the same name can both succeed, in which
// case the last write wins.
func (s *Store) CreateSubdomain(ctx context.Context, rec *domain.SubdomainRecord) error {
	sub := tenant.SanitizeSubdomain(rec.Subdomain)
	if sub == "" {
		return ErrInvalidInput.WithMessage("subdomain is required")
	}

	taken, err := s.exists(ctx, subdomainKey(sub))
	if err != nil {
		return fmt.Errorf("check subdomain exists: %w", err)
	}
	if taken {
		return ErrAlreadyExists.WithMessage("subdomain already exists")
	}

	rec.Subdomain = sub
	if err := s.setJSON(ctx, subdomainKey(sub), rec, 0); err != nil {
		return fmt.Errorf("save subdomain %s: %w", sub, err)
	}

	if rec.OwnerEmail != "" {
		if err := s.AddUserSubdomain(ctx, rec.OwnerEmail, sub); err != nil {
			return fmt.Errorf("index subdomain owner: %w", err)
		}
	}

	s.logger.Info("subdomain created", "subdomain", sub, "owner", rec.OwnerEmail)
	return nil
}

// DeleteSubdomain removes the record for sub and drops it from its owner's
// set. Library details and custom domain mappings that point at sub are left
// in place.
func (s *Store) DeleteSubdomain(ctx context.Context, sub string) error {
	sub = tenant.SanitizeSubdomain(sub)
	if sub == "" {
		return nil
	}

	rec, err := s.GetSubdomainData(ctx, sub)
	if err != nil {
		return err
	}

	if err := s.kv.Delete(ctx, subdomainKey(sub)); err != nil {
		return fmt.Errorf("delete subdomain %s: %w", sub, err)
	}

	if rec != nil && rec.OwnerEmail != "" {
		if err := s.RemoveUserSubdomain(ctx, rec.OwnerEmail, sub); err != nil {
			return fmt.Errorf("unindex subdomain owner: %w", err)
		}
	}

	s.logger.Info("subdomain deleted", "subdomain", sub)
	return nil
}

// GetAllSubdomains lists every registered subdomain, sorted by name. Records
// missing an icon or creation time get the listing defaults.
func (s *Store) GetAllSubdomains(ctx context.Context) ([]domain.SubdomainSummary, error) {
	keys, err := s.kv.Keys(ctx, subdomainPrefix)
	if err != nil {
		return nil, fmt.Errorf("list subdomain keys: %w", err)
	}
	if len(keys) == 0 {
		return []domain.SubdomainSummary{}, nil
	}
	sort.Strings(keys)

	return s.summaries(ctx, keys)
}

// GetSubdomainSummaries resolves names to listing entries, skipping names
// that are no longer registered.
func (s *Store) GetSubdomainSummaries(ctx context.Context, subs []string) ([]domain.SubdomainSummary, error) {
	keys := make([]string, 0, len(subs))
	for _, sub := range subs {
		if sub = tenant.SanitizeSubdomain(sub); sub != "" {
			keys = append(keys, subdomainKey(sub))
		}
	}
	if len(keys) == 0 {
		return []domain.SubdomainSummary{}, nil
	}
	sort.Strings(keys)
	return s.summaries(ctx, keys)
}

func (s *Store) summaries(ctx context.Context, keys []string) ([]domain.SubdomainSummary, error) {
	values, err := s.kv.MGet(ctx, keys...)
	if err != nil {
		return nil, fmt.Errorf("load subdomains: %w", err)
	}

	out := make([]domain.SubdomainSummary, 0, len(keys))
	for i, key := range keys {
		if values[i] == nil {
			continue
		}
		sub := strings.TrimPrefix(key, subdomainPrefix)

		var rec domain.SubdomainRecord
		if err := json.Unmarshal([]byte(*values[i]), &rec); err != nil {
			s.logger.Warn("skipping malformed subdomain record", "subdomain", sub, "error", err)
			rec = domain.SubdomainRecord{}
		}
		out = append(out, rec.Summary(sub))
	}
	return out, nil
}

// AddUserSubdomain records that email owns sub.
func (s *Store) AddUserSubdomain(ctx context.Context, email, sub string) error {
	return s.kv.SAdd(ctx, userSubdomainsKey(email), sub)
}

// RemoveUserSubdomain drops sub from email's set.
func (s *Store) RemoveUserSubdomain(ctx context.Context, email, sub string) error {
	return s.kv.SRem(ctx, userSubdomainsKey(email), sub)
}

// GetUserSubdomains returns the names email has created.
func (s *Store) GetUserSubdomains(ctx context.Context, email string) ([]string, error) {
	return s.kv.SMembers(ctx, userSubdomainsKey(email))
}

// IsUserSubdomain reports whether sub is in email's set.
func (s *Store) IsUserSubdomain(ctx context.Context, email, sub string) (bool, error) {
	return s.kv.SIsMember(ctx, userSubdomainsKey(email), tenant.SanitizeSubdomain(sub))
}
