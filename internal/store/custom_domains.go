package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/librarysites/librarysites-server/internal/domain"
	"github.com/librarysites/librarysites-server/internal/hostname"
	"github.com/librarysites/librarysites-server/internal/kv"
)

// GetSubdomainFromCustomDomain returns the subdomain a custom domain is
// mapped to, or "" when there is no mapping.
func (s *Store) GetSubdomainFromCustomDomain(ctx context.Context, customDomain string) (string, error) {
	d := hostname.NormalizeDomain(customDomain)
	if d == "" {
		return "", nil
	}

	sub, err := s.kv.Get(ctx, customDomainKey(d))
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup custom domain %s: %w", d, err)
	}
	return sub, nil
}

// ListCustomDomains returns every stored mapping sorted by domain.
func (s *Store) ListCustomDomains(ctx context.Context) ([]domain.CustomDomainMapping, error) {
	keys, err := s.kv.Keys(ctx, customDomainPrefix)
	if err != nil {
		return nil, fmt.Errorf("list custom domain keys: %w", err)
	}
	if len(keys) == 0 {
		return []domain.CustomDomainMapping{}, nil
	}
	sort.Strings(keys)

	values, err := s.kv.MGet(ctx, keys...)
	if err != nil {
		return nil, fmt.Errorf("load custom domains: %w", err)
	}

	mappings := make([]domain.CustomDomainMapping, 0, len(keys))
	for i, key := range keys {
		if values[i] == nil {
			continue
		}
		mappings = append(mappings, domain.CustomDomainMapping{
			Domain:    strings.TrimPrefix(key, customDomainPrefix),
			Subdomain: *values[i],
		})
	}
	return mappings, nil
}

// ReconcileCustomDomains deletes mappings whose target subdomain no longer
// exists and returns how many were removed.
func (s *Store) ReconcileCustomDomains(ctx context.Context) (int, error) {
	mappings, err := s.ListCustomDomains(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, m := range mappings {
		if err := ctx.Err(); err != nil {
			return removed, err
		}

		ok, err := s.SubdomainExists(ctx, m.Subdomain)
		if err != nil {
			s.logger.Warn("failed to check custom domain target", "domain", m.Domain, "subdomain", m.Subdomain, "error", err)
			continue
		}
		if ok {
			continue
		}

		if err := s.kv.Delete(ctx, customDomainKey(m.Domain)); err != nil {
			s.logger.Warn("failed to delete orphaned custom domain", "domain", m.Domain, "error", err)
			continue
		}
		s.logger.Info("orphaned custom domain removed", "domain", m.Domain, "subdomain", m.Subdomain)
		removed++
	}
	return removed, nil
}
