package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/librarysites/librarysites-server/internal/domain"
	"github.com/librarysites/librarysites-server/internal/hostname"
	"github.com/librarysites/librarysites-server/internal/tenant"
)

// GetLibraryDetails returns the CMS record for sub, or nil when none exists.
func (s *Store) GetLibraryDetails(ctx context.Context, sub string) (*domain.LibraryDetails, error) {
	sub = tenant.SanitizeSubdomain(sub)
	if sub == "" {
		return nil, nil
	}

	var details domain.LibraryDetails
	found, err := s.getJSON(ctx, libraryKey(sub), &details)
	if err != nil {
		return nil, fmt.Errorf("get library %s: %w", sub, err)
	}
	if !found {
		return nil, nil
	}
	return &details, nil
}

// SaveLibraryDetails writes the CMS record for sub and keeps the custom
// domain mapping pointing at it.
//
// The sequence is: drop the previous mapping if the domain changed, write the
// record, write the new mapping. It is not atomic. A reader between steps can
// see no mapping at all, and a failure after the delete leaves the domain
// unmapped until the next save.
func (s *Store) SaveLibraryDetails(ctx context.Context, sub string, details *domain.LibraryDetails) error {
	sub = tenant.SanitizeSubdomain(sub)
	if sub == "" {
		return ErrInvalidInput.WithMessage("subdomain is required")
	}

	details.CustomDomain = hostname.NormalizeDomain(details.CustomDomain)

	previous, err := s.GetLibraryDetails(ctx, sub)
	if err != nil {
		return err
	}

	if previous != nil {
		oldDomain := hostname.NormalizeDomain(previous.CustomDomain)
		if oldDomain != "" && oldDomain != details.CustomDomain {
			if err := s.kv.Delete(ctx, customDomainKey(oldDomain)); err != nil {
				return fmt.Errorf("remove old custom domain %s: %w", oldDomain, err)
			}
			s.logger.Info("custom domain unmapped", "domain", oldDomain, "subdomain", sub)
		}
	}

	details.UpdatedAt = domain.Now()
	if err := s.setJSON(ctx, libraryKey(sub), details, 0); err != nil {
		return fmt.Errorf("save library %s: %w", sub, err)
	}

	if details.CustomDomain != "" {
		if err := s.kv.Set(ctx, customDomainKey(details.CustomDomain), sub, 0); err != nil {
			return fmt.Errorf("map custom domain %s: %w", details.CustomDomain, err)
		}
		s.logger.Info("custom domain mapped", "domain", details.CustomDomain, "subdomain", sub)
	}

	return nil
}

// ListLibraryDetails returns every stored library record keyed by subdomain.
func (s *Store) ListLibraryDetails(ctx context.Context) (map[string]*domain.LibraryDetails, error) {
	keys, err := s.kv.Keys(ctx, libraryPrefix)
	if err != nil {
		return nil, fmt.Errorf("list library keys: %w", err)
	}

	out := make(map[string]*domain.LibraryDetails, len(keys))
	for _, key := range keys {
		sub := strings.TrimPrefix(key, libraryPrefix)
		details, err := s.GetLibraryDetails(ctx, sub)
		if err != nil {
			s.logger.Warn("skipping unreadable library record", "subdomain", sub, "error", err)
			continue
		}
		if details != nil {
			out[sub] = details
		}
	}
	return out, nil
}
