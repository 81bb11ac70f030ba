package service

import (
	"context"
	"testing"
	"time"

	"github.com/librarysites/librarysites-server/internal/auth"
	"github.com/librarysites/librarysites-server/internal/domain"
	domainerrors "github.com/librarysites/librarysites-server/internal/errors"
	"github.com/librarysites/librarysites-server/internal/kv"
	"github.com/librarysites/librarysites-server/internal/ratelimit"
	"github.com/librarysites/librarysites-server/internal/search"
	"github.com/librarysites/librarysites-server/internal/store"
	"github.com/librarysites/librarysites-server/internal/validation"
	"github.com/stretchr/testify/require"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "password123"
	testRootDomain    = "example.com"
)

type testEnv struct {
	store      *store.Store
	backend    kv.Store
	index      *search.Index
	sessions   *SessionService
	auth       *AuthService
	subdomains *SubdomainService
	libraries  *LibraryService
	limiter    *ratelimit.KeyedRateLimiter
}

// setupServices wires every service over an in-memory badger store and an
// in-memory directory index.
func setupServices(t *testing.T) *testEnv {
	t.Helper()

	backend, err := kv.NewBadger(kv.BadgerOptions{InMemory: true})
	require.NoError(t, err)

	s := store.New(backend, nil)
	t.Cleanup(func() { _ = s.Close() })

	index, err := search.NewIndex(search.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	verifier, err := auth.NewStaticVerifier(testAdminEmail, testAdminPassword)
	require.NoError(t, err)

	limiter := ratelimit.PerMinute(3, time.Minute)
	t.Cleanup(limiter.Stop)

	v := validation.New()
	sessions := NewSessionService(s, domain.SessionTTL, nil)

	return &testEnv{
		store:      s,
		backend:    backend,
		index:      index,
		sessions:   sessions,
		auth:       NewAuthService(verifier, sessions, limiter, v, testAdminEmail, nil),
		subdomains: NewSubdomainService(s, sessions, index, nil),
		libraries:  NewLibraryService(s, sessions, index, v, testRootDomain, nil),
		limiter:    limiter,
	}
}

func userSession(email string) *domain.SessionRecord {
	return &domain.SessionRecord{ID: "test-" + email, Email: email}
}

func adminSession() *domain.SessionRecord {
	return &domain.SessionRecord{ID: "test-admin", Email: testAdminEmail, IsAdmin: true}
}

func requireCode(t *testing.T, err error, code domainerrors.Code) {
	t.Helper()

	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	require.Equal(t, code, derr.Code, "unexpected error: %v", err)
}

func mustCreate(t *testing.T, env *testEnv, sess *domain.SessionRecord, sub string) {
	t.Helper()

	_, err := env.subdomains.CreateSubdomain(context.Background(), sess, CreateSubdomainRequest{Subdomain: sub, Icon: "📚"})
	require.NoError(t, err)
}
