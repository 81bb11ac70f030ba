package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/librarysites/librarysites-server/internal/auth"
	"github.com/librarysites/librarysites-server/internal/domain"
	"github.com/librarysites/librarysites-server/internal/hostname"
	"github.com/librarysites/librarysites-server/internal/kv"
	"github.com/librarysites/librarysites-server/internal/ratelimit"
	"github.com/librarysites/librarysites-server/internal/search"
	"github.com/librarysites/librarysites-server/internal/service"
	"github.com/librarysites/librarysites-server/internal/store"
	"github.com/librarysites/librarysites-server/internal/validation"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "password123"
	testRootDomain    = "example.com"
	testOwnerEmail    = "owner@example.com"
)

// testServer wraps the API server with direct access to its dependencies.
type testServer struct {
	*Server
	api      humatest.TestAPI
	store    *store.Store
	services *Services
}

// setupTestServer wires a server over an in-memory badger store and an
// in-memory directory index.
func setupTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()

	backend, err := kv.NewBadger(kv.BadgerOptions{InMemory: true})
	require.NoError(t, err)
	st := store.New(backend, nil)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.NewIndex(search.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	verifier, err := auth.NewStaticVerifier(testAdminEmail, testAdminPassword)
	require.NoError(t, err)

	limiter := ratelimit.PerMinute(3, time.Minute)
	t.Cleanup(limiter.Stop)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	v := validation.New()
	sessions := service.NewSessionService(st, domain.SessionTTL, logger)
	services := &Services{
		Auth:       service.NewAuthService(verifier, sessions, limiter, v, testAdminEmail, logger),
		Sessions:   sessions,
		Subdomains: service.NewSubdomainService(st, sessions, index, logger),
		Libraries:  service.NewLibraryService(st, sessions, index, v, testRootDomain, logger),
	}

	if opts.RootDomain == "" {
		opts.RootDomain = testRootDomain
	}
	resolver := hostname.NewResolver(opts.RootDomain, nil, st, logger)
	srv := NewServer(st, services, resolver, opts, logger)

	return &testServer{
		Server:   srv,
		api:      humatest.Wrap(t, srv.API()),
		store:    st,
		services: services,
	}
}

// sessionCookie opens a session for email and returns the Cookie header
// argument understood by humatest.
func (ts *testServer) sessionCookie(t *testing.T, email string, isAdmin bool) string {
	t.Helper()
	sess, err := ts.services.Sessions.CreateSession(context.Background(), email, "", isAdmin)
	require.NoError(t, err)
	return "Cookie: " + auth.SessionCookieName + "=" + sess.ID
}

// createTenant registers sub for owner through the service layer.
func (ts *testServer) createTenant(t *testing.T, owner, sub string) {
	t.Helper()
	_, err := ts.services.Subdomains.CreateSubdomain(context.Background(),
		&domain.SessionRecord{Email: owner},
		service.CreateSubdomainRequest{Subdomain: sub, Icon: "📚"})
	require.NoError(t, err)
}

// saveLibrary stores details for sub as its owner.
func (ts *testServer) saveLibrary(t *testing.T, owner, sub string, details *domain.LibraryDetails) {
	t.Helper()
	_, err := ts.services.Libraries.SaveLibrary(context.Background(),
		&domain.SessionRecord{Email: owner}, sub, details)
	require.NoError(t, err)
}

// do sends a request with an explicit Host through the full router.
func (ts *testServer) do(t *testing.T, method, host, target string, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	req.Host = host
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out), "body: %s", body)
	return out
}

// cookieValue strips the "Cookie: " prefix used by humatest headers.
func cookieValue(header string) string {
	return header[len("Cookie: "):]
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
