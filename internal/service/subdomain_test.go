package service

import (
	"context"
	"testing"

	"github.com/librarysites/librarysites-server/internal/domain"
	domainerrors "github.com/librarysites/librarysites-server/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubdomainService_Create(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	owner := userSession("owner@example.com")

	rec, err := env.subdomains.CreateSubdomain(ctx, owner, CreateSubdomainRequest{Subdomain: "city-lib", Icon: "📚"})
	require.NoError(t, err)
	assert.Equal(t, "city-lib", rec.Subdomain)
	assert.Equal(t, "📚", rec.Emoji)
	assert.Equal(t, "owner@example.com", rec.OwnerEmail)

	stored, err := env.store.GetSubdomainData(ctx, "city-lib")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "owner@example.com", stored.OwnerEmail)

	owned, err := env.store.IsUserSubdomain(ctx, "owner@example.com", "city-lib")
	require.NoError(t, err)
	assert.True(t, owned)
}

func TestSubdomainService_Create_IconStoredAsEntered(t *testing.T) {
	env := setupServices(t)
	owner := userSession("owner@example.com")

	rec, err := env.subdomains.CreateSubdomain(context.Background(), owner, CreateSubdomainRequest{Subdomain: "padded", Icon: " 📚 "})
	require.NoError(t, err)
	assert.Equal(t, " 📚 ", rec.Emoji)
}

func TestSubdomainService_Create_Errors(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	owner := userSession("owner@example.com")
	mustCreate(t, env, owner, "taken")

	tests := []struct {
		name    string
		sess    *domain.SessionRecord
		req     CreateSubdomainRequest
		code    domainerrors.Code
		message string
	}{
		{"not logged in", nil, CreateSubdomainRequest{Subdomain: "new", Icon: "📚"}, domainerrors.CodeUnauthorized, msgLoginRequired},
		{"text icon", owner, CreateSubdomainRequest{Subdomain: "new", Icon: "abc"}, domainerrors.CodeValidation, msgInvalidIcon},
		{"icon too long", owner, CreateSubdomainRequest{Subdomain: "new", Icon: "📚📚📚📚📚📚"}, domainerrors.CodeValidation, msgInvalidIcon},
		{"padding counts toward icon length", owner, CreateSubdomainRequest{Subdomain: "new", Icon: "  📚📚📚📚 "}, domainerrors.CodeValidation, msgInvalidIcon},
		{"uppercase", owner, CreateSubdomainRequest{Subdomain: "NewLib", Icon: "📚"}, domainerrors.CodeValidation, msgInvalidSubdomain},
		{"spaces", owner, CreateSubdomainRequest{Subdomain: "new lib", Icon: "📚"}, domainerrors.CodeValidation, msgInvalidSubdomain},
		{"empty", owner, CreateSubdomainRequest{Subdomain: "", Icon: "📚"}, domainerrors.CodeValidation, msgInvalidSubdomain},
		{"taken", owner, CreateSubdomainRequest{Subdomain: "taken", Icon: "📚"}, domainerrors.CodeAlreadyExists, msgSubdomainTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.subdomains.CreateSubdomain(ctx, tt.sess, tt.req)
			requireCode(t, err, tt.code)
			assert.Equal(t, tt.message, err.Error())
		})
	}

	// Rejected input is never stored under its corrected form.
	exists, err := env.store.SubdomainExists(ctx, "newlib")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSubdomainService_Delete(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	owner := userSession("owner@example.com")
	mustCreate(t, env, owner, "acme")

	err := env.subdomains.DeleteSubdomain(ctx, userSession("stranger@example.com"), "acme")
	requireCode(t, err, domainerrors.CodeForbidden)

	require.NoError(t, env.subdomains.DeleteSubdomain(ctx, owner, "acme"))

	exists, err := env.store.SubdomainExists(ctx, "acme")
	require.NoError(t, err)
	assert.False(t, exists)

	subs, err := env.store.GetUserSubdomains(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.Empty(t, subs)

	err = env.subdomains.DeleteSubdomain(ctx, adminSession(), "acme")
	requireCode(t, err, domainerrors.CodeNotFound)
}

func TestSubdomainService_Delete_RequiresSession(t *testing.T) {
	env := setupServices(t)

	err := env.subdomains.DeleteSubdomain(context.Background(), nil, "acme")
	requireCode(t, err, domainerrors.CodeUnauthorized)
}

func TestSubdomainService_List(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	alice := userSession("alice@example.com")
	bob := userSession("bob@example.com")
	mustCreate(t, env, alice, "alpha")
	mustCreate(t, env, alice, "beta")
	mustCreate(t, env, bob, "gamma")

	all, err := env.subdomains.ListSubdomains(ctx, adminSession())
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := env.subdomains.ListSubdomains(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "alpha", mine[0].Subdomain)
	assert.Equal(t, "beta", mine[1].Subdomain)

	delegated := &domain.SessionRecord{Email: "bob@example.com", Subdomain: "alpha"}
	theirs, err := env.subdomains.ListSubdomains(ctx, delegated)
	require.NoError(t, err)
	assert.Len(t, theirs, 2)

	_, err = env.subdomains.ListSubdomains(ctx, nil)
	requireCode(t, err, domainerrors.CodeUnauthorized)
}
