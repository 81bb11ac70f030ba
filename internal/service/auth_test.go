package service

import (
	"context"
	"testing"

	domainerrors "github.com/librarysites/librarysites-server/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_VerifyCredentials(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	assert.True(t, env.auth.VerifyCredentials(ctx, testAdminEmail, testAdminPassword))
	assert.False(t, env.auth.VerifyCredentials(ctx, testAdminEmail, "wrong"))
	assert.False(t, env.auth.VerifyCredentials(ctx, "other@example.com", testAdminPassword))
}

func TestAuthService_Login_Success(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	sess, err := env.auth.Login(ctx, LoginRequest{Email: "Admin@Example.com", Password: testAdminPassword, ClientIP: "10.0.0.1"})
	require.NoError(t, err)
	assert.True(t, sess.IsAdmin)
	assert.Equal(t, testAdminEmail, sess.Email)

	stored := env.sessions.GetSession(ctx, sess.ID)
	require.NotNil(t, stored)
	assert.True(t, stored.IsAdmin)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	env := setupServices(t)

	_, err := env.auth.Login(context.Background(), LoginRequest{Email: testAdminEmail, Password: "nope"})
	requireCode(t, err, domainerrors.CodeInvalidCredentials)
}

func TestAuthService_Login_Validation(t *testing.T) {
	env := setupServices(t)

	_, err := env.auth.Login(context.Background(), LoginRequest{Email: "not-an-email", Password: "x"})
	requireCode(t, err, domainerrors.CodeValidation)
}

func TestAuthService_Login_RateLimited(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	for range 3 {
		_, err := env.auth.Login(ctx, LoginRequest{Email: testAdminEmail, Password: "wrong", ClientIP: "10.0.0.9"})
		requireCode(t, err, domainerrors.CodeInvalidCredentials)
	}

	// Even the right password is refused once the budget is spent.
	_, err := env.auth.Login(ctx, LoginRequest{Email: testAdminEmail, Password: testAdminPassword, ClientIP: "10.0.0.9"})
	requireCode(t, err, domainerrors.CodeRateLimited)

	// Other clients are unaffected.
	_, err = env.auth.Login(ctx, LoginRequest{Email: testAdminEmail, Password: testAdminPassword, ClientIP: "10.0.0.10"})
	require.NoError(t, err)
}

func TestAuthService_Logout(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	sess, err := env.auth.Login(ctx, LoginRequest{Email: testAdminEmail, Password: testAdminPassword})
	require.NoError(t, err)

	require.NoError(t, env.auth.Logout(ctx, sess.ID))
	assert.Nil(t, env.sessions.GetSession(ctx, sess.ID))

	assert.NoError(t, env.auth.Logout(ctx, ""))
}
