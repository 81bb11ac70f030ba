package auth

import (
	"context"
	"fmt"
	"strings"
)

// CredentialVerifier decides whether an email/password pair may log in.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) bool
}

// StaticVerifier accepts exactly one configured credential pair. Only the
// argon2id hash of the password is kept in memory.
type StaticVerifier struct {
	email string
	hash  string
}

// NewStaticVerifier hashes password and returns a verifier for email.
func NewStaticVerifier(email, password string) (*StaticVerifier, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("admin email is required")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}

	return &StaticVerifier{email: email, hash: hash}, nil
}

// Email returns the configured (lowercased) admin email.
func (v *StaticVerifier) Email() string {
	return v.email
}

// Verify compares email case-insensitively and password against the hash.
// The hash is always evaluated so a wrong email costs as much as a wrong
// password.
func (v *StaticVerifier) Verify(_ context.Context, email, password string) bool {
	emailOK := strings.EqualFold(strings.TrimSpace(email), v.email)
	passwordOK := VerifyPassword(v.hash, password)
	return emailOK && passwordOK
}

// DenyAllVerifier rejects every credential pair. It is used when no admin
// credentials are configured, leaving the dashboard without any login.
type DenyAllVerifier struct{}

// Verify always reports false.
func (DenyAllVerifier) Verify(context.Context, string, string) bool {
	return false
}
