package dto

import (
	"net/http"

	"github.com/librarysites/librarysites-server/internal/domain"
)

// LoginRequest is the dashboard login form.
type LoginRequest struct {
	Email    string `json:"email,omitempty" doc:"Account email address"`
	Password string `json:"password,omitempty" doc:"Account password"`
}

// LoginInput wraps the login request for huma.
type LoginInput struct {
	Body LoginRequest
}

// SessionResponse describes the caller's session.
type SessionResponse struct {
	Authenticated bool             `json:"authenticated" doc:"Whether a valid session exists"`
	Email         string           `json:"email,omitempty" doc:"Signed-in email address"`
	Subdomain     string           `json:"subdomain,omitempty" doc:"Subdomain the session is bound to"`
	IsAdmin       bool             `json:"isAdmin,omitempty" doc:"Whether the session has admin rights"`
	LoginTime     domain.Timestamp `json:"loginTime,omitzero" doc:"Login time, epoch milliseconds"`
	ExpiresAt     domain.Timestamp `json:"expiresAt,omitzero" doc:"Expiry time, epoch milliseconds"`
}

// SessionFromRecord converts a stored session for the client. The session
// ID stays in the cookie and is never echoed.
func SessionFromRecord(s *domain.SessionRecord) SessionResponse {
	if s == nil {
		return SessionResponse{}
	}
	return SessionResponse{
		Authenticated: true,
		Email:         s.Email,
		Subdomain:     s.Subdomain,
		IsAdmin:       s.IsAdmin,
		LoginTime:     s.LoginTime,
		ExpiresAt:     s.ExpiresAt,
	}
}

// LoginOutput returns the new session and sets its cookie.
type LoginOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      SessionResponse
}

// LogoutInput carries the cookie to revoke.
type LogoutInput struct {
	SessionID string `cookie:"session_id" doc:"Session cookie"`
}

// LogoutOutput clears the session cookie.
type LogoutOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      MessageResponse
}

// CheckResponse reports whether the caller is signed in.
type CheckResponse struct {
	Authenticated bool `json:"authenticated" doc:"Whether a valid session exists"`
}

// CheckOutput answers 200 when authenticated and 401 otherwise.
type CheckOutput struct {
	Status int
	Body   CheckResponse
}

// SessionOutput wraps the session payload for huma.
type SessionOutput struct {
	Body SessionResponse
}
