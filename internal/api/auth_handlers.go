package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/librarysites/librarysites-server/internal/api/dto"
	"github.com/librarysites/librarysites-server/internal/auth"
	"github.com/librarysites/librarysites-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/auth/login",
		Summary:     "Dashboard login",
		Description: "Verifies credentials and sets the session cookie",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/auth/logout",
		Summary:     "Logout",
		Description: "Revokes the session and clears the cookie",
		Tags:        []string{"Authentication"},
	}, s.handleLogout)

	huma.Register(s.api, huma.Operation{
		OperationID: "checkAuth",
		Method:      http.MethodGet,
		Path:        "/api/auth/check",
		Summary:     "Check authentication",
		Description: "Returns 200 with authenticated=true for a valid session, 401 otherwise",
		Tags:        []string{"Authentication"},
	}, s.handleCheckAuth)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSession",
		Method:      http.MethodGet,
		Path:        "/api/auth/session",
		Summary:     "Current session",
		Tags:        []string{"Authentication"},
	}, s.handleGetSession)
}

func (s *Server) handleLogin(ctx context.Context, input *dto.LoginInput) (*dto.LoginOutput, error) {
	sess, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Email:    input.Body.Email,
		Password: input.Body.Password,
		ClientIP: clientIPFromContext(ctx),
	})
	if err != nil {
		return nil, err
	}

	return &dto.LoginOutput{
		SetCookie: auth.NewSessionCookie(sess.ID, s.services.Sessions.TTL(), s.opts.Production),
		Body:      dto.SessionFromRecord(sess),
	}, nil
}

func (s *Server) handleLogout(ctx context.Context, input *dto.LogoutInput) (*dto.LogoutOutput, error) {
	if err := s.services.Auth.Logout(ctx, input.SessionID); err != nil {
		return nil, err
	}
	return &dto.LogoutOutput{
		SetCookie: auth.ExpiredSessionCookie(s.opts.Production),
		Body:      dto.MessageResponse{Message: "Logged out"},
	}, nil
}

func (s *Server) handleCheckAuth(ctx context.Context, _ *struct{}) (*dto.CheckOutput, error) {
	if SessionFromContext(ctx) == nil {
		return &dto.CheckOutput{Status: http.StatusUnauthorized}, nil
	}
	return &dto.CheckOutput{
		Status: http.StatusOK,
		Body:   dto.CheckResponse{Authenticated: true},
	}, nil
}

func (s *Server) handleGetSession(ctx context.Context, _ *struct{}) (*dto.SessionOutput, error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.SessionOutput{Body: dto.SessionFromRecord(sess)}, nil
}
