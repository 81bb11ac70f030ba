package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/librarysites/librarysites-server/internal/api/dto"
	"github.com/librarysites/librarysites-server/internal/service"
)

func (s *Server) registerSubdomainRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listSubdomains",
		Method:      http.MethodGet,
		Path:        "/api/subdomains",
		Summary:     "List subdomains",
		Description: "Admins see every tenant; other users see the tenants they own",
		Tags:        []string{"Subdomains"},
	}, s.handleListSubdomains)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createSubdomain",
		Method:        http.MethodPost,
		Path:          "/api/subdomains",
		Summary:       "Create subdomain",
		Tags:          []string{"Subdomains"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateSubdomain)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteSubdomain",
		Method:        http.MethodDelete,
		Path:          "/api/subdomains/{subdomain}",
		Summary:       "Delete subdomain",
		Description:   "Frees the name. Library content and custom domain mappings are kept.",
		Tags:          []string{"Subdomains"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteSubdomain)
}

func (s *Server) handleListSubdomains(ctx context.Context, _ *struct{}) (*dto.SubdomainListOutput, error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	subs, err := s.services.Subdomains.ListSubdomains(ctx, sess)
	if err != nil {
		return nil, err
	}
	return &dto.SubdomainListOutput{Body: dto.SubdomainListResponse{Subdomains: subs}}, nil
}

func (s *Server) handleCreateSubdomain(ctx context.Context, input *dto.CreateSubdomainInput) (*dto.SubdomainOutput, error) {
	rec, err := s.services.Subdomains.CreateSubdomain(ctx, SessionFromContext(ctx), service.CreateSubdomainRequest{
		Subdomain: input.Body.Subdomain,
		Icon:      input.Body.Icon,
	})
	if err != nil {
		return nil, err
	}
	return &dto.SubdomainOutput{Body: rec.Summary(rec.Subdomain)}, nil
}

func (s *Server) handleDeleteSubdomain(ctx context.Context, input *dto.DeleteSubdomainInput) (*struct{}, error) {
	if err := s.services.Subdomains.DeleteSubdomain(ctx, SessionFromContext(ctx), input.Subdomain); err != nil {
		return nil, err
	}
	return nil, nil
}
