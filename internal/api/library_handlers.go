package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/librarysites/librarysites-server/internal/api/dto"
)

func (s *Server) registerLibraryRoutes() {
	// Registered before the {subdomain} routes so it reads first in the docs;
	// chi matches the static segment either way.
	huma.Register(s.api, huma.Operation{
		OperationID: "searchLibraries",
		Method:      http.MethodGet,
		Path:        "/api/libraries/search",
		Summary:     "Search the library directory",
		Tags:        []string{"Libraries"},
	}, s.handleSearchLibraries)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLibrary",
		Method:      http.MethodGet,
		Path:        "/api/libraries/{subdomain}",
		Summary:     "Get library details",
		Tags:        []string{"Libraries"},
	}, s.handleGetLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "saveLibrary",
		Method:      http.MethodPut,
		Path:        "/api/libraries/{subdomain}",
		Summary:     "Save library details",
		Description: "Replaces the CMS content of a tenant the caller has access to",
		Tags:        []string{"Libraries"},
	}, s.handleSaveLibrary)
}

func (s *Server) handleSearchLibraries(ctx context.Context, input *dto.SearchLibrariesInput) (*dto.SearchLibrariesOutput, error) {
	res, err := s.services.Libraries.SearchLibraries(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, err
	}
	return &dto.SearchLibrariesOutput{Body: res}, nil
}

func (s *Server) handleGetLibrary(ctx context.Context, input *dto.GetLibraryInput) (*dto.LibraryOutput, error) {
	details, err := s.services.Libraries.GetLibrary(ctx, input.Subdomain)
	if err != nil {
		return nil, err
	}
	return &dto.LibraryOutput{Body: details}, nil
}

func (s *Server) handleSaveLibrary(ctx context.Context, input *dto.SaveLibraryInput) (*dto.LibraryOutput, error) {
	saved, err := s.services.Libraries.SaveLibrary(ctx, SessionFromContext(ctx), input.Subdomain, input.Body.ToDomain())
	if err != nil {
		return nil, err
	}
	return &dto.LibraryOutput{Body: saved}, nil
}
