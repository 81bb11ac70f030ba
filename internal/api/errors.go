package api

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/librarysites/librarysites-server/internal/errors"
	"github.com/librarysites/librarysites-server/internal/http/response"
	"github.com/librarysites/librarysites-server/internal/store"
)

// APIError implements huma.StatusError with the {code, message, details}
// body shared by every endpoint.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler makes huma render domain errors with their own code
// and status. Call it before registering routes.
func RegisterErrorHandler() {
	huma.NewError = newAPIError
}

func newAPIError(status int, message string, errs ...error) huma.StatusError {
	for _, err := range errs {
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			return &APIError{
				status:  domainErr.HTTPStatus(),
				Code:    string(domainErr.Code),
				Message: domainErr.Message,
				Details: domainErr.Details,
			}
		}

		var storeErr *store.Error
		if errors.As(err, &storeErr) {
			return &APIError{
				status:  storeErr.HTTPCode(),
				Code:    string(response.CodeForStatus(storeErr.HTTPCode())),
				Message: storeErr.Message,
			}
		}
	}

	// huma's own request validation failures.
	var details map[string]string
	for _, err := range errs {
		var detail *huma.ErrorDetail
		if errors.As(err, &detail) {
			if details == nil {
				details = make(map[string]string)
			}
			details[detail.Location] = detail.Message
		}
	}

	apiErr := &APIError{
		status:  status,
		Code:    string(response.CodeForStatus(status)),
		Message: message,
	}
	if status == 422 {
		apiErr.Code = string(domainerrors.CodeValidation)
	}
	if details != nil {
		apiErr.Details = details
	}
	return apiErr
}
