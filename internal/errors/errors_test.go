package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/librarysites/librarysites-server/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.CodeNotFound, http.StatusNotFound},
		{errors.CodeAlreadyExists, http.StatusConflict},
		{errors.CodeConflict, http.StatusConflict},
		{errors.CodeUnauthorized, http.StatusUnauthorized},
		{errors.CodeInvalidCredentials, http.StatusUnauthorized},
		{errors.CodeForbidden, http.StatusForbidden},
		{errors.CodeValidation, http.StatusBadRequest},
		{errors.CodeRateLimited, http.StatusTooManyRequests},
		{errors.CodeUnavailable, http.StatusServiceUnavailable},
		{errors.CodeInternal, http.StatusInternalServerError},
		{errors.Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := errors.AlreadyExists("This subdomain is already taken")

	assert.True(t, errors.Is(err, errors.ErrAlreadyExists))
	assert.False(t, errors.Is(err, errors.ErrConflict))

	wrapped := fmt.Errorf("create: %w", err)
	assert.True(t, errors.Is(wrapped, errors.ErrAlreadyExists))
}

func TestError_WithCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := errors.ErrUnavailable.WithCause(cause)

	assert.Equal(t, "service unavailable: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, errors.ErrUnavailable.Unwrap())
}

func TestError_WithDetails(t *testing.T) {
	details := map[string]string{"name": "required"}
	err := errors.ErrValidation.WithDetails(details)

	assert.Equal(t, details, err.Details)
	assert.Nil(t, errors.ErrValidation.Details)
}
