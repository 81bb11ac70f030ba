package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/librarysites/librarysites-server/internal/errors"
	"github.com/librarysites/librarysites-server/internal/store"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusCreated, map[string]string{"subdomain": "oak"}, nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "oak", decode(t, w)["subdomain"])
}

func TestJSON_NilBody(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusNoContent, nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestEnvelopes(t *testing.T) {
	w := httptest.NewRecorder()
	Wrapped(w, []string{"a"}, nil)
	out := decode(t, w)
	assert.Equal(t, true, out["success"])
	assert.NotContains(t, out, "error")

	w = httptest.NewRecorder()
	Failed(w, http.StatusInternalServerError, "store down", nil)
	out = decode(t, w)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "store down", out["error"])
	assert.NotContains(t, out, "data")
}

func TestHandleError_DomainError(t *testing.T) {
	w := httptest.NewRecorder()
	err := domainerrors.ValidationWithDetails("validation failed", map[string]string{"name": "is required"})
	HandleError(w, fmt.Errorf("saving: %w", err), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	out := decode(t, w)
	assert.Equal(t, "VALIDATION", out["code"])
	assert.Equal(t, "validation failed", out["message"])
	assert.Equal(t, map[string]any{"name": "is required"}, out["details"])
}

func TestHandleError_StatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domainerrors.Unauthorized("login"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{domainerrors.Forbidden("no"), http.StatusForbidden, "FORBIDDEN"},
		{domainerrors.NotFound("gone"), http.StatusNotFound, "NOT_FOUND"},
		{domainerrors.AlreadyExists("taken"), http.StatusConflict, "ALREADY_EXISTS"},
		{domainerrors.RateLimited("slow down"), http.StatusTooManyRequests, "RATE_LIMITED"},
		{store.ErrAlreadyExists, http.StatusConflict, "CONFLICT"},
		{store.ErrInvalidInput, http.StatusBadRequest, "VALIDATION"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(w, tt.err, nil)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decode(t, w)["code"])
		})
	}
}

func TestHandleError_UnknownErrorIsLoggedAndHidden(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	w := httptest.NewRecorder()
	HandleError(w, errors.New("badger: disk on fire"), logger)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	out := decode(t, w)
	assert.Equal(t, "INTERNAL", out["code"])
	assert.NotContains(t, w.Body.String(), "disk on fire")
	assert.Contains(t, logs.String(), "disk on fire")
}

func TestCodeForStatus(t *testing.T) {
	assert.Equal(t, domainerrors.CodeUnavailable, CodeForStatus(http.StatusServiceUnavailable))
	assert.Equal(t, domainerrors.CodeInternal, CodeForStatus(http.StatusTeapot))
}
