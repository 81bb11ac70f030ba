package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librarysites/librarysites-server/internal/domain"
)

func TestSaveAndGetLibrary(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.createTenant(t, testOwnerEmail, "oak")
	owner := ts.sessionCookie(t, testOwnerEmail, false)

	resp := ts.api.Put("/api/libraries/oak", owner, map[string]any{
		"name":         "  Oak Reading Room ",
		"timings":      "8am - 10pm",
		"customDomain": "OakLibrary.org.",
		"facilities":   []map[string]any{{"name": "WiFi"}},
		"seo":          map[string]any{"description": "Quiet study space"},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	saved := decodeBody(t, resp.Body.Bytes())
	assert.Equal(t, "Oak Reading Room", saved["name"])
	assert.Equal(t, "oaklibrary.org", saved["customDomain"])
	assert.NotZero(t, saved["updatedAt"])

	resp = ts.api.Get("/api/libraries/oak")
	require.Equal(t, http.StatusOK, resp.Code)
	got := decodeBody(t, resp.Body.Bytes())
	assert.Equal(t, "Oak Reading Room", got["name"])
	assert.Equal(t, "8am - 10pm", got["timings"])
}

func TestSaveLibrary_Errors(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.createTenant(t, testOwnerEmail, "oak")
	ts.createTenant(t, "other@example.com", "pine")
	ts.saveLibrary(t, "other@example.com", "pine", &domain.LibraryDetails{Name: "Pine", CustomDomain: "pine.org"})
	owner := ts.sessionCookie(t, testOwnerEmail, false)

	tests := []struct {
		name   string
		cookie string
		path   string
		body   map[string]any
		status int
		code   string
	}{
		{"anonymous", "", "/api/libraries/oak", map[string]any{"name": "Oak"}, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"not owner", owner, "/api/libraries/pine", map[string]any{"name": "Mine"}, http.StatusForbidden, "FORBIDDEN"},
		{"missing name", owner, "/api/libraries/oak", map[string]any{"timings": "always"}, http.StatusBadRequest, "VALIDATION"},
		{"bad domain", owner, "/api/libraries/oak", map[string]any{"name": "Oak", "customDomain": "not a domain"}, http.StatusBadRequest, "VALIDATION"},
		{"root domain", owner, "/api/libraries/oak", map[string]any{"name": "Oak", "customDomain": "www.example.com"}, http.StatusBadRequest, "VALIDATION"},
		{"domain taken", owner, "/api/libraries/oak", map[string]any{"name": "Oak", "customDomain": "pine.org"}, http.StatusConflict, "CONFLICT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := []any{tt.body}
			if tt.cookie != "" {
				args = append([]any{tt.cookie}, args...)
			}
			resp := ts.api.Put(tt.path, args...)
			assert.Equal(t, tt.status, resp.Code, resp.Body.String())
			assert.Equal(t, tt.code, decodeBody(t, resp.Body.Bytes())["code"])
		})
	}
}

func TestSaveLibrary_ValidationDetails(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.createTenant(t, testOwnerEmail, "oak")

	resp := ts.api.Put("/api/libraries/oak", ts.sessionCookie(t, testOwnerEmail, false), map[string]any{
		"name":    "Oak",
		"gallery": []map[string]any{{"url": "not-a-url"}},
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	details, ok := decodeBody(t, resp.Body.Bytes())["details"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details, "gallery[0].url")
}

func TestGetLibrary_NotFound(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.createTenant(t, testOwnerEmail, "oak")

	resp := ts.api.Get("/api/libraries/oak")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decodeBody(t, resp.Body.Bytes())["code"])
}

func TestSearchLibraries(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.createTenant(t, testOwnerEmail, "oak")
	ts.createTenant(t, testOwnerEmail, "elm")
	ts.saveLibrary(t, testOwnerEmail, "oak", &domain.LibraryDetails{Name: "Oak Reading Room", Address: "12 Station Road"})
	ts.saveLibrary(t, testOwnerEmail, "elm", &domain.LibraryDetails{Name: "Elm Study Hall", Address: "3 Market Street"})

	resp := ts.api.Get("/api/libraries/search?q=reading")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	body := decodeBody(t, resp.Body.Bytes())
	assert.EqualValues(t, 1, body["total"])
	hits := body["hits"].([]any)
	require.Len(t, hits, 1)
	assert.Equal(t, "oak", hits[0].(map[string]any)["subdomain"])

	resp = ts.api.Get("/api/libraries/search")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.EqualValues(t, 2, decodeBody(t, resp.Body.Bytes())["total"])
}
