package validation_test

import (
	"net/http"
	"testing"

	"github.com/librarysites/librarysites-server/internal/domain"
	domainerrors "github.com/librarysites/librarysites-server/internal/errors"
	"github.com/librarysites/librarysites-server/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createRequest struct {
	Subdomain string `json:"subdomain" validate:"required,subdomain"`
	Icon      string `json:"icon" validate:"required,icon"`
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()

	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, http.StatusBadRequest, derr.HTTPStatus())

	details, ok := derr.Details.(map[string]string)
	require.True(t, ok, "details should be a field map")
	return details
}

func TestValidator_TenantTags(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       createRequest
		wantField string
	}{
		{name: "valid", req: createRequest{Subdomain: "city-lib", Icon: "📚"}},
		{name: "uppercase subdomain", req: createRequest{Subdomain: "CityLib", Icon: "📚"}, wantField: "subdomain"},
		{name: "underscore subdomain", req: createRequest{Subdomain: "city_lib", Icon: "📚"}, wantField: "subdomain"},
		{name: "text icon", req: createRequest{Subdomain: "city", Icon: "abc"}, wantField: "icon"},
		{name: "empty icon", req: createRequest{Subdomain: "city"}, wantField: "icon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, fieldErrors(t, err), tt.wantField)
		})
	}
}

func TestValidator_LibraryDetails(t *testing.T) {
	v := validation.New()

	details := domain.LibraryDetails{
		Name:         "City Library",
		Email:        "desk@city.org",
		Website:      "https://city.org",
		CustomDomain: "library.city.org",
	}
	assert.NoError(t, v.Validate(details))

	details.Name = ""
	details.CustomDomain = "not a domain"
	details.Gallery = []domain.GalleryItem{{URL: "nope"}}

	fields := fieldErrors(t, v.Validate(details))
	assert.Equal(t, "is required", fields["name"])
	assert.Equal(t, "must be a valid domain name", fields["customDomain"])
	assert.Equal(t, "must be a valid URL", fields["gallery[0].url"])
}
