package dto

import (
	"github.com/librarysites/librarysites-server/internal/domain"
	"github.com/librarysites/librarysites-server/internal/search"
)

// LibraryDetailsRequest is the CMS form. It mirrors domain.LibraryDetails
// without the server-managed timestamp.
type LibraryDetailsRequest struct {
	Name         string               `json:"name,omitempty" doc:"Library name"`
	Description  string               `json:"description,omitempty"`
	Logo         string               `json:"logo,omitempty" doc:"Logo URL"`
	Email        string               `json:"email,omitempty"`
	Phone        string               `json:"phone,omitempty"`
	Address      string               `json:"address,omitempty"`
	Website      string               `json:"website,omitempty"`
	Timings      string               `json:"timings,omitempty" doc:"Opening hours"`
	CustomDomain string               `json:"customDomain,omitempty" doc:"Externally owned domain serving this site"`
	About        string               `json:"about,omitempty" doc:"Rich text, may contain HTML"`
	Gallery      []domain.GalleryItem `json:"gallery,omitempty"`
	Shifts       []domain.Shift       `json:"shifts,omitempty"`
	Facilities   []domain.Facility    `json:"facilities,omitempty"`
	Testimonials []domain.Testimonial `json:"testimonials,omitempty"`
	FAQs         []domain.FAQ         `json:"faqs,omitempty"`
	SEO          *domain.SEO          `json:"seo,omitempty"`
}

// ToDomain converts the form into library details.
func (r *LibraryDetailsRequest) ToDomain() *domain.LibraryDetails {
	d := &domain.LibraryDetails{
		Name:         r.Name,
		Description:  r.Description,
		Logo:         r.Logo,
		Email:        r.Email,
		Phone:        r.Phone,
		Address:      r.Address,
		Website:      r.Website,
		Timings:      r.Timings,
		CustomDomain: r.CustomDomain,
		About:        r.About,
		Gallery:      r.Gallery,
		Shifts:       r.Shifts,
		Facilities:   r.Facilities,
		Testimonials: r.Testimonials,
		FAQs:         r.FAQs,
	}
	if r.SEO != nil {
		d.SEO = *r.SEO
	}
	return d
}

// GetLibraryInput names the tenant to read.
type GetLibraryInput struct {
	SubdomainParam
}

// SaveLibraryInput carries the CMS form for a tenant.
type SaveLibraryInput struct {
	SubdomainParam
	Body LibraryDetailsRequest
}

// LibraryOutput returns stored library details.
type LibraryOutput struct {
	Body *domain.LibraryDetails
}

// SearchLibrariesInput is the directory query.
type SearchLibrariesInput struct {
	Query string `query:"q" maxLength:"200" doc:"Search text; empty lists every library"`
	Limit int    `query:"limit" minimum:"0" maximum:"100" doc:"Maximum hits (default 20)"`
}

// SearchLibrariesOutput wraps directory results for huma.
type SearchLibrariesOutput struct {
	Body *search.Result
}
