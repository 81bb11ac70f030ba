package dto

import "github.com/librarysites/librarysites-server/internal/domain"

// CreateSubdomainRequest is the tenant registration form.
type CreateSubdomainRequest struct {
	Subdomain string `json:"subdomain,omitempty" doc:"Requested subdomain, lowercase letters, digits and hyphens"`
	Icon      string `json:"icon,omitempty" doc:"Emoji shown next to the tenant"`
}

// CreateSubdomainInput wraps the registration form for huma.
type CreateSubdomainInput struct {
	Body CreateSubdomainRequest
}

// SubdomainOutput returns a single tenant.
type SubdomainOutput struct {
	Body domain.SubdomainSummary
}

// SubdomainListResponse is the dashboard tenant listing.
type SubdomainListResponse struct {
	Subdomains []domain.SubdomainSummary `json:"subdomains" doc:"Tenants visible to the caller"`
}

// SubdomainListOutput wraps the listing for huma.
type SubdomainListOutput struct {
	Body SubdomainListResponse
}

// DeleteSubdomainInput names the tenant to remove.
type DeleteSubdomainInput struct {
	SubdomainParam
}
