// Package dto provides request and response types for the LibrarySites API.
// huma uses them to generate OpenAPI documentation. Request fields are
// optional at the schema level; the service layer validates content so the
// dashboard sees one consistent set of messages.
package dto

// SubdomainParam is the tenant path parameter.
type SubdomainParam struct {
	Subdomain string `path:"subdomain" maxLength:"63" doc:"Tenant subdomain"`
}

// MessageResponse is a simple success message response.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps a message response for huma.
type MessageOutput struct {
	Body MessageResponse
}
