// Package search provides the library directory: a full-text index over
// every tenant's public details, used by the root site's "find a library"
// lookup.
package search

import (
	"github.com/librarysites/librarysites-server/internal/domain"
)

// Document is one library in the directory index. The document ID is the
// subdomain, so re-indexing a library replaces its previous entry.
type Document struct {
	Subdomain    string
	Name         string
	Description  string
	Address      string
	Timings      string
	CustomDomain string
	Facilities   []string
	Keywords     []string
	UpdatedAt    int64 // Unix millis
}

// ToMap converts the document to a map whose keys match the index mapping.
func (d *Document) ToMap() map[string]any {
	m := map[string]any{
		"subdomain":  d.Subdomain,
		"name":       d.Name,
		"updated_at": d.UpdatedAt,
	}

	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.Address != "" {
		m["address"] = d.Address
	}
	if d.Timings != "" {
		m["timings"] = d.Timings
	}
	if d.CustomDomain != "" {
		m["custom_domain"] = d.CustomDomain
	}
	if len(d.Facilities) > 0 {
		m["facilities"] = d.Facilities
	}
	if len(d.Keywords) > 0 {
		m["keywords"] = d.Keywords
	}

	return m
}

// LibraryToDocument converts stored library details into a directory
// document. description should be the plain-text summary; the caller owns
// the HTML-to-text conversion.
func LibraryToDocument(sub string, details *domain.LibraryDetails, description string) *Document {
	doc := &Document{
		Subdomain:    sub,
		Name:         details.Name,
		Description:  description,
		Address:      details.Address,
		Timings:      details.Timings,
		CustomDomain: details.CustomDomain,
		Keywords:     details.SEO.Keywords,
		UpdatedAt:    details.UpdatedAt.UnixMilli(),
	}

	for _, f := range details.Facilities {
		if f.Name != "" {
			doc.Facilities = append(doc.Facilities, f.Name)
		}
	}

	return doc
}
