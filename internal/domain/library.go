package domain

// LibraryDetails is the CMS content for one tenant's public site.
// There is exactly one record per subdomain.
type LibraryDetails struct {
	Name         string `json:"name" validate:"required,max=120"`
	Description  string `json:"description,omitempty" validate:"max=2000"`
	Logo         string `json:"logo,omitempty" validate:"omitempty,url"`
	Email        string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone        string `json:"phone,omitempty" validate:"max=40"`
	Address      string `json:"address,omitempty" validate:"max=500"`
	Website      string `json:"website,omitempty" validate:"omitempty,url"`
	Timings      string `json:"timings,omitempty" validate:"max=200"`
	CustomDomain string `json:"customDomain,omitempty" validate:"omitempty,fqdn,max=253"`

	// About is rich text from the CMS editor and may contain HTML.
	About        string        `json:"about,omitempty"`
	Gallery      []GalleryItem `json:"gallery,omitempty" validate:"max=50,dive"`
	Shifts       []Shift       `json:"shifts,omitempty" validate:"max=20,dive"`
	Facilities   []Facility    `json:"facilities,omitempty" validate:"max=50,dive"`
	Testimonials []Testimonial `json:"testimonials,omitempty" validate:"max=50,dive"`
	FAQs         []FAQ         `json:"faqs,omitempty" validate:"max=50,dive"`
	SEO          SEO           `json:"seo"`

	UpdatedAt Timestamp `json:"updatedAt"`
}

// GalleryItem is one image in the site gallery.
type GalleryItem struct {
	URL     string `json:"url" validate:"required,url"`
	Caption string `json:"caption,omitempty" validate:"max=200"`
}

// Shift is a bookable study-room time slot.
type Shift struct {
	Name      string `json:"name" validate:"required,max=80"`
	StartTime string `json:"startTime" validate:"required,max=20"`
	EndTime   string `json:"endTime" validate:"required,max=20"`
	Price     string `json:"price,omitempty" validate:"max=40"`
}

// Facility is an amenity offered by the library.
type Facility struct {
	Name        string `json:"name" validate:"required,max=80"`
	Description string `json:"description,omitempty" validate:"max=500"`
	Icon        string `json:"icon,omitempty" validate:"max=40"`
}

// Testimonial is a quote from a member.
type Testimonial struct {
	Name   string `json:"name" validate:"required,max=80"`
	Role   string `json:"role,omitempty" validate:"max=80"`
	Quote  string `json:"quote" validate:"required,max=1000"`
	Rating int    `json:"rating,omitempty" validate:"gte=0,lte=5"`
}

// FAQ is a question/answer pair.
type FAQ struct {
	Question string `json:"question" validate:"required,max=300"`
	Answer   string `json:"answer" validate:"required,max=2000"`
}

// SEO holds the search-engine metadata for the tenant site.
type SEO struct {
	Title       string   `json:"title,omitempty" validate:"max=120"`
	Description string   `json:"description,omitempty" validate:"max=320"`
	Keywords    []string `json:"keywords,omitempty" validate:"max=30"`
	OGImage     string   `json:"ogImage,omitempty" validate:"omitempty,url"`
}
