package service

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/librarysites/librarysites-server/internal/domain"
	domainerrors "github.com/librarysites/librarysites-server/internal/errors"
	"github.com/librarysites/librarysites-server/internal/hostname"
	"github.com/librarysites/librarysites-server/internal/search"
	"github.com/librarysites/librarysites-server/internal/store"
	"github.com/librarysites/librarysites-server/internal/tenant"
	"github.com/librarysites/librarysites-server/internal/validation"
)

// MetaDescriptionLength caps derived meta descriptions, in runes.
const MetaDescriptionLength = 160

// LibraryService reads and edits the CMS content behind tenant sites and
// keeps the library directory in step with it.
type LibraryService struct {
	store      *store.Store
	sessions   *SessionService
	index      *search.Index
	validator  *validation.Validator
	rootDomain string
	logger     *slog.Logger
}

// NewLibraryService creates a library service. index may be nil, in which
// case directory search reports itself unavailable.
func NewLibraryService(
	store *store.Store,
	sessions *SessionService,
	index *search.Index,
	validator *validation.Validator,
	rootDomain string,
	logger *slog.Logger,
) *LibraryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LibraryService{
		store:      store,
		sessions:   sessions,
		index:      index,
		validator:  validator,
		rootDomain: hostname.Normalize(rootDomain),
		logger:     logger,
	}
}

// Site is everything needed to render one tenant's public site.
type Site struct {
	Subdomain string                  `json:"subdomain"`
	Record    *domain.SubdomainRecord `json:"record"`
	Details   *domain.LibraryDetails  `json:"details,omitempty"`
	// MetaDescription is the SEO description, or one derived from the
	// library's about text when none was set.
	MetaDescription string `json:"metaDescription,omitempty"`
}

// GetSite loads a tenant for public rendering. A registered tenant without
// saved details is returned with nil Details.
func (s *LibraryService) GetSite(ctx context.Context, sub string) (*Site, error) {
	sub = tenant.SanitizeSubdomain(sub)
	if sub == "" {
		return nil, domainerrors.NotFound("Library not found")
	}

	rec, err := s.store.GetSubdomainData(ctx, sub)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "Could not load library")
	}
	if rec == nil {
		return nil, domainerrors.NotFoundf("No library is registered at %s", sub)
	}

	details, err := s.store.GetLibraryDetails(ctx, sub)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "Could not load library")
	}

	site := &Site{Subdomain: sub, Record: rec, Details: details}
	if details != nil {
		site.MetaDescription = MetaDescription(details)
	}
	return site, nil
}

// GetLibrary returns the stored details for sub, or NotFound.
func (s *LibraryService) GetLibrary(ctx context.Context, sub string) (*domain.LibraryDetails, error) {
	sub = tenant.SanitizeSubdomain(sub)

	details, err := s.store.GetLibraryDetails(ctx, sub)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "Could not load library details")
	}
	if details == nil {
		return nil, domainerrors.NotFoundf("No library details saved for %s", sub)
	}
	return details, nil
}

// SaveLibrary validates and stores the CMS form for sub.
func (s *LibraryService) SaveLibrary(ctx context.Context, sess *domain.SessionRecord, sub string, details *domain.LibraryDetails) (*domain.LibraryDetails, error) {
	if sess == nil {
		return nil, domainerrors.Unauthorized(msgLoginRequired)
	}

	sub = tenant.SanitizeSubdomain(sub)
	if sub == "" {
		return nil, domainerrors.Validation(msgInvalidSubdomain)
	}

	if !s.sessions.HasSubdomainAccess(ctx, sess, sub) {
		return nil, domainerrors.Forbidden(msgNoAccess)
	}

	exists, err := s.store.SubdomainExists(ctx, sub)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "Could not save library details")
	}
	if !exists {
		return nil, domainerrors.NotFoundf("Subdomain %s does not exist", sub)
	}

	details.Name = strings.TrimSpace(details.Name)
	details.CustomDomain = hostname.NormalizeDomain(details.CustomDomain)

	if err := s.validator.Validate(details); err != nil {
		return nil, err
	}

	if err := s.checkCustomDomain(ctx, sub, details.CustomDomain); err != nil {
		return nil, err
	}

	if err := s.store.SaveLibraryDetails(ctx, sub, details); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "Could not save library details")
	}

	s.reindex(sub, details)

	s.logger.Info("library details saved", "subdomain", sub, "email", sess.Email, "custom_domain", details.CustomDomain)
	return details, nil
}

// checkCustomDomain rejects the platform's own domain and domains already
// connected to a different library.
func (s *LibraryService) checkCustomDomain(ctx context.Context, sub, d string) error {
	if d == "" {
		return nil
	}

	if s.rootDomain != "" && (d == s.rootDomain || strings.HasSuffix(d, "."+s.rootDomain)) {
		return domainerrors.ValidationWithDetails("Custom domain cannot be on the platform domain",
			map[string]string{"customDomain": "must not be " + s.rootDomain + " or one of its subdomains"})
	}

	current, err := s.store.GetSubdomainFromCustomDomain(ctx, d)
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "Could not check custom domain")
	}
	if current != "" && current != sub {
		return domainerrors.Conflictf("%s is already connected to another library", d)
	}
	return nil
}

func (s *LibraryService) reindex(sub string, details *domain.LibraryDetails) {
	if s.index == nil {
		return
	}
	doc := search.LibraryToDocument(sub, details, MetaDescription(details))
	if err := s.index.IndexDocument(doc); err != nil {
		s.logger.Warn("failed to index library", "subdomain", sub, "error", err)
	}
}

// SearchLibraries queries the library directory.
func (s *LibraryService) SearchLibraries(ctx context.Context, q string, limit int) (*search.Result, error) {
	if s.index == nil {
		return nil, domainerrors.Wrap(nil, domainerrors.CodeUnavailable, "Library search is not available")
	}
	res, err := s.index.Search(ctx, search.Params{Query: q, Limit: limit})
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "Search failed")
	}
	return res, nil
}

// IndexedLibraries reports how many libraries the directory holds.
func (s *LibraryService) IndexedLibraries() (uint64, error) {
	if s.index == nil {
		return 0, domainerrors.Wrap(nil, domainerrors.CodeUnavailable, "Library search is not available")
	}
	return s.index.DocumentCount()
}

// RebuildIndex reindexes every stored library. Libraries whose tenant has
// been deleted are left out of the directory.
func (s *LibraryService) RebuildIndex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, nil
	}

	all, err := s.store.ListLibraryDetails(ctx)
	if err != nil {
		return 0, err
	}

	docs := make([]*search.Document, 0, len(all))
	for sub, details := range all {
		exists, err := s.store.SubdomainExists(ctx, sub)
		if err != nil {
			return 0, err
		}
		if !exists {
			continue
		}
		docs = append(docs, search.LibraryToDocument(sub, details, MetaDescription(details)))
	}

	if err := s.index.Rebuild(docs); err != nil {
		return 0, err
	}
	return len(docs), nil
}

// MetaDescription returns the SEO description for a library: the one set in
// the CMS, else the start of the about text as plain prose.
func MetaDescription(details *domain.LibraryDetails) string {
	if d := strings.TrimSpace(details.SEO.Description); d != "" {
		return d
	}
	if d := strings.TrimSpace(details.Description); d != "" {
		return truncate(collapseSpace(d), MetaDescriptionLength)
	}
	return truncate(PlainText(details.About), MetaDescriptionLength)
}

var (
	mdLink     = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	mdLeader   = regexp.MustCompile(`(?m)^\s*(#{1,6}|>|[-*+]|\d+\.)\s+`)
	mdEmphasis = regexp.MustCompile(`[*_~` + "`" + `]+`)
)

// PlainText converts CMS rich text into a single line of prose: HTML goes
// through Markdown, then the Markdown syntax is dropped.
func PlainText(html string) string {
	return collapseSpace(stripMarkdown(toMarkdown(html)))
}

// PlainParagraphs is PlainText keeping paragraph breaks.
func PlainParagraphs(html string) []string {
	var out []string
	for _, block := range strings.Split(toMarkdown(html), "\n\n") {
		if p := collapseSpace(stripMarkdown(block)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func toMarkdown(html string) string {
	html = strings.TrimSpace(html)
	if html == "" {
		return ""
	}
	if md, err := htmltomarkdown.ConvertString(html); err == nil {
		return md
	}
	return html
}

func stripMarkdown(text string) string {
	text = mdLink.ReplaceAllString(text, "$1")
	text = mdLeader.ReplaceAllString(text, "")
	return mdEmphasis.ReplaceAllString(text, "")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate shortens s to at most n runes, cutting at a word boundary and
// appending an ellipsis when anything was removed.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	runes := []rune(s)
	cut := string(runes[:n-1])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
