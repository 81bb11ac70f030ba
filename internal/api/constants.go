package api

// Cache-Control header values.
const (
	CacheTenantPage = "public, max-age=60, stale-while-revalidate=300"
	CacheNoStore    = "no-store"
)

// APIVersion is reported in the OpenAPI document.
const APIVersion = "1.0.0"
