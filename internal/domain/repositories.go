package domain

import "context"

// CatalogRepository searches the external book catalog (implemented by catalog.Client).
// Errors are returned as-is; the query service decides how to degrade them.
type CatalogRepository interface {
	SearchVolumes(ctx context.Context, query string, maxResults int) ([]BookRecord, error)
}

// BestsellerRepository fetches curated lists and reviews (implemented by bestseller.Client).
// Results are the provider's own objects, unmodified.
type BestsellerRepository interface {
	CurrentList(ctx context.Context) ([]RawRecord, error)
	Reviews(ctx context.Context, isbn string) ([]RawRecord, error)
}
