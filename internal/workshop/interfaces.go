package workshop

import "context"

// ResponseCache stores complete responses by key. Implementations must be
// safe for concurrent use; Put overwrites.
type ResponseCache interface {
	Get(ctx context.Context, key string) (CachedResponse, bool, error)
	Put(ctx context.Context, key string, resp CachedResponse) error
}

// DetailsAPI is the structured metadata API.
type DetailsAPI interface {
	GetPublishedFileDetails(ctx context.Context, ids []string) ([]FileDetails, error)
}

// CatalogAPI is the catalog query API.
type CatalogAPI interface {
	QueryFiles(ctx context.Context, query CatalogQuery) ([]byte, error)
}

// PageFetcher retrieves an item's public HTML page. It never fails; an
// unreachable page yields PageUnavailable.
type PageFetcher interface {
	FetchPage(ctx context.Context, id string) PageResult
}
