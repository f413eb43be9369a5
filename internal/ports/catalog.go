package ports

import (
	"context"

	"mmpm/internal/types"
)

// CatalogFetcher produces a fresh catalog from the remote community listing.
// The wire format of the listing is the adapter's concern; the core only sees
// the decoded, ordered catalog.
type CatalogFetcher interface {
	Fetch(ctx context.Context) (types.Catalog, error)
}
