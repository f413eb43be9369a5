package app

import (
	"context"

	"mmpm/internal/core"
	"mmpm/internal/types"
)

// LoadCatalog returns the package catalog, refreshing the on-disk snapshot
// first when force is set or no snapshot exists yet.
func (s Service) LoadCatalog(ctx context.Context, force bool) (types.Catalog, error) {
	return s.catalogStore().Load(ctx, force)
}

// CatalogStatus reports the age and size of the current snapshot without
// touching the network.
func (s Service) CatalogStatus() (core.CatalogStatus, error) {
	return s.catalogStore().Status()
}

// ListInstalled returns the catalog packages currently cloned under the
// modules directory, in catalog order.
func (s Service) ListInstalled(ctx context.Context) (types.Catalog, error) {
	catalog, err := s.LoadCatalog(ctx, false)
	if err != nil {
		return types.Catalog{}, err
	}
	return s.resolver().Scan(ctx, catalog)
}

// SearchCatalog filters the catalog by query.
func (s Service) SearchCatalog(ctx context.Context, query string, opts core.SearchOptions) (types.Catalog, error) {
	catalog, err := s.LoadCatalog(ctx, false)
	if err != nil {
		return types.Catalog{}, err
	}
	return core.Search(catalog, query, opts), nil
}

// ShowPackages returns the catalog entries whose title matches one of the
// given titles exactly, preserving catalog order.
func (s Service) ShowPackages(ctx context.Context, titles []string) ([]types.PackageRecord, error) {
	catalog, err := s.LoadCatalog(ctx, false)
	if err != nil {
		return nil, err
	}
	matches := []types.PackageRecord{}
	for _, category := range catalog.Categories {
		for _, pkg := range category.Packages {
			for _, title := range titles {
				if pkg.Title == title {
					matches = append(matches, pkg)
					break
				}
			}
		}
	}
	return matches, nil
}
