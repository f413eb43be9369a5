package core

import (
	"strings"

	"mmpm/internal/types"
)

// SearchOptions controls how a query is matched against the catalog.
type SearchOptions struct {
	CaseSensitive bool
	TitleOnly     bool
}

// Search filters the catalog by a query. A query equal to a category name
// returns that whole category. Otherwise packages match on title only, or on
// a substring of title, author or description, case-insensitively unless
// requested otherwise. Category and package order are preserved.
func Search(catalog types.Catalog, query string, opts SearchOptions) types.Catalog {
	if packages, ok := catalog.Get(query); ok {
		return types.Catalog{Categories: []types.Category{{Name: query, Packages: packages}}}
	}

	match := func(pkg types.PackageRecord) bool {
		switch {
		case opts.TitleOnly:
			return pkg.Title == query
		case opts.CaseSensitive:
			return strings.Contains(pkg.Title, query) ||
				strings.Contains(pkg.Author, query) ||
				strings.Contains(pkg.Description, query)
		default:
			lowered := strings.ToLower(query)
			return strings.Contains(strings.ToLower(pkg.Title), lowered) ||
				strings.Contains(strings.ToLower(pkg.Author), lowered) ||
				strings.Contains(strings.ToLower(pkg.Description), lowered)
		}
	}

	results := types.Catalog{}
	for _, category := range catalog.Categories {
		matched := []types.PackageRecord{}
		for _, pkg := range category.Packages {
			if match(pkg) {
				matched = append(matched, pkg)
			}
		}
		results.Categories = append(results.Categories, types.Category{
			Name:     category.Name,
			Packages: matched,
		})
	}
	return results
}
