package cli

import (
	"fmt"

	"github.com/fatih/color"

	"mmpm/internal/types"
)

// printCatalog renders categories and their packages, skipping categories
// with nothing to show.
func printCatalog(catalog types.Catalog, titleOnly bool) {
	for _, category := range catalog.Categories {
		if len(category.Packages) == 0 {
			continue
		}
		if !titleOnly {
			fmt.Println(color.CyanString(category.Name))
		}
		for _, pkg := range category.Packages {
			if titleOnly {
				fmt.Println(pkg.Title)
				continue
			}
			fmt.Printf("  %s\n", color.GreenString(pkg.Title))
		}
	}
}

// printPackage renders one package with all its fields.
func printPackage(pkg types.PackageRecord) {
	fmt.Println(color.GreenString(pkg.Title))
	if pkg.Author != "" {
		fmt.Printf("  Author: %s\n", pkg.Author)
	}
	fmt.Printf("  Repository: %s\n", pkg.Repository)
	if pkg.Directory != "" {
		fmt.Printf("  Directory: %s\n", pkg.Directory)
	}
	if pkg.Description != "" {
		fmt.Printf("  %s\n", pkg.Description)
	}
}
