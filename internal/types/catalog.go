package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Category names with special meaning in the persisted catalog files.
const (
	ExternalPackagesCategory = "External Packages"
	LegacyExternalCategory   = "External Module Sources"
)

// Category is one wiki section worth of packages, in scrape order.
type Category struct {
	Name     string
	Packages []PackageRecord
}

// Catalog is the full set of known community packages grouped by category.
// Category order is the wiki's section order and must survive JSON
// round-trips, so the catalog marshals itself as an object with ordered keys
// instead of relying on a Go map.
type Catalog struct {
	Categories []Category
}

// Get returns the packages of the named category and whether it exists.
func (c Catalog) Get(name string) ([]PackageRecord, bool) {
	for _, category := range c.Categories {
		if category.Name == name {
			return category.Packages, true
		}
	}
	return nil, false
}

// Append adds packages to the named category, creating it at the end of the
// category list when absent.
func (c *Catalog) Append(name string, packages ...PackageRecord) {
	for i := range c.Categories {
		if c.Categories[i].Name == name {
			c.Categories[i].Packages = append(c.Categories[i].Packages, packages...)
			return
		}
	}
	c.Categories = append(c.Categories, Category{Name: name, Packages: packages})
}

// Union appends every category of other, merging into same-named categories.
func (c *Catalog) Union(other Catalog) {
	for _, category := range other.Categories {
		c.Append(category.Name, category.Packages...)
	}
}

// Len returns the number of categories.
func (c Catalog) Len() int { return len(c.Categories) }

// PackageCount returns the total number of packages across all categories.
func (c Catalog) PackageCount() int {
	total := 0
	for _, category := range c.Categories {
		total += len(category.Packages)
	}
	return total
}

// Empty reports whether the catalog holds no packages at all.
func (c Catalog) Empty() bool { return c.PackageCount() == 0 }

func (c Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, category := range c.Categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(category.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		packages := category.Packages
		if packages == nil {
			packages = []PackageRecord{}
		}
		value, err := json.Marshal(packages)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a category-keyed object through the token stream so
// the on-disk key order is preserved.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("catalog: expected JSON object, got %v", tok)
	}

	categories := []Category{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("catalog: expected category name, got %v", tok)
		}

		var rawPackages []json.RawMessage
		if err := dec.Decode(&rawPackages); err != nil {
			return fmt.Errorf("catalog: category %q: %w", name, err)
		}
		packages := make([]PackageRecord, 0, len(rawPackages))
		for _, raw := range rawPackages {
			record, err := DecodePackageRecord(raw)
			if err != nil {
				return fmt.Errorf("catalog: category %q: %w", name, err)
			}
			packages = append(packages, record)
		}
		categories = append(categories, Category{Name: name, Packages: packages})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	c.Categories = categories
	return nil
}
