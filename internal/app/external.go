package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/fatih/color"
	"github.com/rs/zerolog/log"

	"mmpm/internal/core"
	"mmpm/internal/shared"
	"mmpm/internal/types"
)

// legacyExternalFile is the filename used by old installations for
// user-authored packages.
const legacyExternalFile = "external-sources.json"

// AddExternalPackage registers a user-authored package outside the community
// catalog. Missing fields are prompted for; the title may be left blank to
// derive it from the repository URL. A record whose title or repository is
// already registered is rejected.
func (s Service) AddExternalPackage(ctx context.Context, record types.PackageRecord) (types.PackageRecord, error) {
	if err := ctx.Err(); err != nil {
		return types.PackageRecord{}, err
	}

	record, err := s.completeExternalRecord(ctx, record)
	if err != nil {
		return types.PackageRecord{}, err
	}

	external := s.loadExternal()
	packages, _ := external.Get(types.ExternalPackagesCategory)
	for _, existing := range packages {
		if existing.Title == record.Title || existing.SameRepository(record) {
			return types.PackageRecord{}, errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg(fmt.Sprintf("a package titled %q is already registered", existing.Title))
		}
	}

	external.Append(types.ExternalPackagesCategory, record)
	if err := s.saveExternal(external); err != nil {
		return types.PackageRecord{}, err
	}
	fmt.Printf("Registered %s as an external package\n", color.GreenString(record.Title))
	return record, nil
}

// RemoveExternalPackages deletes the named entries from the external packages
// file. Titles with no matching entry are reported; removing an absent title
// is not an error. Returns whether anything was removed.
func (s Service) RemoveExternalPackages(ctx context.Context, titles []string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	external := s.loadExternal()
	packages, _ := external.Get(types.ExternalPackagesCategory)

	remaining := []types.PackageRecord{}
	removed := map[string]bool{}
	for _, pkg := range packages {
		if containsTitle(titles, pkg.Title) {
			removed[pkg.Title] = true
			fmt.Printf("Removed external package %s\n", color.GreenString(pkg.Title))
			continue
		}
		remaining = append(remaining, pkg)
	}
	for _, title := range titles {
		if !removed[title] {
			fmt.Println(color.RedString("No external package titled '%s' is registered", title))
		}
	}

	if len(removed) == 0 {
		return false, nil
	}
	out := types.Catalog{}
	out.Append(types.ExternalPackagesCategory, remaining...)
	return true, s.saveExternal(out)
}

// MigrateLegacyExternalSources converts the old external-sources file and its
// old category key to the current layout. Safe to run repeatedly.
func (s Service) MigrateLegacyExternalSources() error {
	legacy := filepath.Join(filepath.Dir(s.Env.ExternalFile), legacyExternalFile)
	if _, err := os.Stat(legacy); err == nil {
		if _, err := os.Stat(s.Env.ExternalFile); err == nil {
			log.Warn().Str("file", legacy).
				Msg("both the legacy and the current external packages file exist; leaving the legacy file in place")
		} else if err := os.Rename(legacy, s.Env.ExternalFile); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to rename the legacy external sources file").
				WithCause(err)
		} else {
			fmt.Printf("Renamed %s to %s\n", legacy, s.Env.ExternalFile)
		}
	}

	data, err := os.ReadFile(s.Env.ExternalFile)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("Nothing to migrate")
			return nil
		}
		return err
	}

	var catalog types.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("external packages file is malformed; fix it by hand before migrating").
			WithCause(err)
	}

	migrated := false
	for i := range catalog.Categories {
		if catalog.Categories[i].Name == types.LegacyExternalCategory {
			catalog.Categories[i].Name = types.ExternalPackagesCategory
			migrated = true
		}
	}
	if !migrated {
		fmt.Println("Nothing to migrate")
		return nil
	}
	if err := s.saveExternal(catalog); err != nil {
		return err
	}
	fmt.Printf("Renamed the '%s' category to '%s'\n",
		types.LegacyExternalCategory, types.ExternalPackagesCategory)
	return nil
}

// completeExternalRecord prompts for whatever fields the user left blank.
func (s Service) completeExternalRecord(ctx context.Context, record types.PackageRecord) (types.PackageRecord, error) {
	var err error
	if strings.TrimSpace(record.Repository) == "" {
		record.Repository, err = s.Prompt.Input(ctx, "Repository URL: ", nil)
		if err != nil {
			return types.PackageRecord{}, err
		}
	}
	if strings.TrimSpace(record.Title) == "" {
		record.Title = shared.TitleFromRemote(record.Repository)
	}
	if strings.TrimSpace(record.Author) == "" {
		record.Author, err = s.Prompt.Input(ctx, "Author: ", nil)
		if err != nil {
			return types.PackageRecord{}, err
		}
	}
	if strings.TrimSpace(record.Description) == "" {
		record.Description, err = s.Prompt.Input(ctx, "Description: ", nil)
		if err != nil {
			return types.PackageRecord{}, err
		}
	}
	record.Title = shared.SanitizeTitle(record.Title)
	return record, nil
}

func (s Service) loadExternal() types.Catalog {
	external, err := core.LoadExternalPackages(s.Env.ExternalFile)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("file", s.Env.ExternalFile).
				Msg("failed to load external packages; starting from an empty set")
		}
		return types.Catalog{}
	}
	return external
}

func (s Service) saveExternal(catalog types.Catalog) error {
	data, err := json.Marshal(catalog)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode external packages").
			WithCause(err)
	}
	if err := os.WriteFile(s.Env.ExternalFile, data, 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write external packages").
			WithCause(err)
	}
	return nil
}
