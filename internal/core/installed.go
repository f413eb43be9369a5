package core

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"mmpm/internal/ports"
	"mmpm/internal/shared"
	"mmpm/internal/types"
)

// InstalledResolver correlates on-disk git checkouts under the modules
// directory with catalog entries, keyed by remote URL.
type InstalledResolver struct {
	Env types.Env
	Git ports.GitClient
}

func NewInstalledResolver(env types.Env, git ports.GitClient) InstalledResolver {
	return InstalledResolver{Env: env, Git: git}
}

type discoveredClone struct {
	title     string
	remote    string
	directory string
}

// Scan walks the modules directory and returns the subset of catalog
// packages whose repository matches a discovered clone's remote origin URL,
// with Directory filled in. Every catalog category appears in the result,
// empty when nothing from it is installed. Category and package order follow
// the catalog.
func (r InstalledResolver) Scan(ctx context.Context, catalog types.Catalog) (types.Catalog, error) {
	entries, err := os.ReadDir(r.Env.ModulesDir)
	if err != nil {
		return types.Catalog{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("modules directory not found; check the dashboard root configuration").
			WithCause(err)
	}

	clones := make([]discoveredClone, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return types.Catalog{}, err
		}
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(r.Env.ModulesDir, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
			continue
		}
		remote, err := r.Git.RemoteOriginURL(ctx, dir)
		if err != nil {
			log.Warn().Err(err).
				Str("directory", entry.Name()).
				Msg("unable to read remote origin; skipping directory")
			continue
		}
		clones = append(clones, discoveredClone{
			title:     shared.TitleFromRemote(remote),
			remote:    strings.TrimSpace(remote),
			directory: dir,
		})
	}

	installed := types.Catalog{}
	for _, category := range catalog.Categories {
		matched := []types.PackageRecord{}
		for _, pkg := range category.Packages {
			for _, clone := range clones {
				if strings.TrimSpace(pkg.Repository) == clone.remote {
					found := pkg
					found.Directory = clone.directory
					matched = append(matched, found)
					break
				}
			}
		}
		installed.Categories = append(installed.Categories, types.Category{
			Name:     category.Name,
			Packages: matched,
		})
	}
	return installed, nil
}
