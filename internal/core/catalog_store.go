package core

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"mmpm/internal/ports"
	"mmpm/internal/types"
)

// catalogTTL is how long a snapshot is considered current. Expiration is
// reported through Status; Load never refreshes on its own.
const catalogTTL = 6 * time.Hour

// CatalogStore owns the on-disk snapshot of the remote package catalog: the
// refresh/backup cycle, the fallback to stale data, and the merge of the
// user-authored external packages category.
//
// Nothing guards two processes racing on the snapshot file; one invocation
// is assumed at a time.
type CatalogStore struct {
	Env     types.Env
	Fetcher ports.CatalogFetcher
	Clock   func() time.Time
}

func NewCatalogStore(env types.Env, fetcher ports.CatalogFetcher) CatalogStore {
	return CatalogStore{Env: env, Fetcher: fetcher, Clock: time.Now}
}

// CatalogStatus describes the current snapshot without fetching anything.
type CatalogStatus struct {
	CreatedAt  time.Time
	ExpiresAt  time.Time
	Expired    bool
	Categories int
	Packages   int
}

// Load returns the catalog. When force is set, or no usable snapshot exists,
// a fresh catalog is fetched first; only a non-empty fetch result replaces
// the snapshot (after copying the previous one to <file>.bak). A failed fetch
// falls back to the stale snapshot when one exists and is fatal otherwise.
func (s CatalogStore) Load(ctx context.Context, force bool) (types.Catalog, error) {
	exists := s.snapshotUsable()

	var catalog types.Catalog
	fetched := false

	if force || !exists {
		result, err := s.Fetcher.Fetch(ctx)
		switch {
		case err != nil || result.Empty():
			if !exists {
				return types.Catalog{}, errbuilder.New().
					WithCode(errbuilder.CodeInternal).
					WithMsg("failed to retrieve the package catalog and no local snapshot exists; check your internet connection").
					WithCause(err)
			}
			log.Error().Err(err).Msg("catalog refresh failed, falling back to the cached snapshot")
		default:
			if exists {
				if err := s.backupSnapshot(); err != nil {
					return types.Catalog{}, err
				}
			}
			if err := s.writeSnapshot(result); err != nil {
				return types.Catalog{}, err
			}
			catalog = result
			fetched = true
		}
	}

	if !fetched {
		loaded, err := s.readSnapshot()
		if err != nil {
			return types.Catalog{}, err
		}
		catalog = loaded
	}

	s.mergeExternal(&catalog)
	return catalog, nil
}

// Status reports snapshot age and size. It never triggers a fetch.
func (s CatalogStore) Status() (CatalogStatus, error) {
	info, err := os.Stat(s.Env.CatalogFile)
	if err != nil {
		return CatalogStatus{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("no catalog snapshot exists yet; run a refresh first").
			WithCause(err)
	}
	catalog, err := s.readSnapshot()
	if err != nil {
		return CatalogStatus{}, err
	}
	s.mergeExternal(&catalog)
	expires := info.ModTime().Add(catalogTTL)
	return CatalogStatus{
		CreatedAt:  info.ModTime(),
		ExpiresAt:  expires,
		Expired:    s.Clock().After(expires),
		Categories: catalog.Len(),
		Packages:   catalog.PackageCount(),
	}, nil
}

func (s CatalogStore) snapshotUsable() bool {
	info, err := os.Stat(s.Env.CatalogFile)
	return err == nil && info.Size() > 0
}

func (s CatalogStore) backupSnapshot() error {
	previous, err := os.ReadFile(s.Env.CatalogFile)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read catalog snapshot for backup").
			WithCause(err)
	}
	backup := s.Env.CatalogFile + ".bak"
	if err := os.WriteFile(backup, previous, 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to back up catalog snapshot").
			WithCause(err)
	}
	log.Debug().Str("backup", backup).Msg("backed up catalog snapshot")
	return nil
}

func (s CatalogStore) writeSnapshot(catalog types.Catalog) error {
	data, err := json.Marshal(catalog)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode catalog snapshot").
			WithCause(err)
	}
	if err := os.WriteFile(s.Env.CatalogFile, data, 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write catalog snapshot").
			WithCause(err)
	}
	return nil
}

func (s CatalogStore) readSnapshot() (types.Catalog, error) {
	data, err := os.ReadFile(s.Env.CatalogFile)
	if err != nil {
		return types.Catalog{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("catalog snapshot not found").
			WithCause(err)
	}
	var catalog types.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return types.Catalog{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("catalog snapshot is malformed").
			WithCause(err)
	}
	return catalog, nil
}

// mergeExternal unions the user-authored external packages into the catalog.
// External entries are irrecoverable by regeneration, so a malformed file is
// a warning requiring manual attention, never an auto-reset.
func (s CatalogStore) mergeExternal(catalog *types.Catalog) {
	info, err := os.Stat(s.Env.ExternalFile)
	if err != nil || info.Size() == 0 {
		return
	}
	external, err := LoadExternalPackages(s.Env.ExternalFile)
	if err != nil {
		log.Warn().Err(err).
			Str("file", s.Env.ExternalFile).
			Msg("failed to load external packages; the file may be malformed and needs manual correction")
		return
	}
	catalog.Union(external)
}

// LoadExternalPackages reads the external-packages file into a one-category
// catalog.
func LoadExternalPackages(path string) (types.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Catalog{}, err
	}
	var catalog types.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return types.Catalog{}, err
	}
	return catalog, nil
}
