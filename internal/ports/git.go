package ports

import (
	"context"

	"mmpm/internal/types"
)

// GitClient wraps the git subcommands the reconciliation paths need. Every
// call runs against an explicit directory; the process working directory is
// never changed.
type GitClient interface {
	// RemoteOriginURL reads remote.origin.url of the checkout at dir.
	RemoteOriginURL(ctx context.Context, dir string) (string, error)

	// Clone clones repository into target. The repository string may carry
	// extra arguments baked in by the user (e.g. "-b branch" for external
	// package sources), which are passed through to git verbatim.
	Clone(ctx context.Context, workDir string, repository string, target string) (types.CommandResult, error)

	// Pull runs git pull in dir.
	Pull(ctx context.Context, dir string) (types.CommandResult, error)

	// FetchDryRun probes the remote for changes without touching the
	// checkout. Any output means the remote moved ahead.
	FetchDryRun(ctx context.Context, dir string) (types.CommandResult, error)
}
