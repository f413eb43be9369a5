package adapters

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"mmpm/internal/ports"
	"mmpm/internal/shared"
	"mmpm/internal/types"
)

// GitCLI wraps the git executable behind the GitClient port.
type GitCLI struct {
	Runner ports.CommandRunner
}

func NewGitCLI(runner ports.CommandRunner) GitCLI {
	return GitCLI{Runner: runner}
}

func (g GitCLI) RemoteOriginURL(ctx context.Context, dir string) (string, error) {
	result, err := g.Runner.Run(ctx, dir, "git", "config", "--get", "remote.origin.url")
	if err != nil {
		return "", err
	}
	if result.Failed() {
		return "", shared.CommandError(result.Code, result.Stderr)
	}
	return strings.TrimSpace(result.Stdout), nil
}

// Clone clones repository into target. Splitting the repository string lets
// user-authored external sources bake in extra arguments, e.g.
// "https://host/repo.git -b develop".
func (g GitCLI) Clone(ctx context.Context, workDir string, repository string, target string) (types.CommandResult, error) {
	args := append([]string{"clone"}, strings.Fields(repository)...)
	if target != "" {
		args = append(args, target)
	}
	log.Info().Str("repository", repository).Str("target", target).Msg("cloning")
	return g.Runner.Run(ctx, workDir, "git", args...)
}

func (g GitCLI) Pull(ctx context.Context, dir string) (types.CommandResult, error) {
	return g.Runner.Run(ctx, dir, "git", "pull")
}

func (g GitCLI) FetchDryRun(ctx context.Context, dir string) (types.CommandResult, error) {
	return g.Runner.Run(ctx, dir, "git", "fetch", "--dry-run")
}

var _ ports.GitClient = GitCLI{}
