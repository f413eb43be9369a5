package app

import (
	"time"

	"mmpm/internal/adapters"
	"mmpm/internal/core"
	"mmpm/internal/ports"
	"mmpm/internal/types"
)

// Service wires the collaborators every use-case needs. One Service is built
// per process invocation; all state lives in the files under Env.
type Service struct {
	Env     types.Env
	Fetcher ports.CatalogFetcher
	Runner  ports.CommandRunner
	Git     ports.GitClient
	Prompt  ports.Prompter
	Bridge  ports.StatusBridge
	Control ports.ProcessController
	Clock   func() time.Time

	// Version is the running tool version, compared against the remote
	// release during the self-update check.
	Version string
}

func NewService(env types.Env, catalogURL string, version string) Service {
	runner := adapters.NewExecRunner()
	return Service{
		Env:     env,
		Fetcher: adapters.NewHTTPCatalogFetcher(catalogURL),
		Runner:  runner,
		Git:     adapters.NewGitCLI(runner),
		Prompt:  adapters.NewTerminalPrompter(),
		Bridge:  adapters.NewSocketBridge(env.URI),
		Control: adapters.NewDashboardController(env, runner),
		Clock:   time.Now,
		Version: version,
	}
}

func (s Service) catalogStore() core.CatalogStore {
	store := core.NewCatalogStore(s.Env, s.Fetcher)
	if s.Clock != nil {
		store.Clock = s.Clock
	}
	return store
}

func (s Service) resolver() core.InstalledResolver {
	return core.NewInstalledResolver(s.Env, s.Git)
}

func (s Service) ledger() core.UpgradeLedger {
	return core.NewUpgradeLedger(s.Env)
}

func (s Service) engine() core.ReconciliationEngine {
	return core.ReconciliationEngine{
		Env:     s.Env,
		Git:     s.Git,
		Runner:  s.Runner,
		Prompt:  s.Prompt,
		Ledger:  s.ledger(),
		Control: s.Control,
	}
}
