package types

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Env carries every path and endpoint one invocation operates against. It is
// constructed once per process and passed explicitly into each component;
// there is no package-level configuration state.
type Env struct {
	// Root is the normalized absolute path of the dashboard installation.
	Root       string
	ModulesDir string

	ConfigDir    string
	CatalogFile  string
	ExternalFile string
	LedgerFile   string

	// URI is the websocket endpoint of the running dashboard, if any.
	URI string

	PM2Name     string
	ComposeFile string
}

// NewEnv builds an Env from the configured dashboard root. The config
// directory defaults to ~/.config/mmpm and is created when missing.
func NewEnv(root string, uri string, pm2Name string, composeFile string) (Env, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return Env{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("dashboard root is not configured")
	}
	absRoot, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return Env{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to normalize dashboard root").
			WithCause(err)
	}

	configDir, err := defaultConfigDir()
	if err != nil {
		return Env{}, err
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return Env{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create config directory").
			WithCause(err)
	}

	return Env{
		Root:         absRoot,
		ModulesDir:   filepath.Join(absRoot, "modules"),
		ConfigDir:    configDir,
		CatalogFile:  filepath.Join(configDir, "packages.json"),
		ExternalFile: filepath.Join(configDir, "external-packages.json"),
		LedgerFile:   filepath.Join(configDir, "available-upgrades.json"),
		URI:          strings.TrimSpace(uri),
		PM2Name:      strings.TrimSpace(pm2Name),
		ComposeFile:  strings.TrimSpace(composeFile),
	}, nil
}

func defaultConfigDir() (string, error) {
	if override := os.Getenv("MMPM_CONFIG_DIR"); override != "" {
		return override, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to determine home directory").
			WithCause(err)
	}
	return filepath.Join(home, ".config", "mmpm"), nil
}
