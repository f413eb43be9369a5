package core

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Dependency marker files, probed in this fixed order. A CMake configure is
// followed by a Makefile re-check inside the configured build directory,
// which can double-build a package that ships both a top-level Makefile and
// CMakeLists; that sequencing is kept as-is.
const (
	markerNPM      = "package.json"
	markerBundle   = "Gemfile"
	markerMakefile = "Makefile"
	markerCMake    = "CMakeLists.txt"
)

// installDependencies runs the dependency managers whose marker files are
// present in dir. The first failing step stops the chain; its stderr is
// returned. An empty string means every applicable step succeeded. The error
// result is reserved for cancellation.
func (e ReconciliationEngine) installDependencies(ctx context.Context, dir string) (string, error) {
	if hasMarker(dir, markerNPM) {
		if msg, err := e.dependencyStep(ctx, dir, "npm", "install"); msg != "" || err != nil {
			return msg, err
		}
	}
	if hasMarker(dir, markerBundle) {
		if msg, err := e.dependencyStep(ctx, dir, "bundle", "install"); msg != "" || err != nil {
			return msg, err
		}
	}
	if hasMarker(dir, markerMakefile) {
		if msg, err := e.dependencyStep(ctx, dir, "make", "-j", strconv.Itoa(runtime.NumCPU())); msg != "" || err != nil {
			return msg, err
		}
	}
	if hasMarker(dir, markerCMake) {
		buildDir := filepath.Join(dir, "build")
		if err := os.MkdirAll(buildDir, 0o755); err != nil {
			return err.Error(), nil
		}
		if msg, err := e.dependencyStep(ctx, buildDir, "cmake", ".."); msg != "" || err != nil {
			return msg, err
		}
		if hasMarker(buildDir, markerMakefile) {
			if msg, err := e.dependencyStep(ctx, buildDir, "make", "-j", strconv.Itoa(runtime.NumCPU())); msg != "" || err != nil {
				return msg, err
			}
		}
	}
	log.Debug().Str("directory", dir).Msg("dependency installation finished")
	return "", nil
}

func (e ReconciliationEngine) dependencyStep(ctx context.Context, dir string, name string, args ...string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	result, err := e.Runner.Run(ctx, dir, name, args...)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return err.Error(), nil
	}
	if result.Failed() {
		log.Error().
			Int("code", result.Code).
			Str("command", name).
			Str("directory", dir).
			Msg("dependency step failed")
		stderr := strings.TrimSpace(result.Stderr)
		if stderr == "" {
			stderr = name + " exited with code " + strconv.Itoa(result.Code)
		}
		return stderr, nil
	}
	return "", nil
}

// hasMarker does a case-insensitive search for name in dir.
func hasMarker(dir string, name string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(entry.Name(), name) {
			return true
		}
	}
	return false
}
