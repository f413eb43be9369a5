package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	debversion "github.com/knqyf263/go-deb-version"

	"mmpm/internal/shared"
)

// toolVersionURL serves the version constant of the latest published release.
const toolVersionURL = "https://raw.githubusercontent.com/Bee-Mar/mmpm/master/mmpm/__version__.py"

var versionPattern = regexp.MustCompile(`version\s*=\s*"([^"]+)"`)

// toolUpdateAvailable fetches the latest released version and compares it
// against the running one.
func (s Service) toolUpdateAvailable(ctx context.Context) (bool, error) {
	remote, err := s.fetchRemoteVersion(ctx)
	if err != nil {
		return false, err
	}

	current, err := debversion.NewVersion(s.Version)
	if err != nil {
		return false, fmt.Errorf("running version %q is not parseable: %w", s.Version, err)
	}
	latest, err := debversion.NewVersion(remote)
	if err != nil {
		return false, fmt.Errorf("published version %q is not parseable: %w", remote, err)
	}
	return latest.GreaterThan(current), nil
}

func (s Service) fetchRemoteVersion(ctx context.Context) (string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, toolVersionURL, nil)
	if err != nil {
		return "", err
	}
	client := &http.Client{Timeout: 15 * time.Second}
	response, err := client.Do(request)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return "", shared.HTTPStatusError(response.StatusCode, toolVersionURL)
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, 1<<16))
	if err != nil {
		return "", err
	}
	match := versionPattern.FindSubmatch(body)
	if match == nil {
		return "", fmt.Errorf("no version constant found at %s", toolVersionURL)
	}
	return string(match[1]), nil
}
