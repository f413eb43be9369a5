// Package shared provides common utility functions used across multiple
// packages in the mmpm codebase.
package shared

import (
	"fmt"
	"path"
	"strings"
)

// SanitizeTitle strips characters from a package title that would be unsafe
// as a directory name component.
func SanitizeTitle(value string) string {
	trimmed := strings.TrimSpace(value)
	replacer := strings.NewReplacer("/", "", "\\", "", "\x00", "")
	return replacer.Replace(trimmed)
}

// TitleFromRemote derives a project name from a git remote URL: the basename
// of the URL path, minus any .git suffix.
func TitleFromRemote(remote string) string {
	trimmed := strings.TrimSpace(remote)
	trimmed = strings.TrimSuffix(trimmed, "/")
	return strings.TrimSuffix(path.Base(trimmed), ".git")
}

// CommandError wraps a command's trimmed output and exit code for cleaner
// error messages.
func CommandError(code int, stderr string) error {
	return fmt.Errorf("exit %d: %s", code, strings.TrimSpace(stderr))
}

// HTTPStatusError creates a formatted error for non-2xx HTTP responses.
func HTTPStatusError(status int, url string) error {
	return fmt.Errorf("status=%d url=%s", status, url)
}
