package types

import "strings"

// CommandResult is the outcome of one subprocess invocation. Non-zero exit
// codes are data inspected by the caller, never errors propagated as
// control flow.
type CommandResult struct {
	Code   int
	Stdout string
	Stderr string
}

// Failed reports a non-zero exit code.
func (r CommandResult) Failed() bool { return r.Code != 0 }

// Output returns the trimmed combined output, stderr last. Git writes most
// of its human-facing output to stderr, so callers that only want "did the
// command print anything" use this.
func (r CommandResult) Output() string {
	return strings.TrimSpace(strings.TrimSpace(r.Stdout) + "\n" + strings.TrimSpace(r.Stderr))
}
