package core

import "github.com/ZanzyTHEbar/errbuilder-go"

// configurationError marks a missing or misconfigured environment. These
// always abort the operation and exit non-zero; they are never skipped.
func configurationError(msg string, cause error) error {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(msg)
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return builder
}
