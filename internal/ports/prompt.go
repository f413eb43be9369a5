package ports

import "context"

// Prompter gathers interactive confirmation and input from the user. An
// interrupt while a prompt is pending, whether a cancelled context or a
// closed input stream, surfaces as an error satisfying
// errors.Is(err, context.Canceled) so the caller unwinds through the central
// cleanup path with the distinguished interrupt status.
type Prompter interface {
	// Confirm asks a yes/no question. When assumeYes is set the prompt is
	// skipped and true is returned.
	Confirm(ctx context.Context, prompt string, assumeYes bool) (bool, error)

	// Input reads a non-empty line, re-prompting while the response is empty
	// or matches one of the forbidden values.
	Input(ctx context.Context, prompt string, forbidden []string) (string, error)
}
