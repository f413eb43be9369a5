package adapters

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"mmpm/internal/ports"
)

// TerminalPrompter reads confirmations and input from an interactive
// terminal. Reads happen on a dedicated goroutine so a pending prompt can be
// abandoned the moment the context is cancelled; EOF on stdin and
// cancellation both surface as the distinguished interrupt error.
type TerminalPrompter struct {
	In  io.Reader
	Out io.Writer

	once  sync.Once
	lines chan lineResult
}

type lineResult struct {
	line string
	err  error
}

func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{In: os.Stdin, Out: os.Stdout}
}

func (p *TerminalPrompter) Confirm(ctx context.Context, prompt string, assumeYes bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, promptInterrupted(err)
	}
	if assumeYes {
		return true, nil
	}
	for {
		fmt.Fprintf(p.Out, "%s [yes/no | y/n]: ", prompt)
		line, err := p.readLine(ctx)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "yes", "y":
			return true, nil
		case "no", "n":
			return false, nil
		default:
			fmt.Fprintln(p.Out, "Please respond with yes/no or y/n")
		}
	}
}

func (p *TerminalPrompter) Input(ctx context.Context, prompt string, forbidden []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", promptInterrupted(err)
	}
	for {
		fmt.Fprint(p.Out, prompt)
		line, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}
		response := strings.TrimSpace(line)
		if response == "" {
			fmt.Fprintln(p.Out, "A response is required")
			continue
		}
		if containsFold(forbidden, response) {
			fmt.Fprintf(p.Out, "%q is not a valid response here\n", response)
			continue
		}
		return response, nil
	}
}

// readLine waits for the next line from the reader goroutine or for
// cancellation, whichever comes first. The goroutine is started on first use
// and owns the reader for the lifetime of the process; a read still pending
// at cancellation is abandoned, never handed to a later prompt.
func (p *TerminalPrompter) readLine(ctx context.Context) (string, error) {
	p.once.Do(func() {
		p.lines = make(chan lineResult)
		go func() {
			reader := bufio.NewReader(p.In)
			for {
				line, err := reader.ReadString('\n')
				p.lines <- lineResult{line: line, err: err}
				if err != nil {
					return
				}
			}
		}()
	})
	select {
	case <-ctx.Done():
		return "", promptInterrupted(ctx.Err())
	case result := <-p.lines:
		if result.err != nil {
			return "", promptInterrupted(result.err)
		}
		return result.line, nil
	}
}

// promptInterrupted maps cancellation and a closed input stream to an error
// wrapping context.Canceled, which the exit path maps to the interrupt
// status instead of treating the abandoned prompt as an internal failure.
func promptInterrupted(cause error) error {
	if cause == nil || errors.Is(cause, context.Canceled) {
		return fmt.Errorf("interrupted at prompt: %w", context.Canceled)
	}
	return fmt.Errorf("interrupted at prompt (%v): %w", cause, context.Canceled)
}

func containsFold(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(value, target) {
			return true
		}
	}
	return false
}

var _ ports.Prompter = (*TerminalPrompter)(nil)
