package ports

import "context"

// ActiveModule is one module reported by the running dashboard.
type ActiveModule struct {
	Name   string `json:"name"`
	Hidden bool   `json:"hidden"`
}

// StatusBridge is the websocket channel into a running dashboard instance.
// Each call connects, emits one request, waits for the terminal event, and
// disconnects. Connection failures are reported to the caller and are never
// fatal to the process.
type StatusBridge interface {
	ActiveModules(ctx context.Context) ([]ActiveModule, error)

	// HideModules and ShowModules return the names the dashboard failed to
	// resolve.
	HideModules(ctx context.Context, names []string) ([]string, error)
	ShowModules(ctx context.Context, names []string) ([]string, error)
}
