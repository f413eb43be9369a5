package ports

import "context"

// ProcessController starts, stops and restarts the dashboard process. The
// supervisor (pm2, docker-compose, or a plain npm start) is a black box; only
// the outcome matters here.
type ProcessController interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Restart(ctx context.Context) error

	// Running reports whether a dashboard process is currently up. Used only
	// for the post-upgrade restart reminder, so a best-effort answer is fine.
	Running(ctx context.Context) bool
}
