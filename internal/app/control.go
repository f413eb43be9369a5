package app

import "context"

// StartDashboard brings the dashboard process up through the configured
// supervisor.
func (s Service) StartDashboard(ctx context.Context) error {
	return s.Control.Start(ctx)
}

// StopDashboard brings the dashboard process down.
func (s Service) StopDashboard(ctx context.Context) error {
	return s.Control.Stop(ctx)
}

// RestartDashboard restarts the dashboard process.
func (s Service) RestartDashboard(ctx context.Context) error {
	return s.Control.Restart(ctx)
}
