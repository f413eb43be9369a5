package app

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"mmpm/internal/ports"
)

// ActiveModules reports the modules currently loaded by the running
// dashboard, via its websocket.
func (s Service) ActiveModules(ctx context.Context) ([]ports.ActiveModule, error) {
	return s.Bridge.ActiveModules(ctx)
}

// HideModules asks the running dashboard to hide the named modules. Modules
// the dashboard could not hide are reported; partial success is not an error.
func (s Service) HideModules(ctx context.Context, names []string) error {
	fails, err := s.Bridge.HideModules(ctx, names)
	if err != nil {
		return err
	}
	reportVisibilityFails(fails)
	return nil
}

// ShowModules asks the running dashboard to reveal the named modules.
func (s Service) ShowModules(ctx context.Context, names []string) error {
	fails, err := s.Bridge.ShowModules(ctx, names)
	if err != nil {
		return err
	}
	reportVisibilityFails(fails)
	return nil
}

func reportVisibilityFails(fails []string) {
	for _, name := range fails {
		fmt.Println(color.RedString("No module named '%s' is active", name))
	}
}
