package app

import "context"

// Install resolves the requested titles against the catalog and installs the
// matches one at a time, each behind its own confirmation. Returns whether
// any package was installed.
func (s Service) Install(ctx context.Context, titles []string, assumeYes bool) (bool, error) {
	catalog, err := s.LoadCatalog(ctx, false)
	if err != nil {
		return false, err
	}
	engine := s.engine()
	targets := engine.ResolveInstallTargets(catalog, titles)
	return engine.Install(ctx, targets, assumeYes)
}

// Remove uninstalls the requested packages from the modules directory.
// Returns whether any package was removed.
func (s Service) Remove(ctx context.Context, titles []string, assumeYes bool) (bool, error) {
	installed, err := s.ListInstalled(ctx)
	if err != nil {
		return false, err
	}
	return s.engine().Remove(ctx, installed, titles, assumeYes)
}
