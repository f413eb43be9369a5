package app

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"mmpm/internal/core"
	"mmpm/internal/types"
)

// Upgrade performs the upgrades previously recorded by CheckForUpdates. With
// no titles, everything pending is offered one confirmation at a time. With
// titles, only the named items are considered; a title with nothing pending
// is reported and skipped. The tool and dashboard application are addressed
// by their ledger names.
func (s Service) Upgrade(ctx context.Context, titles []string, assumeYes bool) error {
	ledger, err := s.ledger().Load()
	if err != nil {
		return err
	}
	env, _ := ledger.Environment(s.Env.Root)

	if !ledger.Tool && !env.App && len(env.Packages) == 0 {
		fmt.Println("All packages are up to date")
		return nil
	}

	confirmed, err := s.confirmUpgrades(ctx, ledger, env, titles, assumeYes)
	if err != nil {
		return err
	}
	if len(confirmed.Packages) == 0 && !confirmed.Tool && !confirmed.App {
		fmt.Println("Nothing to upgrade")
		return nil
	}
	return s.engine().Upgrade(ctx, confirmed)
}

func (s Service) confirmUpgrades(ctx context.Context, ledger types.Ledger, env *types.EnvironmentUpgrades, titles []string, assumeYes bool) (core.ConfirmedUpgrades, error) {
	pending := env.Packages
	wantTool := ledger.Tool
	wantApp := env.App

	if len(titles) > 0 {
		selected := []types.PackageRecord{}
		for _, title := range titles {
			switch title {
			case types.LedgerToolKey:
				if !wantTool {
					fmt.Println(color.RedString("No upgrade is pending for '%s'", title))
				}
				continue
			case types.LedgerAppKey:
				if !wantApp {
					fmt.Println(color.RedString("No upgrade is pending for '%s'", title))
				}
				continue
			}
			found := false
			for _, pkg := range pending {
				if pkg.Title == title {
					selected = append(selected, pkg)
					found = true
				}
			}
			if !found {
				fmt.Println(color.RedString("No upgrade is pending for '%s'", title))
			}
		}
		pending = selected
		wantTool = wantTool && containsTitle(titles, types.LedgerToolKey)
		wantApp = wantApp && containsTitle(titles, types.LedgerAppKey)
	}

	confirmed := core.ConfirmedUpgrades{Packages: []types.PackageRecord{}}
	for _, pkg := range pending {
		if err := ctx.Err(); err != nil {
			return core.ConfirmedUpgrades{}, err
		}
		ok, err := s.Prompt.Confirm(ctx,
			fmt.Sprintf("Upgrade %s (%s)?", color.GreenString(pkg.Title), pkg.Repository),
			assumeYes,
		)
		if err != nil {
			return core.ConfirmedUpgrades{}, err
		}
		if ok {
			confirmed.Packages = append(confirmed.Packages, pkg)
		}
	}

	if wantTool {
		ok, err := s.Prompt.Confirm(ctx,
			fmt.Sprintf("Upgrade %s?", color.GreenString(types.LedgerToolKey)),
			assumeYes,
		)
		if err != nil {
			return core.ConfirmedUpgrades{}, err
		}
		confirmed.Tool = ok
	}
	if wantApp {
		ok, err := s.Prompt.Confirm(ctx,
			fmt.Sprintf("Upgrade %s?", color.GreenString(types.LedgerAppKey)),
			assumeYes,
		)
		if err != nil {
			return core.ConfirmedUpgrades{}, err
		}
		confirmed.App = ok
	}
	return confirmed, nil
}

func containsTitle(titles []string, target string) bool {
	for _, title := range titles {
		if title == target {
			return true
		}
	}
	return false
}
