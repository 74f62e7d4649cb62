package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/hanley0809-ux/climbing-points-app/internal/app"
	"github.com/hanley0809-ux/climbing-points-app/internal/screens/home"
)

// runApp opens the stores, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	rec, err := e.recorder(ctx)
	if err != nil {
		return err
	}

	return app.Run(app.Options{
		Home: home.Deps{
			Recorder:      rec,
			Rows:          e.climbs,
			Scales:        e.scales,
			Climber:       e.cfg.Climber,
			Now:           time.Now,
			LatestVersion: latestRelease(ctx),
		},
		SaveClimber: func(name string) error {
			return e.saveClimber(cmd, name)
		},
	})
}

// latestRelease returns a newer release tag, or "" when up to date or
// the check fails. It never blocks startup for long.
func latestRelease(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	res, err := newReleaseChecker().Check(ctx, version)
	if err != nil || !res.UpdateAvailable {
		return ""
	}
	return res.LatestVersion
}
