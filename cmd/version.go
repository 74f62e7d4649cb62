package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hanley0809-ux/climbing-points-app/internal/release"
)

// version is set via -ldflags at build time.
var version = release.DevVersion

func newReleaseChecker() *release.Checker {
	return release.NewChecker("hanley0809-ux", "climbing-points-app")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("climbpoints", version)

		if check, _ := cmd.Flags().GetBool("check"); !check {
			return nil
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()

		res, err := newReleaseChecker().Check(ctx, version)
		switch {
		case errors.Is(err, release.ErrDevBuild):
			fmt.Println("Development build; no release to compare against.")
			return nil
		case errors.Is(err, release.ErrNoReleases):
			fmt.Println("No releases published yet.")
			return nil
		case err != nil:
			return fmt.Errorf("check for updates: %w", err)
		}

		if res.UpdateAvailable {
			fmt.Printf("New version %s available: %s\n", res.LatestVersion, res.ReleaseURL)
		} else {
			fmt.Println("Already running the latest version.")
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("check", false, "Check GitHub for a newer release")
}
