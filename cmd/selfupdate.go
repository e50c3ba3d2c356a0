package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// githubRepoSlug is where releases are published.
const githubRepoSlug = "livchat/vpsctl"

func newSelfUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "self-update",
		Short: "Update vpsctl to the latest release",
		Long: `Checks for the latest release on GitHub and replaces the
current binary when a newer version is available.`,
		RunE: runSelfUpdate,
	}
}

func runSelfUpdate(_ *cobra.Command, _ []string) error {
	version := rootCmd.Version
	if version == "" || version == "dev" {
		return fmt.Errorf("cannot self-update a development version, install a released build first")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	repo := selfupdate.ParseSlug(githubRepoSlug)
	latest, found, err := selfupdate.DetectLatest(ctx, repo)
	if err != nil {
		return fmt.Errorf("checking for updates: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", githubRepoSlug)
	}

	if latest.LessOrEqual(version) {
		fmt.Printf("vpsctl %s is already the latest version\n", version)
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locating current binary: %w", err)
	}

	fmt.Printf("Updating vpsctl %s -> %s\n", version, latest.Version())
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("applying update: %w", err)
	}
	fmt.Printf("Updated to vpsctl %s\n", latest.Version())
	return nil
}
