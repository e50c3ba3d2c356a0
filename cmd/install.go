package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vpsctl/internal/catalog"
	"vpsctl/internal/config"
	"vpsctl/internal/deps"
	"vpsctl/internal/executor"
	"vpsctl/internal/installer"
	"vpsctl/internal/monitor"
	"vpsctl/pkg/logging"
)

func newInstallCmd() *cobra.Command {
	var (
		modules     []string
		stopOnError bool
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install applications without the interactive console",
		Long: `Installs the given modules (plus their prerequisites) in
dependency order. Without --module, the base infrastructure sequence
is installed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(modules, stopOnError, cmd.Flags().Changed("stop-on-error"))
		},
	}

	cmd.Flags().StringSliceVarP(&modules, "module", "m", nil,
		"catalog id to install, repeatable (e.g. --module traefik --module chatwoot)")
	cmd.Flags().BoolVar(&stopOnError, "stop-on-error", true,
		"abort the run at the first failed step")
	return cmd
}

func runInstall(modules []string, stopOnError, stopFlagSet bool) error {
	if err := requireRoot(); err != nil {
		return err
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	if stopFlagSet {
		settings.StopOnError = stopOnError
	}
	logging.InitForCLI(logging.LevelInfo, os.Stderr)

	if len(modules) == 0 {
		modules = append(modules, catalog.InfraOrder...)
	}
	for _, id := range modules {
		entry, ok := catalog.ByID(id)
		if !ok || !entry.Selectable() {
			return fmt.Errorf("unknown module %q, see vpsctl status for valid ids", id)
		}
	}

	if err := deps.ValidateInfraOrder(); err != nil {
		return err
	}
	plan, err := deps.Resolve(modules)
	if err != nil {
		return fmt.Errorf("resolving installation order: %w", err)
	}

	store := config.OpenStore(settings.StatePath)
	registry, err := installer.NewRegistry(installer.Deps{
		Runner:   monitor.ExecRunner{},
		Store:    store,
		Settings: settings,
	})
	if err != nil {
		return err
	}

	driver := executor.New(registry, settings.StopOnError)
	summary := driver.Execute(plan)
	fmt.Print(executor.Render(summary))

	if !summary.AllOK() {
		return fmt.Errorf("%d of %d steps failed", len(summary.FailedIDs()), len(summary.Results))
	}
	return nil
}
