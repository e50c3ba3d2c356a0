package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"vpsctl/internal/catalog"
	"vpsctl/internal/config"
	"vpsctl/internal/console"
	"vpsctl/internal/deps"
	"vpsctl/internal/executor"
	"vpsctl/internal/installer"
	"vpsctl/internal/monitor"
	"vpsctl/pkg/logging"
)

func newMenuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Open the interactive installation console",
		Long: `Opens the selection console with live service status. Marked
applications are expanded with their prerequisites, confirmed and
installed in dependency order.`,
		RunE: runMenu,
	}
}

func runMenu(cmd *cobra.Command, _ []string) error {
	if err := requireRoot(); err != nil {
		return err
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	store := config.OpenStore(settings.StatePath)
	runner := monitor.ExecRunner{}

	// Buffer log lines while the console owns the terminal; they are
	// replayed after the session so they never corrupt the frame.
	logCh := logging.InitForTUI(logging.LevelInfo)
	var buffered []logging.LogEntry
	logDone := make(chan struct{})
	go func() {
		defer close(logDone)
		for entry := range logCh {
			buffered = append(buffered, entry)
		}
	}()

	mon := monitor.New(runner, store,
		time.Duration(settings.PollIntervalSeconds)*time.Second,
		time.Duration(settings.MonitorTimeoutSeconds)*time.Second)
	mon.Start()

	outcome, err := console.Run(mon, time.Duration(settings.PollIntervalSeconds)*time.Second)

	mon.Stop()
	logging.CloseTUIChannel()
	<-logDone
	logging.InitForCLI(logging.LevelInfo, os.Stderr)
	for _, entry := range buffered {
		if entry.Level >= logging.LevelWarn {
			fmt.Fprintf(os.Stderr, "%s [%s] %s\n", entry.Level, entry.Subsystem, entry.Message)
		}
	}

	if err != nil {
		return err
	}
	if !outcome.Confirmed || len(outcome.Selected) == 0 {
		fmt.Println("Nothing selected.")
		return nil
	}

	if err := deps.ValidateInfraOrder(); err != nil {
		return err
	}
	plan, err := deps.Resolve(outcome.Selected)
	if err != nil {
		return fmt.Errorf("resolving installation order: %w", err)
	}

	if !confirmPlan(plan) {
		fmt.Println("Installation cancelled.")
		return nil
	}

	registry, err := installer.NewRegistry(installer.Deps{
		Runner:   runner,
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

// confirmPlan shows the resolved order, flagging the steps pulled in as
// prerequisites, and asks for a final go-ahead.
func confirmPlan(plan deps.Plan) bool {
	fmt.Println("Installation order:")
	for i, step := range plan.Steps {
		name := step.ID
		if entry, ok := catalog.ByID(step.ID); ok {
			name = entry.Name
		}
		if step.Origin == deps.OriginDependency {
			fmt.Printf("  %2d. %s (required dependency)\n", i+1, name)
		} else {
			fmt.Printf("  %2d. %s\n", i+1, name)
		}
	}

	confirmed := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Install %d applications?", len(plan.Steps))).
			Affirmative("Install").
			Negative("Cancel").
			Value(&confirmed),
	))
	if err := form.Run(); err != nil {
		return false
	}
	return confirmed
}

// requireRoot refuses to run install flows as a regular user; every module
// shells out to apt, hostnamectl and docker.
func requireRoot() error {
	if os.Geteuid() != 0 {
		return fmt.Errorf("vpsctl must run as root (try sudo)")
	}
	return nil
}
