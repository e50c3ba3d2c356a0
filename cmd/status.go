package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"vpsctl/internal/catalog"
	"vpsctl/internal/config"
	"vpsctl/internal/monitor"
	"vpsctl/pkg/logging"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print a one-shot status table for all applications",
		RunE:  runStatus,
	}
}

func runStatus(_ *cobra.Command, _ []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	logging.InitForCLI(logging.LevelWarn, os.Stderr)

	store := config.OpenStore(settings.StatePath)
	mon := monitor.New(monitor.ExecRunner{}, store,
		time.Duration(settings.PollIntervalSeconds)*time.Second,
		time.Duration(settings.MonitorTimeoutSeconds)*time.Second)
	snapshots := mon.Refresh()

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAPPLICATION\tSTATE\tREPLICAS\tCPU\tMEM")
	for _, entry := range catalog.All() {
		if !entry.Selectable() {
			continue
		}
		snap := snapshots[entry.ID]
		state := string(snap.State)
		if state == "" {
			state = string(monitor.StateAbsent)
		}
		cpu, mem := "-", "-"
		if snap.HasStats {
			cpu = fmt.Sprintf("%.1f%%", snap.CPUPercent)
			mem = fmt.Sprintf("%.0fMB", snap.MemMB)
		}
		replicas := snap.Replicas
		if replicas == "" {
			replicas = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			entry.ID, entry.Name, state, replicas, cpu, mem)
	}
	return w.Flush()
}
