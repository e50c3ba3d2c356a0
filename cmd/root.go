package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
// Running vpsctl bare opens the interactive menu, matching how operators
// use the tool day to day.
var rootCmd = &cobra.Command{
	Use:   "vpsctl",
	Short: "Bootstrap and manage a Docker Swarm application server",
	Long: `vpsctl turns a fresh VPS into a Docker Swarm application server.
It installs the base system, the swarm and a catalog of application
stacks (Traefik, Portainer, Chatwoot, N8N and more) behind an
interactive console that shows live service status.`,
	// SilenceUsage prevents printing the usage block on errors we handle
	// ourselves (failed installs, cancelled sessions).
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMenu(cmd, args)
	},
}

// SetVersion sets the version for the root command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and runs it. Called by
// main.main() exactly once.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "vpsctl version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already printed the error, just exit non-zero.
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newMenuCmd())
	rootCmd.AddCommand(newInstallCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newCredentialsCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
