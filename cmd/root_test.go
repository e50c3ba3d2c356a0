package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestSetVersion(t *testing.T) {
	originalVersion := rootCmd.Version
	defer func() { rootCmd.Version = originalVersion }()

	testVersion := "1.2.3-test"
	SetVersion(testVersion)

	if rootCmd.Version != testVersion {
		t.Errorf("Expected version to be %s, got %s", testVersion, rootCmd.Version)
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "vpsctl" {
		t.Errorf("Expected Use to be 'vpsctl', got %s", rootCmd.Use)
	}
	if rootCmd.Short == "" {
		t.Error("Expected Short description to be set")
	}
	if rootCmd.Long == "" {
		t.Error("Expected Long description to be set")
	}
	if !rootCmd.SilenceUsage {
		t.Error("Expected SilenceUsage to be true")
	}
}

func TestRootHasSubcommands(t *testing.T) {
	expected := []string{"menu", "install", "status", "credentials", "version", "self-update"}
	for _, name := range expected {
		found := false
		for _, sub := range rootCmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected subcommand %q to be registered", name)
		}
	}
}

func TestVersionTemplate(t *testing.T) {
	testCmd := &cobra.Command{
		Use:     "test",
		Version: "1.0.0",
	}
	testCmd.SetVersionTemplate(`{{printf "vpsctl version %s\n" .Version}}`)

	var buf bytes.Buffer
	testCmd.SetOut(&buf)
	testCmd.SetArgs([]string{"--version"})

	if err := testCmd.Execute(); err != nil {
		t.Fatalf("Error executing version command: %v", err)
	}
	if !strings.Contains(buf.String(), "vpsctl version 1.0.0") {
		t.Errorf("Unexpected version output: %q", buf.String())
	}
}

func TestInstallCommandFlags(t *testing.T) {
	installCmd := newInstallCmd()

	if installCmd.Flags().Lookup("module") == nil {
		t.Error("Expected --module flag to be defined")
	}
	if installCmd.Flags().Lookup("stop-on-error") == nil {
		t.Error("Expected --stop-on-error flag to be defined")
	}
}

func TestCredentialsCommandRequiresArg(t *testing.T) {
	credentialsCmd := newCredentialsCmd()
	credentialsCmd.SetOut(new(bytes.Buffer))
	credentialsCmd.SetErr(new(bytes.Buffer))
	credentialsCmd.SetArgs([]string{})

	if err := credentialsCmd.Execute(); err == nil {
		t.Error("Expected an error when no application argument is given")
	}
}
