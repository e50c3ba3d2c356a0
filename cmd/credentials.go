package cmd

import (
	"fmt"
	"sort"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"vpsctl/internal/catalog"
	"vpsctl/internal/config"
)

func newCredentialsCmd() *cobra.Command {
	var copyPassword bool

	cmd := &cobra.Command{
		Use:   "credentials <app>",
		Short: "Show stored credentials for an installed application",
		Long: `Prints the credentials generated when the application was
installed. With --copy the password is placed on the clipboard instead
of being echoed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCredentials(args[0], copyPassword)
		},
	}

	cmd.Flags().BoolVarP(&copyPassword, "copy", "c", false,
		"copy the password to the clipboard instead of printing it")
	return cmd
}

func runCredentials(id string, copyPassword bool) error {
	if _, ok := catalog.ByID(id); !ok {
		return fmt.Errorf("unknown application %q", id)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	store := config.OpenStore(settings.StatePath)

	creds := store.AppCredentials(id)
	if len(creds) == 0 {
		return fmt.Errorf("no stored credentials for %s, is it installed?", id)
	}

	keys := make([]string, 0, len(creds))
	for key := range creds {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if copyPassword {
		secret, ok := primarySecret(keys)
		if !ok {
			return fmt.Errorf("no secret value stored for %s", id)
		}
		if err := clipboard.WriteAll(creds[secret]); err != nil {
			return fmt.Errorf("copying %s to clipboard: %w", secret, err)
		}
		fmt.Printf("%s copied to clipboard\n", secret)
	}

	for _, key := range keys {
		if copyPassword && isSecretKey(key) {
			continue
		}
		fmt.Printf("%s: %s\n", key, creds[key])
	}
	return nil
}

// primarySecret picks which stored value --copy should grab when an
// application holds more than one secret.
func primarySecret(keys []string) (string, bool) {
	preferred := []string{"password", "admin_password", "root_password",
		"db_password", "basic_auth_password", "api_key", "encryption_key",
		"secret_key_base", "secret", "key"}
	for _, want := range preferred {
		for _, key := range keys {
			if key == want {
				return key, true
			}
		}
	}
	return "", false
}

// isSecretKey picks the values that --copy should keep off the terminal.
func isSecretKey(key string) bool {
	switch key {
	case "password", "api_key", "secret", "secret_key_base", "encryption_key",
		"admin_password", "root_password", "db_password", "basic_auth_password", "key":
		return true
	}
	return false
}
