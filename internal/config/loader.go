package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/vpsctl"
	projectConfigDir = ".vpsctl"
	configFileName   = "config.yaml"
)

// LoadSettings loads the vpsctl configuration by layering default, user, and
// project settings.
func LoadSettings() (Settings, error) {
	// 1. Start with the default configuration
	settings := GetDefaultSettings()

	// 2. Determine user-specific configuration path
	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// User config is optional, keep going with defaults
		fmt.Fprintf(os.Stderr, "Warning: could not determine user config path: %v\n", err)
	} else {
		if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
			userSettings, err := loadSettingsFromFile(userConfigPath)
			if err != nil {
				return Settings{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
			}
			settings = mergeSettings(settings, userSettings)
		}
	}

	// 3. Determine project-specific configuration path
	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not determine project config path: %v\n", err)
	} else {
		if _, err := os.Stat(projectConfigPath); !os.IsNotExist(err) {
			projectSettings, err := loadSettingsFromFile(projectConfigPath)
			if err != nil {
				return Settings{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
			}
			settings = mergeSettings(settings, projectSettings)
		}
	}

	return settings, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

func loadSettingsFromFile(filePath string) (Settings, error) {
	var settings Settings
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Settings{}, err
	}
	err = yaml.Unmarshal(data, &settings)
	if err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// mergeSettings merges 'overlay' into 'base'; non-zero overlay fields win.
func mergeSettings(base, overlay Settings) Settings {
	merged := base

	if overlay.PollIntervalSeconds != 0 {
		merged.PollIntervalSeconds = overlay.PollIntervalSeconds
	}
	if overlay.MonitorTimeoutSeconds != 0 {
		merged.MonitorTimeoutSeconds = overlay.MonitorTimeoutSeconds
	}
	if overlay.InstallTimeoutSeconds != 0 {
		merged.InstallTimeoutSeconds = overlay.InstallTimeoutSeconds
	}
	// StopOnError defaults to true and a bool overlay cannot distinguish
	// "unset" from "false", so config files can only leave it on. Turning it
	// off is a per-run decision made with the --stop-on-error flag.
	if overlay.StopOnError {
		merged.StopOnError = true
	}
	if overlay.NetworkName != "" {
		merged.NetworkName = overlay.NetworkName
	}
	if overlay.StatePath != "" {
		merged.StatePath = overlay.StatePath
	}

	return merged
}
