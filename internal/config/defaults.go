package config

// GetDefaultSettings returns the built-in configuration used when no config
// file overrides it.
func GetDefaultSettings() Settings {
	return Settings{
		PollIntervalSeconds:   2,
		MonitorTimeoutSeconds: 5,
		InstallTimeoutSeconds: 300,
		StopOnError:           true,
		NetworkName:           "orion_network",
		StatePath:             "/root/vpsctl-state.json",
	}
}
