package config

// Settings is the process-wide configuration, constructed once at startup and
// passed by handle into every component that needs it.
type Settings struct {
	// PollIntervalSeconds is how often the status monitor queries the
	// orchestrator.
	PollIntervalSeconds int `yaml:"pollIntervalSeconds"`
	// MonitorTimeoutSeconds bounds a single orchestrator query; a tick that
	// exceeds it is abandoned and the previous snapshot keeps serving.
	MonitorTimeoutSeconds int `yaml:"monitorTimeoutSeconds"`
	// InstallTimeoutSeconds bounds a single install shell command.
	InstallTimeoutSeconds int `yaml:"installTimeoutSeconds"`
	// StopOnError aborts an execution plan on the first failed module.
	StopOnError bool `yaml:"stopOnError"`
	// NetworkName is the overlay network shared by all deployed stacks.
	NetworkName string `yaml:"networkName"`
	// StatePath is the JSON file holding installed apps and credentials.
	StatePath string `yaml:"statePath"`
}
