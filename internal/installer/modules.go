package installer

import (
	"strings"

	"vpsctl/pkg/logging"
)

// basicModule prepares the base OS: package baseline, timezone, hostname.
type basicModule struct {
	deps Deps
}

func (m *basicModule) ID() string { return "basic" }

func (m *basicModule) Validate() bool { return true }

var basicPackages = []string{
	"apt-utils",
	"apparmor-utils",
	"curl",
	"wget",
	"ca-certificates",
	"gnupg",
	"lsb-release",
}

func (m *basicModule) Run() bool {
	logging.Info("Installer", "starting basic system setup")

	if _, err := runCommand(m.deps, "apt-get", "update"); err != nil {
		logging.Error("Installer", err, "apt-get update failed")
		return false
	}
	args := append([]string{"install", "-y"}, basicPackages...)
	if _, err := runCommand(m.deps, "apt-get", args...); err != nil {
		logging.Error("Installer", err, "base package installation failed")
		return false
	}
	if _, err := runCommand(m.deps, "timedatectl", "set-timezone", "America/Sao_Paulo"); err != nil {
		logging.Warn("Installer", "could not set timezone: %v", err)
	}

	hostname := m.deps.Store.Hostname()
	if hostname == "" {
		value, err := m.deps.Prompter.Input("Server hostname", "srv01")
		if err != nil || strings.TrimSpace(value) == "" {
			logging.Warn("Installer", "no hostname provided, keeping current one")
		} else {
			hostname = strings.TrimSpace(value)
		}
	}
	if hostname != "" {
		if _, err := runCommand(m.deps, "hostnamectl", "set-hostname", hostname); err != nil {
			logging.Error("Installer", err, "setting hostname failed")
			return false
		}
		if err := m.deps.Store.SetHostname(hostname); err != nil {
			logging.Warn("Installer", "could not persist hostname: %v", err)
		}
	}

	email := m.deps.Store.UserEmail()
	if email == "" {
		value, err := m.deps.Prompter.Input("Default email for SSL certificates and logins", "admin@example.com")
		if err == nil && strings.TrimSpace(value) != "" {
			email = strings.TrimSpace(value)
			if err := m.deps.Store.SetUserEmail(email); err != nil {
				logging.Warn("Installer", "could not persist email: %v", err)
			}
		}
	}

	if err := m.deps.Store.SaveAppConfig("basic", map[string]string{"hostname": hostname}); err != nil {
		logging.Error("Installer", err, "recording basic setup failed")
		return false
	}
	logging.Info("Installer", "basic system setup complete")
	return true
}

// smtpModule records outbound email settings used by application stacks.
type smtpModule struct {
	deps Deps
}

func (m *smtpModule) ID() string { return "smtp" }

func (m *smtpModule) Validate() bool { return true }

func (m *smtpModule) Run() bool {
	host, err := m.deps.Prompter.Input("SMTP host", "smtp.example.com")
	if err != nil || strings.TrimSpace(host) == "" {
		logging.Warn("Installer", "no SMTP host provided, skipping SMTP setup")
		return false
	}
	port, err := m.deps.Prompter.Input("SMTP port", "587")
	if err != nil || strings.TrimSpace(port) == "" {
		port = "587"
	}
	user, err := m.deps.Prompter.Input("SMTP user", "")
	if err != nil {
		return false
	}
	password, err := m.deps.Prompter.Input("SMTP password", "")
	if err != nil {
		return false
	}

	if err := m.deps.Store.SaveAppConfig("smtp", map[string]string{
		"host": strings.TrimSpace(host),
		"port": strings.TrimSpace(port),
	}); err != nil {
		logging.Error("Installer", err, "recording SMTP settings failed")
		return false
	}
	if err := m.deps.Store.SaveAppCredentials("smtp", map[string]string{
		"username": strings.TrimSpace(user),
		"password": password,
	}); err != nil {
		logging.Error("Installer", err, "storing SMTP credentials failed")
		return false
	}
	logging.Info("Installer", "SMTP settings recorded")
	return true
}

// dockerModule installs the engine, initializes swarm mode and creates the
// shared overlay network.
type dockerModule struct {
	deps Deps
}

func (m *dockerModule) ID() string { return "docker" }

func (m *dockerModule) Validate() bool { return true }

func (m *dockerModule) Run() bool {
	logging.Info("Installer", "installing docker engine")

	if _, err := runCommand(m.deps, "sh", "-c", "curl -fsSL https://get.docker.com | sh"); err != nil {
		logging.Error("Installer", err, "docker engine installation failed")
		return false
	}

	if !swarmActive(m.deps) {
		if _, err := runCommand(m.deps, "docker", "swarm", "init"); err != nil {
			logging.Error("Installer", err, "swarm init failed")
			return false
		}
	}

	network := m.deps.Settings.NetworkName
	out, err := runCommand(m.deps, "docker", "network", "ls", "--format", "{{.Name}}")
	if err != nil {
		logging.Error("Installer", err, "listing networks failed")
		return false
	}
	exists := false
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == network {
			exists = true
			break
		}
	}
	if !exists {
		if _, err := runCommand(m.deps, "docker", "network", "create", "--driver", "overlay", "--attachable", network); err != nil {
			logging.Error("Installer", err, "creating overlay network %s failed", network)
			return false
		}
	}

	if err := m.deps.Store.SetNetworkName(network); err != nil {
		logging.Warn("Installer", "could not persist network name: %v", err)
	}
	if err := m.deps.Store.SaveAppConfig("docker", map[string]string{"network": network}); err != nil {
		logging.Error("Installer", err, "recording docker setup failed")
		return false
	}
	logging.Info("Installer", "docker swarm ready on network %s", network)
	return true
}

// cleanupModule tears the whole environment down. It is destructive, so it
// demands an explicit confirmation before touching anything.
type cleanupModule struct {
	deps Deps
}

func (m *cleanupModule) ID() string { return "cleanup" }

func (m *cleanupModule) Validate() bool { return swarmActive(m.deps) }

func (m *cleanupModule) Run() bool {
	confirmed, err := m.deps.Prompter.Confirm(
		"This removes ALL stacks, project volumes and networks from the swarm. Continue?",
		"Yes, remove everything",
		"Cancel",
	)
	if err != nil || !confirmed {
		logging.Info("Installer", "cleanup cancelled by operator")
		return true
	}

	out, err := runCommand(m.deps, "docker", "stack", "ls", "--format", "{{.Name}}")
	if err != nil {
		logging.Error("Installer", err, "listing stacks failed")
		return false
	}
	for _, stack := range strings.Fields(out) {
		if _, err := runCommand(m.deps, "docker", "stack", "rm", stack); err != nil {
			logging.Warn("Installer", "removing stack %s failed: %v", stack, err)
		}
	}

	if _, err := runCommand(m.deps, "docker", "system", "prune", "-f", "--volumes"); err != nil {
		logging.Warn("Installer", "system prune failed: %v", err)
	}
	if _, err := runCommand(m.deps, "docker", "swarm", "leave", "--force"); err != nil {
		logging.Warn("Installer", "leaving swarm failed: %v", err)
	}

	for _, id := range m.deps.Store.InstalledApps() {
		if err := m.deps.Store.RemoveApp(id); err != nil {
			logging.Warn("Installer", "forgetting %s failed: %v", id, err)
		}
	}
	logging.Info("Installer", "environment cleanup complete")
	return true
}
