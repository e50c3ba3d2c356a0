// Package installer holds the install collaborator modules invoked by the
// execution driver. Every selectable catalog id maps to exactly one module;
// the registry is checked at construction so a missing module is caught at
// startup, not mid-run.
package installer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vpsctl/internal/catalog"
	"vpsctl/internal/config"
	"vpsctl/internal/monitor"
	"vpsctl/pkg/logging"
)

// Installer is the contract between the execution driver and one
// application's install module. Run performs its own prompting, templating,
// deployment and readiness waiting; failures are logged by the module itself
// and reported only as a boolean.
type Installer interface {
	ID() string
	Validate() bool
	Run() bool
}

// Deps bundles the collaborators shared by all install modules.
type Deps struct {
	Runner   monitor.Runner
	Store    *config.Store
	Settings config.Settings
	Prompter Prompter
}

// Registry maps catalog ids to their install modules.
type Registry struct {
	modules map[string]Installer
}

// NewRegistry constructs every install module and verifies that each
// selectable catalog entry has one.
func NewRegistry(deps Deps) (*Registry, error) {
	if deps.Prompter == nil {
		deps.Prompter = TerminalPrompter{}
	}

	modules := make(map[string]Installer)
	add := func(m Installer) {
		modules[m.ID()] = m
	}

	add(&basicModule{deps: deps})
	add(&smtpModule{deps: deps})
	add(&dockerModule{deps: deps})
	add(&cleanupModule{deps: deps})
	for _, spec := range stackSpecs {
		add(&stackModule{deps: deps, spec: spec})
	}

	for _, entry := range catalog.All() {
		if !entry.Selectable() {
			continue
		}
		if _, ok := modules[entry.ID]; !ok {
			return nil, fmt.Errorf("no install module registered for catalog id %q", entry.ID)
		}
	}
	return &Registry{modules: modules}, nil
}

// Get returns the module for a catalog id.
func (r *Registry) Get(id string) (Installer, bool) {
	m, ok := r.modules[id]
	return m, ok
}

// runCommand executes a shell step with the configured install timeout.
func runCommand(deps Deps, name string, args ...string) (string, error) {
	timeout := time.Duration(deps.Settings.InstallTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return deps.Runner.Run(ctx, name, args...)
}

// swarmActive checks the local node state through the runner.
func swarmActive(deps Deps) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out, err := deps.Runner.Run(ctx, "docker", "info", "--format", "{{.Swarm.LocalNodeState}}")
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(out), "active")
}

// waitForServiceRunning polls the orchestrator until the named stack reports
// at least one running replica or the deadline passes.
func waitForServiceRunning(deps Deps, stack string, deadline time.Duration) bool {
	end := time.Now().Add(deadline)
	for time.Now().Before(end) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		out, err := deps.Runner.Run(ctx, "docker", "service", "ls",
			"--filter", "name="+stack, "--format", "{{.Replicas}}")
		cancel()
		if err == nil {
			for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
				parts := strings.SplitN(strings.TrimSpace(line), "/", 2)
				if len(parts) == 2 && parts[0] != "0" && parts[0] != "" {
					return true
				}
			}
		}
		time.Sleep(2 * time.Second)
	}
	logging.Warn("Installer", "service %s did not report running replicas within %s", stack, deadline)
	return false
}
