package installer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vpsctl/internal/catalog"
	"vpsctl/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptRunner answers every command from a canned table keyed by the first
// two arguments and records what was invoked.
type scriptRunner struct {
	responses map[string]string
	calls     []string
}

func (r *scriptRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	call := name + " " + strings.Join(args, " ")
	r.calls = append(r.calls, call)
	for prefix, out := range r.responses {
		if strings.HasPrefix(call, prefix) {
			return out, nil
		}
	}
	return "", nil
}

func (r *scriptRunner) called(prefix string) bool {
	for _, c := range r.calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

// cannedPrompter returns fixed answers without a terminal.
type cannedPrompter struct {
	inputs  map[string]string
	confirm bool
}

func (p cannedPrompter) Input(title, placeholder string) (string, error) {
	for key, value := range p.inputs {
		if strings.Contains(title, key) {
			return value, nil
		}
	}
	return placeholder, nil
}

func (p cannedPrompter) Confirm(string, string, string) (bool, error) {
	return p.confirm, nil
}

func testDeps(t *testing.T, runner *scriptRunner, prompter Prompter) Deps {
	t.Helper()
	store := config.OpenStore(filepath.Join(t.TempDir(), "state.json"))
	settings := config.GetDefaultSettings()
	settings.InstallTimeoutSeconds = 5
	return Deps{Runner: runner, Store: store, Settings: settings, Prompter: prompter}
}

func TestRegistryCoversEveryCatalogEntry(t *testing.T) {
	deps := testDeps(t, &scriptRunner{}, cannedPrompter{})
	registry, err := NewRegistry(deps)
	require.NoError(t, err)

	for _, entry := range catalog.All() {
		if !entry.Selectable() {
			continue
		}
		m, ok := registry.Get(entry.ID)
		require.True(t, ok, "missing module for %s", entry.ID)
		assert.Equal(t, entry.ID, m.ID())
	}

	_, ok := registry.Get("reserved-20")
	assert.False(t, ok)
}

func TestStackModuleDeploysAndRecordsState(t *testing.T) {
	runner := &scriptRunner{responses: map[string]string{
		"docker info":       "active",
		"docker service ls": "1/1",
	}}
	prompter := cannedPrompter{inputs: map[string]string{"Domain": "monitor.dev.example.com"}}
	deps := testDeps(t, runner, prompter)

	module := &stackModule{deps: deps, spec: stackSpec{
		id:           "grafana",
		template:     grafanaTemplate,
		needsDomain:  true,
		passwordKeys: []string{"admin_password"},
	}}

	require.True(t, module.Validate())
	require.True(t, module.Run())

	assert.True(t, runner.called("docker stack deploy"))
	assert.True(t, deps.Store.IsAppInstalled("grafana"))
	assert.Equal(t, "monitor.dev.example.com", deps.Store.AppConfig("grafana")["domain"])

	creds := deps.Store.AppCredentials("grafana")
	assert.Len(t, creds["admin_password"], 64)
}

func TestStackModuleSkipsWithoutDomain(t *testing.T) {
	runner := &scriptRunner{responses: map[string]string{"docker info": "active"}}
	prompter := cannedPrompter{inputs: map[string]string{"Domain": ""}}
	deps := testDeps(t, runner, prompter)

	module := &stackModule{deps: deps, spec: stackSpec{
		id:          "portainer",
		template:    portainerTemplate,
		needsDomain: true,
	}}

	assert.False(t, module.Run())
	assert.False(t, runner.called("docker stack deploy"))
	assert.False(t, deps.Store.IsAppInstalled("portainer"))
}

func TestCleanupModuleNeedsConfirmation(t *testing.T) {
	runner := &scriptRunner{responses: map[string]string{
		"docker stack ls": "traefik\nportainer",
	}}
	deps := testDeps(t, runner, cannedPrompter{confirm: false})

	module := &cleanupModule{deps: deps}
	assert.True(t, module.Run())
	assert.False(t, runner.called("docker stack rm"))

	deps.Prompter = cannedPrompter{confirm: true}
	module = &cleanupModule{deps: deps}
	assert.True(t, module.Run())
	assert.True(t, runner.called("docker stack rm traefik"))
	assert.True(t, runner.called("docker stack rm portainer"))
}

func TestRenderComposeSubstitutesValues(t *testing.T) {
	deps := testDeps(t, &scriptRunner{}, cannedPrompter{})
	module := &stackModule{deps: deps, spec: stackSpec{id: "redis", template: redisTemplate}}

	path, err := module.renderCompose(templateData{
		Stack:   "redis",
		Network: "orion_network",
		Secrets: map[string]string{"password": "s3cret"},
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "s3cret")
	assert.Contains(t, string(raw), "orion_network")
	assert.NotContains(t, string(raw), "{{")
}
