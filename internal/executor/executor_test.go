package executor

import (
	"strings"
	"testing"

	"vpsctl/internal/deps"
	"vpsctl/internal/installer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModule struct {
	id       string
	valid    bool
	ok       bool
	runCount int
}

func (m *fakeModule) ID() string     { return m.id }
func (m *fakeModule) Validate() bool { return m.valid }
func (m *fakeModule) Run() bool {
	m.runCount++
	return m.ok
}

type fakeRegistry struct {
	modules map[string]*fakeModule
}

func (r *fakeRegistry) Get(id string) (installer.Installer, bool) {
	m, ok := r.modules[id]
	return m, ok
}

func registryOf(modules ...*fakeModule) *fakeRegistry {
	r := &fakeRegistry{modules: make(map[string]*fakeModule)}
	for _, m := range modules {
		r.modules[m.id] = m
	}
	return r
}

func planOf(steps ...deps.Step) deps.Plan {
	return deps.Plan{Steps: steps}
}

func TestExecuteRunsStepsInOrder(t *testing.T) {
	docker := &fakeModule{id: "docker", valid: true, ok: true}
	traefik := &fakeModule{id: "traefik", valid: true, ok: true}
	driver := New(registryOf(docker, traefik), true)

	summary := driver.Execute(planOf(
		deps.Step{ID: "docker", Origin: deps.OriginDependency},
		deps.Step{ID: "traefik", Origin: deps.OriginUser},
	))

	assert.True(t, summary.AllOK())
	assert.Equal(t, 2, summary.Attempted())
	assert.Equal(t, 2, summary.Succeeded())
	assert.Equal(t, 1, docker.runCount)
	assert.Equal(t, 1, traefik.runCount)
	assert.False(t, summary.Aborted)
}

func TestExecuteStopsOnFirstFailure(t *testing.T) {
	docker := &fakeModule{id: "docker", valid: true, ok: false}
	traefik := &fakeModule{id: "traefik", valid: true, ok: true}
	driver := New(registryOf(docker, traefik), true)

	summary := driver.Execute(planOf(
		deps.Step{ID: "docker", Origin: deps.OriginDependency},
		deps.Step{ID: "traefik", Origin: deps.OriginUser},
	))

	assert.True(t, summary.Aborted)
	assert.Equal(t, 1, summary.Attempted())
	assert.Equal(t, 0, traefik.runCount)
	require.Len(t, summary.Results, 2)
	assert.True(t, summary.Results[1].Skipped)
	assert.Equal(t, []string{"docker"}, summary.FailedIDs())
}

func TestExecuteContinuesWhenStopOnErrorOff(t *testing.T) {
	docker := &fakeModule{id: "docker", valid: true, ok: false}
	traefik := &fakeModule{id: "traefik", valid: true, ok: true}
	driver := New(registryOf(docker, traefik), false)

	summary := driver.Execute(planOf(
		deps.Step{ID: "docker", Origin: deps.OriginDependency},
		deps.Step{ID: "traefik", Origin: deps.OriginUser},
	))

	assert.False(t, summary.Aborted)
	assert.Equal(t, 2, summary.Attempted())
	assert.Equal(t, 1, traefik.runCount)
	assert.Equal(t, []string{"docker"}, summary.FailedIDs())
	assert.False(t, summary.AllOK())
}

func TestExecuteFailedValidationSkipsRun(t *testing.T) {
	traefik := &fakeModule{id: "traefik", valid: false, ok: true}
	driver := New(registryOf(traefik), true)

	summary := driver.Execute(planOf(deps.Step{ID: "traefik", Origin: deps.OriginUser}))

	assert.Equal(t, 0, traefik.runCount)
	assert.Equal(t, []string{"traefik"}, summary.FailedIDs())
}

func TestExecuteUnknownModuleFails(t *testing.T) {
	driver := New(registryOf(), false)

	summary := driver.Execute(planOf(deps.Step{ID: "ghost", Origin: deps.OriginUser}))

	assert.False(t, summary.AllOK())
	assert.Equal(t, []string{"ghost"}, summary.FailedIDs())
}

func TestRenderSummary(t *testing.T) {
	summary := RunSummary{
		Results: []StepResult{
			{ID: "docker", Origin: deps.OriginDependency, OK: true},
			{ID: "traefik", Origin: deps.OriginUser, OK: false},
			{ID: "chatwoot", Origin: deps.OriginUser, Skipped: true},
		},
		Aborted: true,
	}

	out := Render(summary)
	assert.Contains(t, out, "Completed 1/3 steps")
	assert.Contains(t, out, "dependency")
	assert.Contains(t, out, "skipped")
	assert.Contains(t, out, "stopped at the first failure")
	assert.True(t, strings.Contains(out, "✘"))
}
