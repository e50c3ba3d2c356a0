package deps

import (
	"testing"

	"vpsctl/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveChatwootClosure(t *testing.T) {
	plan, err := Resolve([]string{"chatwoot"})
	require.NoError(t, err)

	ids := plan.IDs()
	assert.ElementsMatch(t, []string{"basic", "docker", "traefik", "portainer", "pgvector", "chatwoot"}, ids)
	assert.Equal(t, "basic", ids[0])
	assert.Equal(t, "chatwoot", ids[len(ids)-1])

	// Every prerequisite appears strictly before its dependent.
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}
	for _, id := range ids {
		for _, dep := range catalog.Dependencies[id] {
			assert.Less(t, pos[dep], pos[id], "%s must run before %s", dep, id)
		}
	}
}

func TestResolveDeduplicatesSharedPrerequisites(t *testing.T) {
	planA, err := Resolve([]string{"chatwoot", "pgvector"})
	require.NoError(t, err)
	planB, err := Resolve([]string{"chatwoot"})
	require.NoError(t, err)

	assert.ElementsMatch(t, planB.IDs(), planA.IDs())

	seen := make(map[string]int)
	for _, id := range planA.IDs() {
		seen[id]++
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "%s duplicated in plan", id)
	}
}

func TestResolveOriginTagging(t *testing.T) {
	plan, err := Resolve([]string{"chatwoot", "pgvector"})
	require.NoError(t, err)

	origins := make(map[string]Origin)
	for _, step := range plan.Steps {
		origins[step.ID] = step.Origin
	}

	assert.Equal(t, OriginUser, origins["chatwoot"])
	assert.Equal(t, OriginUser, origins["pgvector"])
	assert.Equal(t, OriginDependency, origins["traefik"])
	assert.Equal(t, OriginDependency, origins["basic"])
}

func TestResolveIsDeterministic(t *testing.T) {
	first, err := Resolve([]string{"n8n", "grafana", "minio"})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Resolve([]string{"n8n", "grafana", "minio"})
		require.NoError(t, err)
		assert.Equal(t, first.IDs(), again.IDs())
	}
}

func TestResolveUnknownID(t *testing.T) {
	_, err := Resolve([]string{"nope"})
	assert.Error(t, err)
}

func TestResolveDetectsCycle(t *testing.T) {
	original := catalog.Dependencies["basic"]
	catalog.Dependencies["basic"] = []string{"chatwoot"}
	defer func() { catalog.Dependencies["basic"] = original }()

	_, err := Resolve([]string{"chatwoot"})
	require.Error(t, err)

	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.NotEmpty(t, cycleErr.IDs)
}

func TestValidateInfraOrder(t *testing.T) {
	assert.NoError(t, ValidateInfraOrder())
}
