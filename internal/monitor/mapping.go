package monitor

import "strings"

// namePattern maps raw orchestrator names to canonical catalog ids by
// substring match. The table is ordered; the first matching pattern wins, so
// more specific patterns (pgvector) come before generic ones (postgres).
type namePattern struct {
	id       string
	patterns []string
}

var nameTable = []namePattern{
	{"traefik", []string{"traefik"}},
	{"portainer", []string{"portainer", "portainer-agent"}},
	{"redis", []string{"redis"}},
	{"pgvector", []string{"pgvector"}},
	{"postgres", []string{"postgres", "postgresql"}},
	{"minio", []string{"minio"}},
	{"chatwoot", []string{"chatwoot", "chatwoot-web", "chatwoot-worker"}},
	{"directus", []string{"directus"}},
	{"n8n", []string{"n8n"}},
	{"grafana", []string{"grafana", "prometheus", "loki"}},
	{"gowa", []string{"gowa"}},
	{"passbolt", []string{"passbolt"}},
	{"evolution", []string{"evolution", "evolution-api"}},
}

// serviceID maps a swarm service name to a catalog id; unmapped names are
// dropped by the monitor.
func serviceID(serviceName string) (string, bool) {
	lower := strings.ToLower(serviceName)
	for _, entry := range nameTable {
		for _, pattern := range entry.patterns {
			if strings.Contains(lower, pattern) {
				return entry.id, true
			}
		}
	}
	return "", false
}

// containerID maps a container name to a catalog id. Swarm task names look
// like "stack_service.1.xxxx"; when no pattern matches directly, the stack
// prefix before the first underscore is tried.
func containerID(containerName string) (string, bool) {
	if id, ok := serviceID(containerName); ok {
		return id, true
	}
	if i := strings.IndexByte(containerName, '_'); i > 0 {
		return serviceID(containerName[:i])
	}
	return "", false
}
