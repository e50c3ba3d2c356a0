package catalog

import "strconv"

// Category groups catalog entries for display and selection rules.
type Category string

const (
	CategoryInfra    Category = "infra"
	CategoryDatabase Category = "database"
	CategoryStorage  Category = "storage"
	CategoryApp      Category = "app"
	CategoryUtil     Category = "util"
	// CategoryFuture marks reserved menu slots that can never be selected.
	CategoryFuture Category = "future"
)

// Entry is one installable application in the console catalog.
type Entry struct {
	ID       string
	Name     string
	Category Category
}

// Selectable reports whether the entry can be marked for installation.
func (e Entry) Selectable() bool {
	return e.Category != CategoryFuture
}

// totalSlots is the fixed number of menu rows; real entries are padded with
// "coming soon" placeholders up to this count.
const totalSlots = 34

var entries = buildEntries()

func buildEntries() []Entry {
	base := []Entry{
		{ID: "basic", Name: "Basic Setup (E-mail, Hostname, DNS)", Category: CategoryInfra},
		{ID: "smtp", Name: "SMTP Setup (Outbound Email)", Category: CategoryInfra},
		{ID: "docker", Name: "Docker Swarm (Engine and Cluster)", Category: CategoryInfra},
		{ID: "traefik", Name: "Traefik (Reverse Proxy with SSL)", Category: CategoryInfra},
		{ID: "portainer", Name: "Portainer (Docker Manager)", Category: CategoryInfra},
		{ID: "redis", Name: "Redis (Cache and Session Store)", Category: CategoryDatabase},
		{ID: "postgres", Name: "PostgreSQL (Relational Database)", Category: CategoryDatabase},
		{ID: "pgvector", Name: "PgVector (Vector Extension)", Category: CategoryDatabase},
		{ID: "minio", Name: "MinIO (S3 Compatible Storage)", Category: CategoryStorage},
		{ID: "chatwoot", Name: "Chatwoot (Customer Support)", Category: CategoryApp},
		{ID: "directus", Name: "Directus (Headless CMS)", Category: CategoryApp},
		{ID: "n8n", Name: "N8N (Workflow Automation)", Category: CategoryApp},
		{ID: "grafana", Name: "Grafana (Monitoring Stack)", Category: CategoryApp},
		{ID: "gowa", Name: "GOWA (WhatsApp API)", Category: CategoryApp},
		{ID: "passbolt", Name: "Passbolt (Password Manager)", Category: CategoryApp},
		{ID: "evolution", Name: "Evolution API (WhatsApp v2)", Category: CategoryApp},
		{ID: "cleanup", Name: "Cleanup (Environment Teardown)", Category: CategoryUtil},
	}

	for i := len(base) + 1; i <= totalSlots; i++ {
		base = append(base, Entry{
			ID:       placeholderID(i),
			Name:     "Coming soon",
			Category: CategoryFuture,
		})
	}
	return base
}

func placeholderID(slot int) string {
	// Slot numbers keep placeholder ids unique and stable.
	return "reserved-" + strconv.Itoa(slot)
}

// All returns the full catalog in menu order. The slice is shared; callers
// must not mutate it.
func All() []Entry {
	return entries
}

// ByID looks up a catalog entry.
func ByID(id string) (Entry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// SelectableIDs returns the ids of every entry that can be marked.
func SelectableIDs() []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Selectable() {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Dependencies maps each application to the applications that must be
// installed before it. The map is hand curated and kept acyclic; the resolver
// validates that at runtime.
var Dependencies = map[string][]string{
	"smtp":      {"basic"},
	"docker":    {"basic"},
	"traefik":   {"docker"},
	"portainer": {"traefik"},
	"redis":     {"docker"},
	"postgres":  {"docker"},
	"pgvector":  {"portainer"},
	"minio":     {"traefik"},
	"chatwoot":  {"traefik", "pgvector"},
	"directus":  {"traefik", "postgres", "redis"},
	"n8n":       {"traefik", "postgres", "redis"},
	"grafana":   {"traefik"},
	"gowa":      {"traefik"},
	"passbolt":  {"traefik"},
	"evolution": {"traefik", "postgres", "redis"},
}

// InfraOrder lists foundational steps in the order they must always run.
// Entries not listed here are ordered lexicographically after these.
var InfraOrder = []string{"basic", "smtp", "docker", "traefik", "portainer"}

// ConfigOnlyIDs are steps that never appear as swarm services; their install
// state comes from the persistent state store instead of the orchestrator.
var ConfigOnlyIDs = []string{"basic", "smtp", "docker"}
