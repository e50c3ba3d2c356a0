package installer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"vpsctl/internal/config"
	"vpsctl/pkg/logging"
)

// stackSpec declares one compose-stack application: what to prompt for, which
// secrets to generate and the stack template to deploy.
type stackSpec struct {
	id           string
	template     string
	needsDomain  bool
	needsEmail   bool
	passwordKeys []string
}

// stackSpecs drives the generic stack installer. Adding an application here
// plus a catalog entry is all it takes to make it installable.
var stackSpecs = []stackSpec{
	{id: "traefik", template: traefikTemplate, needsEmail: true},
	{id: "portainer", template: portainerTemplate, needsDomain: true},
	{id: "redis", template: redisTemplate, passwordKeys: []string{"password"}},
	{id: "postgres", template: postgresTemplate, passwordKeys: []string{"password"}},
	{id: "pgvector", template: pgvectorTemplate, passwordKeys: []string{"password"}},
	{id: "minio", template: minioTemplate, needsDomain: true, passwordKeys: []string{"root_password"}},
	{id: "chatwoot", template: chatwootTemplate, needsDomain: true, needsEmail: true, passwordKeys: []string{"secret_key_base"}},
	{id: "directus", template: directusTemplate, needsDomain: true, needsEmail: true, passwordKeys: []string{"admin_password", "key", "secret"}},
	{id: "n8n", template: n8nTemplate, needsDomain: true, passwordKeys: []string{"encryption_key"}},
	{id: "grafana", template: grafanaTemplate, needsDomain: true, passwordKeys: []string{"admin_password"}},
	{id: "gowa", template: gowaTemplate, needsDomain: true, passwordKeys: []string{"basic_auth_password"}},
	{id: "passbolt", template: passboltTemplate, needsDomain: true, needsEmail: true, passwordKeys: []string{"db_password"}},
	{id: "evolution", template: evolutionTemplate, needsDomain: true, passwordKeys: []string{"api_key"}},
}

// templateData is what every stack template renders against.
type templateData struct {
	Stack   string
	Network string
	Domain  string
	Email   string
	Secrets map[string]string
}

// stackModule is the generic installer for compose-stack applications.
type stackModule struct {
	deps Deps
	spec stackSpec
}

func (m *stackModule) ID() string { return m.spec.id }

// Validate requires an active swarm; stack deploys cannot work without one.
func (m *stackModule) Validate() bool { return swarmActive(m.deps) }

func (m *stackModule) Run() bool {
	id := m.spec.id
	logging.Info("Installer", "installing %s", id)

	data := templateData{
		Stack:   id,
		Network: m.deps.Settings.NetworkName,
		Secrets: make(map[string]string),
	}
	if stored := m.deps.Store.NetworkName(); stored != "" {
		data.Network = stored
	}

	if m.spec.needsDomain {
		suggested := m.deps.Store.SuggestDomain(id)
		domain, err := m.deps.Prompter.Input("Domain for "+id, suggested)
		if err != nil {
			logging.Error("Installer", err, "domain prompt for %s failed", id)
			return false
		}
		domain = strings.TrimSpace(domain)
		if domain == "" {
			domain = suggested
		}
		if domain == "" {
			logging.Warn("Installer", "no domain provided, skipping %s", id)
			return false
		}
		data.Domain = domain
	}

	if m.spec.needsEmail {
		email := m.deps.Store.UserEmail()
		if email == "" {
			value, err := m.deps.Prompter.Input("Email for "+id, "admin@example.com")
			if err != nil || strings.TrimSpace(value) == "" {
				logging.Warn("Installer", "no email provided, skipping %s", id)
				return false
			}
			email = strings.TrimSpace(value)
		}
		data.Email = email
	}

	for _, key := range m.spec.passwordKeys {
		data.Secrets[key] = config.GenerateSecurePassword(64)
	}

	composePath, err := m.renderCompose(data)
	if err != nil {
		logging.Error("Installer", err, "rendering stack file for %s failed", id)
		return false
	}
	defer os.Remove(composePath)

	if _, err := runCommand(m.deps, "docker", "stack", "deploy", "-c", composePath, id); err != nil {
		logging.Error("Installer", err, "stack deploy for %s failed", id)
		return false
	}

	if !waitForServiceRunning(m.deps, id, 3*time.Minute) {
		logging.Error("Installer", nil, "%s did not become ready", id)
		return false
	}

	appConfig := map[string]string{}
	if data.Domain != "" {
		appConfig["domain"] = data.Domain
	}
	if data.Email != "" {
		appConfig["email"] = data.Email
	}
	if err := m.deps.Store.SaveAppConfig(id, appConfig); err != nil {
		logging.Error("Installer", err, "recording %s install failed", id)
		return false
	}
	if len(data.Secrets) > 0 {
		creds := copySecrets(data.Secrets)
		if data.Email != "" {
			creds["username"] = data.Email
		}
		if err := m.deps.Store.SaveAppCredentials(id, creds); err != nil {
			logging.Error("Installer", err, "storing %s credentials failed", id)
			return false
		}
	}

	logging.Info("Installer", "%s installed", id)
	return true
}

// renderCompose writes the rendered stack file to a private temp path and
// returns it.
func (m *stackModule) renderCompose(data templateData) (string, error) {
	tmpl, err := template.New(m.spec.id).Parse(m.spec.template)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	dir := filepath.Join(os.TempDir(), "vpsctl")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	path := filepath.Join(dir, m.spec.id+".yml")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return "", err
	}
	return path, nil
}

func copySecrets(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
