package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"vpsctl/pkg/logging"
)

// Store is the persistent state of the bootstrap tool: which applications are
// installed, their generated credentials and the global values shared between
// install modules. It replaces the scattered per-app files of older versions
// with a single JSON document.
type Store struct {
	path string

	mu   sync.Mutex
	data storeData
}

type storeData struct {
	Global       globalData                   `json:"global"`
	Cloudflare   cloudflareData               `json:"cloudflare"`
	Credentials  map[string]map[string]string `json:"credentials"`
	Applications map[string]map[string]string `json:"applications"`
}

type globalData struct {
	UserEmail        string `json:"user_email"`
	DefaultSubdomain string `json:"default_subdomain"`
	NetworkName      string `json:"network_name"`
	Hostname         string `json:"hostname"`
	InstallationDate string `json:"installation_date"`
	LastUpdated      string `json:"last_updated,omitempty"`
	Version          string `json:"version"`
}

type cloudflareData struct {
	APIToken string `json:"api_token"`
	ZoneID   string `json:"zone_id"`
	ZoneName string `json:"zone_name"`
	Email    string `json:"email,omitempty"`
	Enabled  bool   `json:"enabled"`
}

const storeVersion = "2.0"

// OpenStore loads the state store at path, creating an empty one if the file
// does not exist. A corrupt file is logged and replaced with a fresh store
// rather than aborting the whole tool.
func OpenStore(path string) *Store {
	s := &Store{path: path}
	s.data = emptyStoreData()

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("Store", "could not read state file %s: %v", path, err)
		}
		return s
	}

	var loaded storeData
	if err := json.Unmarshal(raw, &loaded); err != nil {
		logging.Warn("Store", "corrupt state file %s, starting fresh: %v", path, err)
		return s
	}

	if loaded.Credentials == nil {
		loaded.Credentials = make(map[string]map[string]string)
	}
	if loaded.Applications == nil {
		loaded.Applications = make(map[string]map[string]string)
	}
	if loaded.Global.InstallationDate == "" {
		loaded.Global.InstallationDate = s.data.Global.InstallationDate
	}
	if loaded.Global.Version == "" {
		loaded.Global.Version = storeVersion
	}
	s.data = loaded
	return s
}

func emptyStoreData() storeData {
	return storeData{
		Global: globalData{
			InstallationDate: time.Now().Format(time.RFC3339),
			Version:          storeVersion,
		},
		Credentials:  make(map[string]map[string]string),
		Applications: make(map[string]map[string]string),
	}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// save persists the store; callers must hold s.mu.
func (s *Store) save() error {
	s.data.Global.LastUpdated = time.Now().Format(time.RFC3339)

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("writing state to %s: %w", s.path, err)
	}
	return nil
}

// Hostname returns the configured server hostname.
func (s *Store) Hostname() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Global.Hostname
}

// SetHostname records the server hostname.
func (s *Store) SetHostname(hostname string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Global.Hostname = hostname
	return s.save()
}

// UserEmail returns the operator's default email.
func (s *Store) UserEmail() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Global.UserEmail
}

// SetUserEmail records the operator's default email.
func (s *Store) SetUserEmail(email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Global.UserEmail = email
	return s.save()
}

// NetworkName returns the overlay network recorded at docker setup time.
func (s *Store) NetworkName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Global.NetworkName
}

// SetNetworkName records the overlay network name.
func (s *Store) SetNetworkName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Global.NetworkName = name
	return s.save()
}

// IsAppInstalled reports whether an application has completed installation.
// Steps without a swarm service (basic, smtp, docker) use this to derive
// their configured/absent state in the status monitor.
func (s *Store) IsAppInstalled(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data.Applications[id]
	return ok
}

// SaveAppConfig merges config values for an application and stamps the
// configured_at time, marking the application installed.
func (s *Store) SaveAppConfig(id string, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	app := s.data.Applications[id]
	if app == nil {
		app = make(map[string]string)
	}
	for k, v := range values {
		app[k] = v
	}
	app["configured_at"] = time.Now().Format(time.RFC3339)
	s.data.Applications[id] = app
	return s.save()
}

// AppConfig returns a copy of the stored config for an application.
func (s *Store) AppConfig(id string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyValues(s.data.Applications[id])
}

// RemoveApp forgets an application's install record and credentials. Used by
// the cleanup module after tearing the environment down.
func (s *Store) RemoveApp(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data.Applications, id)
	delete(s.data.Credentials, id)
	return s.save()
}

// SaveAppCredentials stores generated credentials for an application.
func (s *Store) SaveAppCredentials(id string, creds map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copyValues(creds)
	stored["created_at"] = time.Now().Format(time.RFC3339)
	s.data.Credentials[id] = stored
	return s.save()
}

// AppCredentials returns a copy of the stored credentials for an application.
func (s *Store) AppCredentials(id string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyValues(s.data.Credentials[id])
}

// InstalledApps lists every application id with an install record.
func (s *Store) InstalledApps() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.data.Applications))
	for id := range s.data.Applications {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SuggestDomain proposes a host name for an application from the configured
// subdomain and Cloudflare zone, using short per-app prefixes.
func (s *Store) SuggestDomain(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	subdomain := s.data.Global.DefaultSubdomain
	zone := s.data.Cloudflare.ZoneName
	if subdomain == "" || zone == "" {
		return ""
	}

	prefixes := map[string]string{
		"portainer": "ptn",
		"chatwoot":  "chat",
		"directus":  "cms",
		"n8n":       "edt",
		"grafana":   "monitor",
		"passbolt":  "pass",
		"evolution": "evo",
	}
	prefix, ok := prefixes[id]
	if !ok {
		prefix = id
	}
	return fmt.Sprintf("%s.%s.%s", prefix, subdomain, zone)
}

func copyValues(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
