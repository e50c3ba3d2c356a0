package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultSettings(t *testing.T) {
	settings := GetDefaultSettings()

	assert.Equal(t, 2, settings.PollIntervalSeconds)
	assert.Equal(t, 5, settings.MonitorTimeoutSeconds)
	assert.Equal(t, 300, settings.InstallTimeoutSeconds)
	assert.True(t, settings.StopOnError)
	assert.Equal(t, "orion_network", settings.NetworkName)
	assert.NotEmpty(t, settings.StatePath)
}

func TestLoadSettingsLayersUserAndProject(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()

	userDir := filepath.Join(home, userConfigDir)
	require.NoError(t, os.MkdirAll(userDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(userDir, configFileName),
		[]byte("pollIntervalSeconds: 5\nnetworkName: user_net\n"), 0o644))

	projectDir := filepath.Join(project, projectConfigDir)
	require.NoError(t, os.MkdirAll(projectDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, configFileName),
		[]byte("networkName: project_net\n"), 0o644))

	origHome, origWd := osUserHomeDir, osGetwd
	defer func() { osUserHomeDir, osGetwd = origHome, origWd }()
	osUserHomeDir = func() (string, error) { return home, nil }
	osGetwd = func() (string, error) { return project, nil }

	settings, err := LoadSettings()
	require.NoError(t, err)

	// User overlay wins over defaults, project overlay wins over user.
	assert.Equal(t, 5, settings.PollIntervalSeconds)
	assert.Equal(t, "project_net", settings.NetworkName)
	assert.Equal(t, 300, settings.InstallTimeoutSeconds)
}

func TestLoadSettingsRejectsMalformedFile(t *testing.T) {
	home := t.TempDir()
	userDir := filepath.Join(home, userConfigDir)
	require.NoError(t, os.MkdirAll(userDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(userDir, configFileName),
		[]byte("pollIntervalSeconds: [not a number\n"), 0o644))

	origHome, origWd := osUserHomeDir, osGetwd
	defer func() { osUserHomeDir, osGetwd = origHome, origWd }()
	osUserHomeDir = func() (string, error) { return home, nil }
	osGetwd = func() (string, error) { return t.TempDir(), nil }

	_, err := LoadSettings()
	assert.Error(t, err)
}

func TestMergeSettingsOverlayWins(t *testing.T) {
	base := GetDefaultSettings()
	merged := mergeSettings(base, Settings{PollIntervalSeconds: 10})

	assert.Equal(t, 10, merged.PollIntervalSeconds)
	assert.Equal(t, base.NetworkName, merged.NetworkName)

	// Zero overlay changes nothing.
	assert.Equal(t, base, mergeSettings(base, Settings{}))
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	store := OpenStore(path)
	require.NoError(t, store.SetHostname("srv01"))
	require.NoError(t, store.SetUserEmail("ops@example.com"))
	require.NoError(t, store.SaveAppConfig("traefik", map[string]string{"email": "ops@example.com"}))
	require.NoError(t, store.SaveAppCredentials("redis", map[string]string{"password": "hunter2"}))

	reopened := OpenStore(path)
	assert.Equal(t, "srv01", reopened.Hostname())
	assert.Equal(t, "ops@example.com", reopened.UserEmail())
	assert.True(t, reopened.IsAppInstalled("traefik"))
	assert.False(t, reopened.IsAppInstalled("redis"))
	assert.Equal(t, "hunter2", reopened.AppCredentials("redis")["password"])
	assert.NotEmpty(t, reopened.AppConfig("traefik")["configured_at"])
}

func TestStoreRemoveApp(t *testing.T) {
	store := OpenStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, store.SaveAppConfig("n8n", map[string]string{"domain": "edt.example.com"}))
	require.NoError(t, store.SaveAppCredentials("n8n", map[string]string{"encryption_key": "k"}))
	require.True(t, store.IsAppInstalled("n8n"))

	require.NoError(t, store.RemoveApp("n8n"))
	assert.False(t, store.IsAppInstalled("n8n"))
	assert.Empty(t, store.AppCredentials("n8n"))
}

func TestStoreSurvivesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := OpenStore(path)
	assert.Empty(t, store.InstalledApps())
	require.NoError(t, store.SetHostname("srv02"))
	assert.Equal(t, "srv02", OpenStore(path).Hostname())
}

func TestInstalledAppsSorted(t *testing.T) {
	store := OpenStore(filepath.Join(t.TempDir(), "state.json"))
	for _, id := range []string{"redis", "basic", "n8n"} {
		require.NoError(t, store.SaveAppConfig(id, nil))
	}
	assert.Equal(t, []string{"basic", "n8n", "redis"}, store.InstalledApps())
}

func TestSuggestDomainUsesKnownPrefixes(t *testing.T) {
	store := OpenStore(filepath.Join(t.TempDir(), "state.json"))

	// Without a configured zone there is nothing to suggest.
	assert.Empty(t, store.SuggestDomain("portainer"))
}

func TestGenerateSecurePassword(t *testing.T) {
	password := GenerateSecurePassword(64)
	require.Len(t, password, 64)

	assert.True(t, strings.ContainsAny(password, lowerChars))
	assert.True(t, strings.ContainsAny(password, upperChars))
	assert.True(t, strings.ContainsAny(password, digitChars))
	assert.True(t, strings.ContainsAny(password, specialChars))

	assert.NotEqual(t, password, GenerateSecurePassword(64))
	assert.Len(t, GenerateSecurePassword(1), 4)
}
