package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(WithConfigPath(filepath.Join(t.TempDir(), "config.json")))
	require.NoError(t, err)

	assert.Equal(t, "Tarius", cfg.AssistantName)
	assert.Equal(t, "User", cfg.UserName)
	assert.True(t, cfg.ProactiveReminders)
	assert.Equal(t, 10, cfg.MaxRecentMessages)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	doc := `{
    "user_name": "Ada",
    "assistant_name": "Tarius",
    "proactive_reminders": false,
    "max_recent_messages": 25
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := Load(WithConfigPath(path))
	require.NoError(t, err)

	assert.Equal(t, "Ada", cfg.UserName)
	assert.False(t, cfg.ProactiveReminders)
	assert.Equal(t, 25, cfg.MaxRecentMessages)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"user_name": "Ada"}`), 0644))

	t.Setenv("TARIUS_USER_NAME", "Grace")

	cfg, err := Load(WithConfigPath(path))
	require.NoError(t, err)
	assert.Equal(t, "Grace", cfg.UserName)
}

func TestLoad_MalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(WithConfigPath(path))
	require.Error(t, err)
}

func TestSave_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.json")

	cfg, err := Load(WithConfigPath(path))
	require.NoError(t, err)

	cfg.UserName = "Ada"
	cfg.MaxRecentMessages = 42
	require.NoError(t, cfg.Save())

	reloaded, err := Load(WithConfigPath(path))
	require.NoError(t, err)
	assert.Equal(t, "Ada", reloaded.UserName)
	assert.Equal(t, 42, reloaded.MaxRecentMessages)
}

func TestDataPaths(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/tmp/tarius"

	assert.Equal(t, "/tmp/tarius/calendar/events.json", cfg.EventsPath())
	assert.Equal(t, "/tmp/tarius/tasks/tasks.json", cfg.TasksPath())
	assert.Equal(t, "/tmp/tarius/memory/conversations", cfg.ConversationsDir())
}
