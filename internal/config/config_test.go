package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/config"
)

func TestNew_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.New(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, config.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, config.DefaultTimeout, cfg.Timeout)
	assert.Empty(t, cfg.LogFile)
}

func TestNew_ReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := "base_url = \"https://todo.example.com/api\"\ntimeout = \"3s\"\nlog_file = \"/tmp/taskflow.log\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte(content), 0600))

	cfg, err := config.New(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://todo.example.com/api", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "/tmp/taskflow.log", cfg.LogFile)
}

func TestNew_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte("base_url = \"http://file\"\n"), 0600))
	t.Setenv("TASKFLOW_BASE_URL", "http://env")

	cfg, err := config.New(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://env", cfg.BaseURL)
}

func TestNew_InvalidConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte("base_url = [unterminated"), 0600))

	_, err := config.New(dir)
	assert.Error(t, err)
}

func TestNew_InvalidTimeout(t *testing.T) {
	for _, value := range []string{"10 sec", "soon", "-1s"} {
		dir := t.TempDir()
		content := "timeout = \"" + value + "\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte(content), 0600))

		_, err := config.New(dir)
		require.Error(t, err, value)
		assert.Contains(t, err.Error(), "invalid config.toml", value)
	}
}

func TestNew_InvalidTimeoutFromEnv(t *testing.T) {
	t.Setenv("TASKFLOW_TIMEOUT", "10 sec")

	_, err := config.New(t.TempDir())
	assert.Error(t, err)
}

func TestNew_ZeroTimeoutDisables(t *testing.T) {
	t.Setenv("TASKFLOW_TIMEOUT", "0")

	cfg, err := config.New(t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, cfg.Timeout)
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "taskflow"), config.DefaultConfigDir())
}

func TestPaths(t *testing.T) {
	cfg := &config.Config{Dir: "/cfg"}
	assert.Equal(t, filepath.Join("/cfg", "user.json"), cfg.UserPath())
	assert.Equal(t, filepath.Join("/cfg", "token"), cfg.TokenPath())
	assert.Equal(t, config.DefaultBaseURL, cfg.APIBaseURL())
}
