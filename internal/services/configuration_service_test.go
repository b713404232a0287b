package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearAPIKeyEnv blanks every credential variable so host configuration
// cannot leak into the test.
func clearAPIKeyEnv(t *testing.T) {
	t.Helper()
	for _, key := range apiKeyChain {
		t.Setenv(key, "")
	}
}

func writeEnvFile(t *testing.T, dir, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(contents), 0o644))
}

func TestConfigurationService_Name(t *testing.T) {
	assert.Equal(t, "configuration", NewConfigurationService().Name())
}

func TestConfigurationService_Defaults(t *testing.T) {
	clearAPIKeyEnv(t)
	t.Chdir(t.TempDir())

	service := NewConfigurationServiceWithDir(t.TempDir())
	require.NoError(t, service.Initialize())
	assert.True(t, service.initialized)

	assert.Equal(t, "warn", service.GetValue("AXORA_LOG_LEVEL"))

	_, err := service.GetAPIKey()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "API key not configured")
}

func TestConfigurationService_GetAPIKey_Uninitialized(t *testing.T) {
	service := NewConfigurationService()
	_, err := service.GetAPIKey()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestConfigurationService_ConfigDirEnvFile(t *testing.T) {
	clearAPIKeyEnv(t)
	t.Chdir(t.TempDir())

	configDir := t.TempDir()
	writeEnvFile(t, configDir, "GEMINI_API_KEY=from-config\n")

	service := NewConfigurationServiceWithDir(configDir)
	require.NoError(t, service.Initialize())

	key, err := service.GetAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "from-config", key)
}

func TestConfigurationService_LocalEnvOverridesConfigDir(t *testing.T) {
	clearAPIKeyEnv(t)

	workDir := t.TempDir()
	t.Chdir(workDir)
	writeEnvFile(t, workDir, "GEMINI_API_KEY=from-local\n")

	configDir := t.TempDir()
	writeEnvFile(t, configDir, "GEMINI_API_KEY=from-config\n")

	service := NewConfigurationServiceWithDir(configDir)
	require.NoError(t, service.Initialize())

	key, err := service.GetAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "from-local", key)
}

func TestConfigurationService_EnvironmentOverridesFiles(t *testing.T) {
	clearAPIKeyEnv(t)

	workDir := t.TempDir()
	t.Chdir(workDir)
	writeEnvFile(t, workDir, "GEMINI_API_KEY=from-local\n")

	t.Setenv("GEMINI_API_KEY", "from-env")

	service := NewConfigurationServiceWithDir(t.TempDir())
	require.NoError(t, service.Initialize())

	key, err := service.GetAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)
}

func TestConfigurationService_APIKeyChainOrder(t *testing.T) {
	clearAPIKeyEnv(t)
	t.Chdir(t.TempDir())

	t.Setenv("AXORA_GEMINI_API_KEY", "axora-key")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("GOOGLE_API_KEY", "google-key")

	service := NewConfigurationServiceWithDir(t.TempDir())
	require.NoError(t, service.Initialize())

	key, err := service.GetAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "axora-key", key)
}

func TestConfigurationService_FallsBackThroughChain(t *testing.T) {
	clearAPIKeyEnv(t)
	t.Chdir(t.TempDir())

	t.Setenv("GOOGLE_API_KEY", "google-key")

	service := NewConfigurationServiceWithDir(t.TempDir())
	require.NoError(t, service.Initialize())

	key, err := service.GetAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "google-key", key)
}

func TestConfigurationService_PrefixedEnvIsLoaded(t *testing.T) {
	clearAPIKeyEnv(t)
	t.Chdir(t.TempDir())

	t.Setenv("AXORA_LOG_LEVEL", "debug")
	t.Setenv("RANDOM_UNRELATED_VAR", "ignored")

	service := NewConfigurationServiceWithDir(t.TempDir())
	require.NoError(t, service.Initialize())

	assert.Equal(t, "debug", service.GetValue("AXORA_LOG_LEVEL"))
	assert.Equal(t, "", service.GetValue("RANDOM_UNRELATED_VAR"))
}

func TestConfigurationService_SetValue(t *testing.T) {
	clearAPIKeyEnv(t)
	t.Chdir(t.TempDir())

	service := NewConfigurationServiceWithDir(t.TempDir())
	require.NoError(t, service.Initialize())

	service.SetValue("GEMINI_API_KEY", "injected")

	key, err := service.GetAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "injected", key)
}

func TestConfigurationService_MissingEnvFilesAreFine(t *testing.T) {
	clearAPIKeyEnv(t)
	t.Chdir(t.TempDir())

	service := NewConfigurationServiceWithDir(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, service.Initialize())
	assert.Equal(t, "warn", service.GetValue("AXORA_LOG_LEVEL"))
}
