package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Environment keys consulted for the Gemini credential, in priority order.
var apiKeyChain = []string{"AXORA_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"}

// ConfigurationService merges configuration from the standard layers into a
// single map. Priority (highest to lowest): OS environment variables >
// local .env > config-dir .env > defaults.
type ConfigurationService struct {
	initialized bool
	configDir   string
	values      map[string]string
}

// NewConfigurationService creates a configuration service reading from the
// default config directory (~/.config/axora).
func NewConfigurationService() *ConfigurationService {
	return &ConfigurationService{
		initialized: false,
	}
}

// NewConfigurationServiceWithDir creates a configuration service reading
// its config-dir .env from the given directory. Used by tests.
func NewConfigurationServiceWithDir(dir string) *ConfigurationService {
	return &ConfigurationService{
		initialized: false,
		configDir:   dir,
	}
}

// Name returns the service name for identification.
func (c *ConfigurationService) Name() string {
	return "configuration"
}

// Initialize loads the configuration layers in priority order.
func (c *ConfigurationService) Initialize() error {
	if c.initialized {
		return nil
	}

	c.values = map[string]string{
		"AXORA_LOG_LEVEL": "warn",
	}

	// File layers, lowest priority first so later layers overwrite.
	if err := c.loadDotEnv(filepath.Join(c.resolveConfigDir(), ".env")); err != nil {
		return fmt.Errorf("failed to load config .env: %w", err)
	}
	if err := c.loadDotEnv(".env"); err != nil {
		return fmt.Errorf("failed to load local .env: %w", err)
	}

	// OS environment wins over everything. Empty values count as unset.
	for _, entry := range os.Environ() {
		key, value, found := strings.Cut(entry, "=")
		if !found || value == "" {
			continue
		}
		if strings.HasPrefix(key, "AXORA_") || key == "GEMINI_API_KEY" || key == "GOOGLE_API_KEY" {
			c.values[key] = value
		}
	}

	c.initialized = true
	return nil
}

// GetAPIKey returns the Gemini API key from the first configured source in
// the chain. Returns an error naming the expected variables when no source
// is set.
func (c *ConfigurationService) GetAPIKey() (string, error) {
	if !c.initialized {
		return "", fmt.Errorf("configuration service not initialized")
	}

	for _, key := range apiKeyChain {
		if value := c.values[key]; value != "" {
			return value, nil
		}
	}

	return "", fmt.Errorf("API key not configured (expected one of %s)", strings.Join(apiKeyChain, ", "))
}

// GetValue retrieves a configuration value by key. Returns an empty string
// when the key is not set.
func (c *ConfigurationService) GetValue(key string) string {
	if !c.initialized {
		return ""
	}
	return c.values[key]
}

// SetValue stores a configuration value, overriding any loaded layer.
func (c *ConfigurationService) SetValue(key, value string) {
	if c.values == nil {
		c.values = make(map[string]string)
	}
	c.values[key] = value
}

// loadDotEnv merges a .env file into the configuration map. A missing file
// is not an error.
func (c *ConfigurationService) loadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	parsed, err := godotenv.Read(path)
	if err != nil {
		return err
	}
	for key, value := range parsed {
		c.values[key] = value
	}
	return nil
}

// resolveConfigDir returns the directory holding the config .env file.
func (c *ConfigurationService) resolveConfigDir() string {
	if c.configDir != "" {
		return c.configDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "axora")
}
