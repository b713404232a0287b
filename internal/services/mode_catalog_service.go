// Package services provides the orchestration services for Axora Enigma:
// catalog lookup, context assembly, provider routing and chat coordination.
package services

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"axora/internal/data/embedded"
	"axora/pkg/axoratypes"
)

// DefaultModeID is the mode every dangling or empty mode reference
// degrades to.
const DefaultModeID = "General"

// modeCatalogFile is the embedded YAML document layout.
type modeCatalogFile struct {
	Modes []axoratypes.Mode `yaml:"modes"`
}

// ModeCatalogService loads the embedded mode registry and resolves mode
// references. The registry is static; sessions only ever reference modes
// by ID.
type ModeCatalogService struct {
	initialized bool
	modes       []axoratypes.Mode
	byID        map[string]axoratypes.Mode
}

// NewModeCatalogService creates a new mode catalog service instance.
func NewModeCatalogService() *ModeCatalogService {
	return &ModeCatalogService{
		initialized: false,
	}
}

// Name returns the service name for identification.
func (m *ModeCatalogService) Name() string {
	return "mode_catalog"
}

// Initialize loads and parses the embedded mode catalog data.
func (m *ModeCatalogService) Initialize() error {
	if m.initialized {
		return nil
	}

	var file modeCatalogFile
	if err := yaml.Unmarshal(embedded.ModeCatalogData, &file); err != nil {
		return fmt.Errorf("failed to parse mode catalog: %w", err)
	}

	if err := m.validateUniqueIDs(file.Modes); err != nil {
		return err
	}

	byID := make(map[string]axoratypes.Mode, len(file.Modes))
	for _, mode := range file.Modes {
		byID[m.normalizeID(mode.ID)] = mode
	}
	if _, ok := byID[m.normalizeID(DefaultModeID)]; !ok {
		return fmt.Errorf("mode catalog missing default mode '%s'", DefaultModeID)
	}

	m.modes = file.Modes
	m.byID = byID
	m.initialized = true

	return nil
}

// List returns all modes in catalog order.
func (m *ModeCatalogService) List() ([]axoratypes.Mode, error) {
	if !m.initialized {
		return nil, fmt.Errorf("mode catalog service not initialized")
	}
	return m.modes, nil
}

// Get returns a mode by its ID (case-insensitive lookup).
func (m *ModeCatalogService) Get(id string) (axoratypes.Mode, error) {
	if !m.initialized {
		return axoratypes.Mode{}, fmt.Errorf("mode catalog service not initialized")
	}

	mode, ok := m.byID[m.normalizeID(id)]
	if !ok {
		return axoratypes.Mode{}, fmt.Errorf("mode with ID '%s' not found in catalog", id)
	}
	return mode, nil
}

// Resolve returns the mode for the given ID, degrading to the default mode
// when the reference is empty or dangling. A session whose mode was removed
// from the catalog keeps working this way.
func (m *ModeCatalogService) Resolve(id string) axoratypes.Mode {
	if mode, err := m.Get(id); err == nil {
		return mode
	}
	return m.byID[m.normalizeID(DefaultModeID)]
}

// validateUniqueIDs checks for duplicate mode IDs (case-insensitive).
func (m *ModeCatalogService) validateUniqueIDs(modes []axoratypes.Mode) error {
	seenIDs := make(map[string]string) // normalized_id -> original_id

	for _, mode := range modes {
		if mode.ID == "" {
			return fmt.Errorf("mode '%s' has empty ID field", mode.Name)
		}

		normalizedID := m.normalizeID(mode.ID)
		if existingID, exists := seenIDs[normalizedID]; exists {
			return fmt.Errorf("duplicate mode ID found: '%s' and '%s' (case insensitive)", existingID, mode.ID)
		}
		seenIDs[normalizedID] = mode.ID
	}

	return nil
}

// normalizeID converts an ID to uppercase for case-insensitive comparison.
func (m *ModeCatalogService) normalizeID(id string) string {
	return strings.ToUpper(id)
}
