package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"axora/pkg/axoratypes"
)

func newInitializedModeCatalog(t *testing.T) *ModeCatalogService {
	t.Helper()
	service := NewModeCatalogService()
	require.NoError(t, service.Initialize())
	return service
}

func TestModeCatalogService_Name(t *testing.T) {
	service := NewModeCatalogService()
	assert.Equal(t, "mode_catalog", service.Name())
}

func TestModeCatalogService_Initialize(t *testing.T) {
	service := NewModeCatalogService()
	assert.False(t, service.initialized)

	err := service.Initialize()
	assert.NoError(t, err)
	assert.True(t, service.initialized)

	// Second call is a no-op
	assert.NoError(t, service.Initialize())
}

func TestModeCatalogService_List(t *testing.T) {
	service := NewModeCatalogService()

	// Test uninitialized service
	_, err := service.List()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")

	require.NoError(t, service.Initialize())

	modes, err := service.List()
	require.NoError(t, err)
	require.Len(t, modes, 5)

	// Catalog order is preserved
	ids := make([]string, 0, len(modes))
	for _, mode := range modes {
		ids = append(ids, mode.ID)
	}
	assert.Equal(t, []string{"General", "Research", "Architect", "Vision", "Cipher"}, ids)
}

func TestModeCatalogService_Get(t *testing.T) {
	service := newInitializedModeCatalog(t)

	mode, err := service.Get("General")
	require.NoError(t, err)
	assert.Equal(t, "General", mode.ID)
	assert.Equal(t, axoratypes.ProviderGeneral, mode.Provider)
	assert.NotEmpty(t, mode.SystemPrompt)

	// Lookup is case-insensitive
	mode, err = service.Get("research")
	require.NoError(t, err)
	assert.Equal(t, "Research", mode.ID)
	assert.Equal(t, axoratypes.ProviderSearch, mode.Provider)

	_, err = service.Get("nonexistent")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestModeCatalogService_ProviderAssignments(t *testing.T) {
	service := newInitializedModeCatalog(t)

	tests := []struct {
		modeID   string
		provider axoratypes.Provider
	}{
		{"General", axoratypes.ProviderGeneral},
		{"Research", axoratypes.ProviderSearch},
		{"Architect", axoratypes.ProviderReasoning},
		{"Vision", axoratypes.ProviderImage},
		{"Cipher", axoratypes.ProviderGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.modeID, func(t *testing.T) {
			mode, err := service.Get(tt.modeID)
			require.NoError(t, err)
			assert.Equal(t, tt.provider, mode.Provider)
		})
	}
}

func TestModeCatalogService_Resolve(t *testing.T) {
	service := newInitializedModeCatalog(t)

	// Known ID resolves to itself
	mode := service.Resolve("Architect")
	assert.Equal(t, "Architect", mode.ID)

	// Dangling reference degrades to the default mode
	mode = service.Resolve("removed-mode")
	assert.Equal(t, DefaultModeID, mode.ID)

	// Empty reference degrades the same way
	mode = service.Resolve("")
	assert.Equal(t, DefaultModeID, mode.ID)
}

func TestModeCatalogService_VisionDeclaresImageCapability(t *testing.T) {
	service := newInitializedModeCatalog(t)

	mode, err := service.Get("Vision")
	require.NoError(t, err)
	assert.True(t, mode.HasCapability(axoratypes.CapabilityImage))
	assert.False(t, mode.HasCapability(axoratypes.CapabilitySearch))
}
