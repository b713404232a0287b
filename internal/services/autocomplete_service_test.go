package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"axora/internal/store"
	"axora/pkg/axoratypes"
)

// newTestAutoComplete builds an initialized autocomplete service over the
// embedded catalogs and an empty in-memory session store.
func newTestAutoComplete(t *testing.T) *AutoCompleteService {
	t.Helper()

	modes := NewModeCatalogService()
	require.NoError(t, modes.Initialize())

	projects := NewProjectCatalogService()
	require.NoError(t, projects.Initialize())

	sessions := store.NewSessionStore(store.NewMemoryBackend(), store.Options{})

	service := NewAutoCompleteService(modes, projects, sessions)
	require.NoError(t, service.Initialize())
	return service
}

func suggestionStrings(suggestions [][]rune) []string {
	out := make([]string, 0, len(suggestions))
	for _, suggestion := range suggestions {
		out = append(out, string(suggestion))
	}
	return out
}

func TestAutoCompleteService_Name(t *testing.T) {
	service := NewAutoCompleteService(nil, nil, nil)
	assert.Equal(t, "autocomplete", service.Name())
}

func TestAutoCompleteService_Initialize(t *testing.T) {
	service := NewAutoCompleteService(nil, nil, nil)
	assert.False(t, service.initialized)

	err := service.Initialize()
	assert.NoError(t, err)
	assert.True(t, service.initialized)
}

func TestAutoCompleteService_Do_Uninitialized(t *testing.T) {
	service := NewAutoCompleteService(nil, nil, nil)

	suggestions, length := service.Do([]rune("/mo"), 3)
	assert.Nil(t, suggestions)
	assert.Equal(t, 0, length)
}

func TestAutoCompleteService_FindWordStart(t *testing.T) {
	service := newTestAutoComplete(t)

	tests := []struct {
		name     string
		line     string
		pos      int
		expected int
	}{
		{
			name:     "start of line",
			line:     "/mode",
			pos:      5,
			expected: 0,
		},
		{
			name:     "after space",
			line:     "/mode Research",
			pos:      14,
			expected: 6,
		},
		{
			name:     "empty line",
			line:     "",
			pos:      0,
			expected: 0,
		},
		{
			name:     "second word of plain text",
			line:     "hello world",
			pos:      11,
			expected: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := service.findWordStart(tt.line, tt.pos)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAutoCompleteService_Do_SlashCommands(t *testing.T) {
	service := newTestAutoComplete(t)

	suggestions, length := service.Do([]rune("/m"), 2)

	assert.Equal(t, []string{"ode"}, suggestionStrings(suggestions))
	assert.Equal(t, 2, length)
}

func TestAutoCompleteService_Do_AllCommands(t *testing.T) {
	service := newTestAutoComplete(t)

	suggestions, length := service.Do([]rune("/"), 1)

	assert.Len(t, suggestions, len(replCommands))
	assert.Equal(t, 1, length)
}

func TestAutoCompleteService_Do_PlainTextGetsNoCompletions(t *testing.T) {
	service := newTestAutoComplete(t)

	suggestions, _ := service.Do([]rune("hello"), 5)
	assert.Empty(t, suggestions)
}

func TestAutoCompleteService_Do_ModeArguments(t *testing.T) {
	service := newTestAutoComplete(t)

	suggestions, length := service.Do([]rune("/mode "), 6)

	assert.Equal(t, []string{"Architect", "Cipher", "General", "Research", "Vision"}, suggestionStrings(suggestions))
	assert.Equal(t, 0, length)
}

func TestAutoCompleteService_Do_ModeArgumentPrefix(t *testing.T) {
	service := newTestAutoComplete(t)

	suggestions, length := service.Do([]rune("/mode Re"), 8)

	assert.Equal(t, []string{"search"}, suggestionStrings(suggestions))
	assert.Equal(t, 2, length)
}

func TestAutoCompleteService_Do_ProjectArguments(t *testing.T) {
	service := newTestAutoComplete(t)

	suggestions, _ := service.Do([]rune("/project "), 9)

	assert.Equal(t, []string{"none", "proj-atlas", "proj-lighthouse"}, suggestionStrings(suggestions))
}

func TestAutoCompleteService_Do_ExportFormats(t *testing.T) {
	service := newTestAutoComplete(t)

	suggestions, length := service.Do([]rune("/export j"), 9)

	assert.Equal(t, []string{"son"}, suggestionStrings(suggestions))
	assert.Equal(t, 1, length)
}

func TestAutoCompleteService_Do_ImageFormatSecondArgument(t *testing.T) {
	service := newTestAutoComplete(t)

	suggestions, _ := service.Do([]rune("/image 16:9 p"), 13)

	assert.Equal(t, []string{"ng"}, suggestionStrings(suggestions))
}

func TestAutoCompleteService_Do_SessionIDs(t *testing.T) {
	modes := NewModeCatalogService()
	require.NoError(t, modes.Initialize())
	projects := NewProjectCatalogService()
	require.NoError(t, projects.Initialize())

	sessions := store.NewSessionStore(store.NewMemoryBackend(), store.Options{})
	sessions.Save(axoratypes.ChatSession{ID: "alpha-1111", Title: "First"})
	sessions.Save(axoratypes.ChatSession{ID: "beta-2222", Title: "Second"})

	service := NewAutoCompleteService(modes, projects, sessions)
	require.NoError(t, service.Initialize())

	suggestions, length := service.Do([]rune("/open al"), 8)

	assert.Equal(t, []string{"pha-1111"}, suggestionStrings(suggestions))
	assert.Equal(t, 2, length)
}
