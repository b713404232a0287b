package services

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownService_Name(t *testing.T) {
	service := NewMarkdownService()
	assert.Equal(t, "markdown", service.Name())
}

func TestMarkdownService_Initialize(t *testing.T) {
	service := NewMarkdownService()
	assert.False(t, service.initialized)

	err := service.Initialize()
	assert.NoError(t, err)
	assert.True(t, service.initialized)
	assert.NotNil(t, service.renderer)
}

func TestMarkdownService_Render(t *testing.T) {
	service := NewMarkdownService()

	// Test uninitialized service
	_, err := service.Render("# Test")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")

	// Initialize service
	err = service.Initialize()
	require.NoError(t, err)

	// Test empty markdown
	_, err = service.Render("")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")

	_, err = service.Render("   ")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")

	// Test valid markdown
	result, err := service.Render("# Hello World")
	assert.NoError(t, err)
	assert.NotEmpty(t, result)
	// The result should contain ANSI escape sequences for formatting
	assert.True(t, containsText(result, "Hello World"), "Result should contain 'Hello World' text")
}

func TestMarkdownService_RenderWithStyle(t *testing.T) {
	service := NewMarkdownService()

	// Test uninitialized service
	_, err := service.RenderWithStyle("# Test", "dark")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")

	// Initialize service
	err = service.Initialize()
	require.NoError(t, err)

	// Test empty markdown
	_, err = service.RenderWithStyle("", "dark")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")

	// Test valid markdown with different styles
	testCases := []struct {
		name     string
		markdown string
		style    string
	}{
		{"dark style", "# Hello World", "dark"},
		{"light style", "# Hello World", "light"},
		{"auto style", "# Hello World", "auto"},
		{"notty style", "# Hello World", "notty"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := service.RenderWithStyle(tc.markdown, tc.style)
			assert.NoError(t, err)
			assert.NotEmpty(t, result)
			assert.True(t, containsText(result, "Hello World"), "Result should contain 'Hello World' text")
		})
	}

	// Test invalid style (should fall back to default)
	result, err := service.RenderWithStyle("# Hello World", "invalid-style")
	assert.NoError(t, err)
	assert.NotEmpty(t, result)
	assert.True(t, containsText(result, "Hello World"), "Result should contain 'Hello World' text")
}

func TestMarkdownService_SetWordWrap(t *testing.T) {
	service := NewMarkdownService()

	// Test uninitialized service
	err := service.SetWordWrap(80)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")

	// Initialize service
	err = service.Initialize()
	require.NoError(t, err)

	// Test invalid word wrap
	err = service.SetWordWrap(0)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must be positive")

	err = service.SetWordWrap(-1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must be positive")

	// Test valid word wrap
	err = service.SetWordWrap(100)
	assert.NoError(t, err)

	// Test that rendering still works after changing word wrap
	result, err := service.Render("# Hello World")
	assert.NoError(t, err)
	assert.NotEmpty(t, result)
	assert.True(t, containsText(result, "Hello World"), "Result should contain 'Hello World' text")
}

func TestMarkdownService_GetAvailableStyles(t *testing.T) {
	service := NewMarkdownService()
	styles := service.GetAvailableStyles()

	assert.NotEmpty(t, styles)
	assert.Contains(t, styles, "auto")
	assert.Contains(t, styles, "dark")
	assert.Contains(t, styles, "light")
	assert.Contains(t, styles, "notty")
	assert.Contains(t, styles, "ascii")
}

func TestMarkdownService_ComplexMarkdown(t *testing.T) {
	service := NewMarkdownService()
	err := service.Initialize()
	require.NoError(t, err)

	complexMarkdown := `# Main Title

## Features

- **Bold text** and *italic text*
- [Links](https://example.com)
- ` + "`inline code`" + `

### Code Block

` + "```go" + `
func main() {
    fmt.Println("Hello, World!")
}
` + "```" + `

> This is a blockquote
> with multiple lines

| Column 1 | Column 2 |
|----------|----------|
| Cell 1   | Cell 2   |
| Cell 3   | Cell 4   |
`

	result, err := service.Render(complexMarkdown)
	assert.NoError(t, err)
	assert.NotEmpty(t, result)

	// Check that various markdown elements are present
	assert.True(t, containsText(result, "Main Title"), "Result should contain 'Main Title' text")
	assert.True(t, containsText(result, "Features"), "Result should contain 'Features' text")
	assert.True(t, containsText(result, "example.com"), "Result should contain 'example.com' text")
	assert.True(t, containsText(result, "fmt.Println"), "Result should contain 'fmt.Println' text")
	assert.True(t, containsText(result, "blockquote"), "Result should contain 'blockquote' text")
	assert.True(t, containsText(result, "Column 1"), "Result should contain 'Column 1' text")
}

// containsText checks if the given text is present in the result, stripping ANSI escape sequences
func containsText(result, text string) bool {
	// Regular expression to match ANSI escape sequences
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	cleanResult := ansiRegex.ReplaceAllString(result, "")
	return strings.Contains(cleanResult, text)
}
