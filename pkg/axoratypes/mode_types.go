// Package axoratypes defines the chat mode catalog types.
// This file contains modes, their provider variants and capabilities.
package axoratypes

// Provider selects the request shape used for a mode's backend calls.
type Provider string

// The closed set of provider variants. Unknown values degrade to
// ProviderGeneral at dispatch time.
const (
	ProviderGeneral   Provider = "general"
	ProviderSearch    Provider = "search"
	ProviderReasoning Provider = "reasoning"
	ProviderImage     Provider = "image"
)

// Label returns the human-readable provider label used in assembled
// instructions and diagnostic texts.
func (p Provider) Label() string {
	switch p {
	case ProviderSearch:
		return "Search-Grounded"
	case ProviderReasoning:
		return "High-Reasoning"
	case ProviderImage:
		return "Image Generation"
	default:
		return "General"
	}
}

// Capability describes what a mode can produce or consume.
type Capability string

// Mode capabilities.
const (
	CapabilityText   Capability = "text"
	CapabilityImage  Capability = "image"
	CapabilitySearch Capability = "search"
)

// Mode is a static persona definition from the embedded catalog. Modes are
// not persisted; sessions reference them by ID and dangling references fall
// back to the default mode.
type Mode struct {
	ID           string       `json:"id" yaml:"id"`
	Name         string       `json:"name" yaml:"name"`
	Description  string       `json:"description" yaml:"description"`
	SystemPrompt string       `json:"systemPrompt" yaml:"system_prompt"`
	Provider     Provider     `json:"provider" yaml:"provider"`
	Capabilities []Capability `json:"capabilities" yaml:"capabilities"`
}

// HasCapability reports whether the mode declares the given capability.
func (m Mode) HasCapability(c Capability) bool {
	for _, have := range m.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}
