// Package axoratypes defines the project catalog types.
// This file contains projects and their layered contextual memory.
package axoratypes

// SharedContext is the slice of project memory visible to every mode.
type SharedContext struct {
	Summary  string            `json:"summary" yaml:"summary"`
	KeyFacts map[string]string `json:"keyFacts" yaml:"key_facts"`
}

// ModeMemory is the private memory a project keeps for a single mode. Data
// is a schema-less structured payload whose shape is owned by the mode.
type ModeMemory struct {
	LastState            string         `json:"lastState,omitempty" yaml:"last_state"`
	SpecificInstructions string         `json:"specificInstructions,omitempty" yaml:"specific_instructions"`
	Data                 map[string]any `json:"data,omitempty" yaml:"data"`
}

// ProjectMemory layers a shared context over per-mode private entries.
// Mode-context entries are visible only to the mode they key on.
type ProjectMemory struct {
	SharedContext SharedContext         `json:"sharedContext" yaml:"shared_context"`
	ModeContext   map[string]ModeMemory `json:"modeContext" yaml:"mode_context"`
}

// Project is a static catalog entry carrying contextual memory. Sessions
// reference projects by ID; dangling references degrade to "no project".
type Project struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	Memory      ProjectMemory `json:"memory" yaml:"memory"`
}

// MemoryFor returns the project's private memory entry for the given mode
// ID, and whether one exists.
func (p Project) MemoryFor(modeID string) (ModeMemory, bool) {
	mem, ok := p.Memory.ModeContext[modeID]
	return mem, ok
}
