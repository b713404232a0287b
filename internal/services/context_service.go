package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"axora/pkg/axoratypes"
)

// ContextService assembles the system instruction for a backend call out of
// the mode persona and the attached project's layered memory. This assembly
// is the only channel through which project context reaches the model.
type ContextService struct {
	initialized bool
}

// NewContextService creates a new context service instance.
func NewContextService() *ContextService {
	return &ContextService{
		initialized: false,
	}
}

// Name returns the service name for identification.
func (c *ContextService) Name() string {
	return "context"
}

// Initialize marks the service ready. Assembly is pure and needs no state.
func (c *ContextService) Initialize() error {
	c.initialized = true
	return nil
}

// BuildSystemInstruction renders the instruction string for the given mode
// and optional project. The output is deterministic: key facts are ordered
// by key and the structured data payload is JSON with sorted keys, so the
// same inputs always produce the same instruction.
func (c *ContextService) BuildSystemInstruction(mode axoratypes.Mode, project *axoratypes.Project) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## Mode: %s (%s)\n\n", mode.Name, mode.Provider.Label()))
	sb.WriteString(strings.TrimSpace(mode.SystemPrompt))
	sb.WriteString("\n")

	if project == nil {
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("\n## Project: %s\n", project.Name))
	if project.Description != "" {
		sb.WriteString(project.Description)
		sb.WriteString("\n")
	}

	c.writeSharedMemory(&sb, project.Memory.SharedContext)
	c.writeModeMemory(&sb, mode, *project)

	return sb.String()
}

// writeSharedMemory renders the memory block every mode sees.
func (c *ContextService) writeSharedMemory(sb *strings.Builder, shared axoratypes.SharedContext) {
	sb.WriteString("\n### Shared Memory\n")

	if summary := strings.TrimSpace(shared.Summary); summary != "" {
		sb.WriteString(fmt.Sprintf("Summary: %s\n", summary))
	}

	if len(shared.KeyFacts) > 0 {
		keys := make([]string, 0, len(shared.KeyFacts))
		for key := range shared.KeyFacts {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		sb.WriteString("Key Facts:\n")
		for _, key := range keys {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", key, shared.KeyFacts[key]))
		}
	}
}

// writeModeMemory renders the project's private memory for this mode. The
// block is always present: when the project has no entry for the mode an
// explicit marker is written instead, so model behavior does not shift
// silently with memory presence.
func (c *ContextService) writeModeMemory(sb *strings.Builder, mode axoratypes.Mode, project axoratypes.Project) {
	sb.WriteString(fmt.Sprintf("\n### Mode Memory (%s)\n", mode.Name))

	memory, ok := project.MemoryFor(mode.ID)
	if !ok {
		sb.WriteString("No memory recorded for this mode yet.\n")
		return
	}

	if instructions := strings.TrimSpace(memory.SpecificInstructions); instructions != "" {
		sb.WriteString(fmt.Sprintf("Instructions: %s\n", instructions))
	}
	if len(memory.Data) > 0 {
		// encoding/json sorts map keys, keeping the payload deterministic.
		if raw, err := json.Marshal(memory.Data); err == nil {
			sb.WriteString(fmt.Sprintf("Data: %s\n", raw))
		}
	}
	if state := strings.TrimSpace(memory.LastState); state != "" {
		sb.WriteString(fmt.Sprintf("Last State: %s\n", state))
	}
}
