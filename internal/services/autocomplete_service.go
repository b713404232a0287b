package services

import (
	"sort"
	"strings"

	"axora/internal/store"
)

// replCommands are the slash commands available in the interactive chat, in
// completion order.
var replCommands = []string{
	"/attach", "/debug", "/delete", "/exit", "/export", "/help", "/image",
	"/mode", "/new", "/open", "/project", "/quit", "/sessions", "/title",
}

// AutoCompleteService provides tab completion for the interactive chat: the
// slash commands themselves and, per command, the catalog IDs or formats
// they accept. It implements the readline.AutoCompleter interface to
// integrate with ishell.
type AutoCompleteService struct {
	initialized bool
	modes       *ModeCatalogService
	projects    *ProjectCatalogService
	sessions    *store.SessionStore
}

// NewAutoCompleteService creates an autocomplete service over the catalogs
// and session store its completions draw from.
func NewAutoCompleteService(modes *ModeCatalogService, projects *ProjectCatalogService, sessions *store.SessionStore) *AutoCompleteService {
	return &AutoCompleteService{
		initialized: false,
		modes:       modes,
		projects:    projects,
		sessions:    sessions,
	}
}

// Name returns the service name for identification.
func (a *AutoCompleteService) Name() string {
	return "autocomplete"
}

// Initialize sets up the AutoCompleteService for operation.
func (a *AutoCompleteService) Initialize() error {
	a.initialized = true
	return nil
}

// Do implements the readline.AutoCompleter interface.
// It analyzes the current input line and cursor position to provide relevant completions.
func (a *AutoCompleteService) Do(line []rune, pos int) (newLine [][]rune, length int) {
	if !a.initialized {
		return nil, 0
	}

	lineStr := string(line)

	// Find the word being completed (from last space or start to cursor)
	wordStart := a.findWordStart(lineStr, pos)
	wordEnd := pos
	if wordEnd > len(lineStr) {
		wordEnd = len(lineStr)
	}

	currentWord := ""
	if wordStart < wordEnd {
		currentWord = lineStr[wordStart:wordEnd]
	}

	completions := a.getCompletions(lineStr[:wordStart], currentWord)

	// Convert completions to readline format
	var suggestions [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, currentWord) {
			// Return the part that should be added to complete the word
			suffix := strings.TrimPrefix(completion, currentWord)
			suggestions = append(suggestions, []rune(suffix))
		}
	}

	return suggestions, len(currentWord)
}

// findWordStart finds the start position of the word being completed.
func (a *AutoCompleteService) findWordStart(line string, pos int) int {
	for i := pos - 1; i >= 0; i-- {
		if i >= len(line) {
			continue
		}
		if line[i] == ' ' {
			return i + 1
		}
	}
	return 0
}

// getCompletions returns the candidates for the word at the cursor. The text
// before the word decides the context: at line start the slash commands
// complete, after a command its arguments do. Plain chat text gets no
// completions.
func (a *AutoCompleteService) getCompletions(before, currentWord string) []string {
	fields := strings.Fields(before)

	if len(fields) == 0 {
		if strings.HasPrefix(currentWord, "/") {
			return replCommands
		}
		return make([]string, 0)
	}

	if len(fields) == 1 {
		switch fields[0] {
		case "/mode":
			return a.modeCompletions()
		case "/project":
			return a.projectCompletions()
		case "/open":
			return a.sessionCompletions()
		case "/export":
			return []string{"json", "md", "txt"}
		case "/image":
			return []string{"1:1", "16:9", "3:4", "4:3", "9:16"}
		}
	}

	if len(fields) == 2 && fields[0] == "/image" {
		return []string{"jpeg", "png"}
	}

	return make([]string, 0)
}

// modeCompletions returns the mode IDs from the catalog.
func (a *AutoCompleteService) modeCompletions() []string {
	modes, err := a.modes.List()
	if err != nil {
		return make([]string, 0)
	}

	completions := make([]string, 0, len(modes))
	for _, mode := range modes {
		completions = append(completions, mode.ID)
	}
	sort.Strings(completions)
	return completions
}

// projectCompletions returns the project IDs plus "none" to clear the
// selection.
func (a *AutoCompleteService) projectCompletions() []string {
	projects, err := a.projects.List()
	if err != nil {
		return make([]string, 0)
	}

	completions := []string{"none"}
	for _, project := range projects {
		completions = append(completions, project.ID)
	}
	sort.Strings(completions)
	return completions
}

// sessionCompletions returns the stored session IDs.
func (a *AutoCompleteService) sessionCompletions() []string {
	sessions := a.sessions.List()

	completions := make([]string, 0, len(sessions))
	for _, session := range sessions {
		completions = append(completions, session.ID)
	}
	sort.Strings(completions)
	return completions
}
