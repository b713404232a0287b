package export

import (
	"fmt"
	"io"
	"strings"

	"axora/pkg/axoratypes"
)

// MarkdownExporter exports sessions in Markdown format
type MarkdownExporter struct{}

// Export exports a session to Markdown format
func (e *MarkdownExporter) Export(session *axoratypes.ChatSession, w io.Writer) error {
	if session == nil {
		return nil
	}

	title := session.Title
	if title == "" {
		title = session.ID
	}
	_, _ = fmt.Fprintf(w, "# %s\n\n", title)

	_, _ = fmt.Fprintf(w, "**Session:** %s  \n", session.ID)
	_, _ = fmt.Fprintf(w, "**Date:** %s  \n", session.ModifiedTime().UTC().Format("2006-01-02 15:04:05 MST"))
	_, _ = fmt.Fprintf(w, "**Mode:** %s  \n", session.ModeID)
	if session.ProjectID != "" {
		_, _ = fmt.Fprintf(w, "**Project:** %s  \n", session.ProjectID)
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(session.Messages))

	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, msg := range session.Messages {
		clock := msg.Time().UTC().Format("15:04:05")
		_, _ = fmt.Fprintf(w, "**%s** (%s)\n\n", strings.ToUpper(string(msg.Role)), clock)
		_, _ = fmt.Fprintf(w, "%s\n\n", escapeMarkdown(msg.Content))

		if n := len(msg.Attachments); n > 0 {
			_, _ = fmt.Fprintf(w, "*Attachments: %d*\n\n", n)
		}

		if sources := msg.Grounding.Sources(); len(sources) > 0 {
			_, _ = fmt.Fprintf(w, "Sources Used:\n\n")
			for j, src := range sources {
				if src.Title != "" {
					_, _ = fmt.Fprintf(w, "%d. [%s](%s)\n", j+1, src.Title, src.URI)
				} else {
					_, _ = fmt.Fprintf(w, "%d. %s\n", j+1, src.URI)
				}
			}
			_, _ = fmt.Fprintf(w, "\n")
		}

		if i < len(session.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes emphasis markers outside fenced code blocks so
// model output does not mangle the rendered transcript.
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
