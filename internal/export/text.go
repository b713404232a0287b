package export

import (
	"fmt"
	"io"
	"strings"

	"axora/pkg/axoratypes"
)

const (
	headerRule  = "========================================"
	messageRule = "----------------------------------------"
)

// TextExporter exports sessions as a plain-text transcript
type TextExporter struct{}

// Export writes the transcript: a header block, then every message in
// order with its timestamp, role, content, attachment count and grounded
// sources. Times are rendered in UTC so output is machine-independent.
func (e *TextExporter) Export(session *axoratypes.ChatSession, w io.Writer) error {
	if session == nil {
		return nil
	}

	project := session.ProjectID
	if project == "" {
		project = "None"
	}

	_, _ = fmt.Fprintf(w, "Session: %s\n", session.ID)
	_, _ = fmt.Fprintf(w, "Title: %s\n", session.Title)
	_, _ = fmt.Fprintf(w, "Date: %s\n", session.ModifiedTime().UTC().Format("2006-01-02 15:04:05 MST"))
	_, _ = fmt.Fprintf(w, "Mode: %s\n", session.ModeID)
	_, _ = fmt.Fprintf(w, "Project: %s\n", project)
	_, _ = fmt.Fprintf(w, "%s\n\n", headerRule)

	for _, msg := range session.Messages {
		clock := msg.Time().UTC().Format("15:04:05")
		_, _ = fmt.Fprintf(w, "[%s] %s:\n", clock, strings.ToUpper(string(msg.Role)))
		_, _ = fmt.Fprintf(w, "%s\n", msg.Content)

		if n := len(msg.Attachments); n > 0 {
			_, _ = fmt.Fprintf(w, "(Attachments: %d)\n", n)
		}

		if sources := msg.Grounding.Sources(); len(sources) > 0 {
			_, _ = fmt.Fprintf(w, "\nSources Used:\n")
			for i, src := range sources {
				if src.Title != "" {
					_, _ = fmt.Fprintf(w, "%d. %s (%s)\n", i+1, src.URI, src.Title)
				} else {
					_, _ = fmt.Fprintf(w, "%d. %s\n", i+1, src.URI)
				}
			}
		}

		_, _ = fmt.Fprintf(w, "\n%s\n\n", messageRule)
	}

	return nil
}

// Extension returns the file extension for this format
func (e *TextExporter) Extension() string {
	return "txt"
}
