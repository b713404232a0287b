package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"axora/pkg/axoratypes"
)

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(session *axoratypes.ChatSession, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "txt", "text":
		return &TextExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: txt, md, json)", format)
	}
}

// Filename derives an export file name from the session title and a
// timestamp, e.g. "axora_chat_project_kickoff_1735689600000.txt".
func Filename(session *axoratypes.ChatSession, now time.Time, extension string) string {
	title := "untitled"
	if session != nil && session.Title != "" {
		title = sanitizeTitle(session.Title)
	}
	return fmt.Sprintf("axora_chat_%s_%d.%s", title, now.UnixMilli(), extension)
}

// sanitizeTitle lower-cases the title and replaces every rune outside
// [a-z0-9] with an underscore.
func sanitizeTitle(title string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, strings.ToLower(title))
}
