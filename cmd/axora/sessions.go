package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"axora/internal/export"
	"axora/internal/logger"
	"axora/pkg/axoratypes"
)

var (
	exportFormat string
	exportOutDir string
	showLimit    int
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	columnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	userMessageStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(0, 1)

	modelMessageStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("135")).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// sessionsCmd represents the sessions command; without a subcommand it lists
// the stored sessions.
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List and manage stored chat sessions",
	Long: `List, inspect, export and delete stored chat sessions. Sessions older
than the retention window are dropped automatically.`,
	RunE: runSessionList,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions",
	RunE:  runSessionList,
}

func runSessionList(_ *cobra.Command, _ []string) error {
	app, err := newApp()
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer app.Close()

	displaySessionList(app.Store.List())
	return nil
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show the transcript of a session",
	Long:  `Display the full transcript of a stored session. A unique ID prefix works too.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		defer app.Close()

		session, err := findSession(app, args[0])
		if err != nil {
			return err
		}

		displaySessionHeader(session)

		messages := session.Messages
		total := len(messages)
		if showLimit > 0 && showLimit < total {
			messages = messages[:showLimit]
		}
		for i, message := range messages {
			displayMessage(i+1, message, total)
		}
		if showLimit > 0 && showLimit < total {
			fmt.Println(metaStyle.Render(fmt.Sprintf("... (%d more message(s))", total-showLimit)))
		}
		return nil
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a stored session",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		defer app.Close()

		session, err := findSession(app, args[0])
		if err != nil {
			return err
		}

		app.Store.Delete(session.ID)
		fmt.Printf("Deleted session %s (%s).\n", shortID(session.ID), session.Title)
		return nil
	},
}

var sessionsExportCmd = &cobra.Command{
	Use:   "export [session-id]",
	Short: "Export sessions to file",
	Long: `Export chat sessions to text, markdown or JSON. Without a session ID
every stored session is exported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		defer app.Close()

		var sessions []axoratypes.ChatSession
		if len(args) > 0 {
			session, err := findSession(app, args[0])
			if err != nil {
				return err
			}
			sessions = []axoratypes.ChatSession{session}
		} else {
			sessions = app.Store.List()
		}

		if len(sessions) == 0 {
			fmt.Println(headerStyle.Render("No sessions to export"))
			return nil
		}

		exported := 0
		for _, session := range sessions {
			path, err := writeSessionExport(session, exportFormat, exportOutDir)
			if err != nil {
				logger.Error("Failed to export session", "session", session.ID, "error", err)
				continue
			}
			fmt.Printf("Exported %s to %s\n", shortID(session.ID), path)
			exported++
		}
		fmt.Println(headerStyle.Render(fmt.Sprintf("Exported %d of %d session(s)", exported, len(sessions))))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsExportCmd)

	sessionsShowCmd.Flags().IntVarP(&showLimit, "limit", "n", 0, "Limit number of messages to show")
	sessionsExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "md", "Export format (txt|md|json)")
	sessionsExportCmd.Flags().StringVarP(&exportOutDir, "out", "o", ".", "Output directory")
}

func displaySessionList(sessions []axoratypes.ChatSession) {
	if len(sessions) == 0 {
		fmt.Println(headerStyle.Render("No stored sessions"))
		fmt.Println(idStyle.Render("Start one with 'axora chat'."))
		return
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Found %d session(s)", len(sessions))))
	fmt.Println()

	// Use tabwriter for aligned columns
	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', tabwriter.AlignRight)

	_, _ = fmt.Fprintln(w, columnStyle.Render("ID")+"\t"+columnStyle.Render("Title")+"\t"+columnStyle.Render("Mode")+"\t"+columnStyle.Render("Messages")+"\t"+columnStyle.Render("Modified")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, session := range sessions {
		title := session.Title
		if title == "" {
			title = "Untitled"
		}
		if len(title) > 50 {
			title = title[:47] + "..."
		}

		mode := session.ModeID
		if mode == "" {
			mode = "—"
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			idStyle.Render(shortID(session.ID)),
			title,
			dateStyle.Render(mode),
			countStyle.Render(strconv.Itoa(len(session.Messages))),
			dateStyle.Render(formatRelativeTime(session.ModifiedTime())))
	}

	_ = w.Flush()
	fmt.Println()
	fmt.Println(idStyle.Render("Tip: use an ID prefix with 'axora sessions show <id>'."))
}

func displaySessionHeader(session axoratypes.ChatSession) {
	fmt.Println(headerStyle.Render(session.Title))

	metaParts := []string{
		fmt.Sprintf("ID: %s", session.ID),
		fmt.Sprintf("Messages: %d", len(session.Messages)),
	}
	if session.ModeID != "" {
		metaParts = append(metaParts, fmt.Sprintf("Mode: %s", session.ModeID))
	}
	if session.ProjectID != "" {
		metaParts = append(metaParts, fmt.Sprintf("Project: %s", session.ProjectID))
	}
	metaParts = append(metaParts, fmt.Sprintf("Modified: %s", session.ModifiedTime().Format("2006-01-02 15:04")))

	fmt.Println(metaStyle.Render(strings.Join(metaParts, " | ")))
	fmt.Println()
}

func displayMessage(index int, message axoratypes.Message, total int) {
	var label string
	switch message.Role {
	case axoratypes.RoleUser:
		label = userMessageStyle.Render("You")
	case axoratypes.RoleModel:
		label = modelMessageStyle.Render("Axora")
	default:
		label = metaStyle.Render(string(message.Role))
	}

	header := label + " " + timestampStyle.Render(fmt.Sprintf("[%d/%d]", index, total))
	if message.Timestamp > 0 {
		header += " " + timestampStyle.Render(message.Time().Format("Jan 02 15:04:05"))
	}
	fmt.Println(header)

	content := strings.TrimSpace(message.Content)
	switch {
	case message.Type == axoratypes.MessageTypeError:
		fmt.Println(messageContentStyle.Render(errorStyle.Render(content)))
	case content != "":
		fmt.Println(messageContentStyle.Render(content))
	default:
		fmt.Println(messageContentStyle.Render(idStyle.Render("(no text)")))
	}

	for _, attachment := range message.Attachments {
		fmt.Println(metaStyle.Render(fmt.Sprintf("  attachment: %s (%s)", attachment.Name, attachment.Type)))
	}
	if sources := message.Grounding.Sources(); len(sources) > 0 {
		fmt.Println(metaStyle.Render("  sources:"))
		for _, source := range sources {
			fmt.Println(metaStyle.Render(fmt.Sprintf("    - %s (%s)", source.Title, source.URI)))
		}
	}
}

// shortID returns the first 8 characters of a session ID for display; the
// full ID still resolves everywhere an ID is accepted.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatRelativeTime renders a timestamp relative to now, coarser the older
// it is.
func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

// findSession resolves a full session ID or a unique prefix.
func findSession(app *App, id string) (axoratypes.ChatSession, error) {
	if session, ok := app.Store.Find(id); ok {
		return session, nil
	}

	var matches []axoratypes.ChatSession
	for _, session := range app.Store.List() {
		if strings.HasPrefix(session.ID, id) {
			matches = append(matches, session)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return axoratypes.ChatSession{}, fmt.Errorf("session not found: %s (use 'axora sessions' to list)", id)
	default:
		return axoratypes.ChatSession{}, fmt.Errorf("session ID %q is ambiguous, use more characters", id)
	}
}

// writeSessionExport writes one session to outDir in the given format and
// returns the created path.
func writeSessionExport(session axoratypes.ChatSession, format, outDir string) (string, error) {
	exporter, err := export.NewExporter(format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(outDir, export.Filename(&session, time.Now(), exporter.Extension()))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", path, err)
	}
	if err := exporter.Export(&session, file); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("failed to export session %s: %w", session.ID, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close file %s: %w", path, err)
	}
	return path, nil
}
