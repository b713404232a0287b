package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abiosoft/ishell/v2"
	"github.com/spf13/cobra"

	"axora/internal/logger"
	"axora/internal/services"
	"axora/internal/version"
	"axora/pkg/axoratypes"
)

var (
	chatModeID      string
	chatProjectID   string
	chatSessionID   string
	chatAttachments []string
	chatAspectRatio string
	chatImageFormat string
)

// chatCmd represents the chat command (explicit version of default behavior)
var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Start an interactive chat, or send a single message",
	Long: `Start the interactive Axora chat. With a message argument the reply is
printed once and the session is persisted without entering the shell.`,
	Run: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
	addChatFlags(chatCmd)
	addChatFlags(rootCmd)
}

// addChatFlags registers the chat flags on a command. The root command takes
// them too because running axora without a subcommand starts the chat.
func addChatFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&chatModeID, "mode", "m", "", "Chat mode to start in (see 'axora modes')")
	cmd.Flags().StringVarP(&chatProjectID, "project", "p", "", "Project whose memory to include (see 'axora projects')")
	cmd.Flags().StringVarP(&chatSessionID, "session", "s", "", "Session ID or prefix to resume")
	cmd.Flags().StringArrayVar(&chatAttachments, "attach", nil, "Image or PDF to attach to the message (repeatable)")
	cmd.Flags().StringVar(&chatAspectRatio, "aspect-ratio", "", "Aspect ratio for generated images [default: 1:1]")
	cmd.Flags().StringVar(&chatImageFormat, "image-format", "", "Output format for generated images (png|jpeg) [default: png]")
}

func runChat(_ *cobra.Command, args []string) {
	logger.Info("Starting Axora", "version", version.GetVersion())

	app, err := newApp()
	if err != nil {
		logger.Fatal("Failed to initialize services", "error", err)
	}
	defer app.Close()

	state := &chatState{
		app:       app,
		modeID:    chatModeID,
		projectID: chatProjectID,
		image: axoratypes.ImageSettings{
			AspectRatio:  chatAspectRatio,
			OutputFormat: chatImageFormat,
		},
	}

	if chatSessionID != "" {
		session, err := findSession(app, chatSessionID)
		if err != nil {
			exitf("Error: %s", err.Error())
		}
		state.current = &session
	}

	for _, path := range chatAttachments {
		attachment, err := readAttachment(path)
		if err != nil {
			exitf("Error: %s", err.Error())
		}
		state.pending = append(state.pending, attachment)
	}

	if len(args) > 0 {
		state.runOnce(strings.Join(args, " "))
		return
	}
	state.runShell()
}

// chatState carries the conversation state across one chat run: the open
// session, mode and project selection, image settings and any attachments
// queued for the next message.
type chatState struct {
	app       *App
	current   *axoratypes.ChatSession
	modeID    string
	projectID string
	image     axoratypes.ImageSettings
	pending   []axoratypes.Attachment
}

// runOnce sends a single message and prints the reply without entering the
// interactive shell.
func (s *chatState) runOnce(text string) {
	result, err := s.app.Chat.Send(context.Background(), s.current, s.modeID, s.projectID, text, s.pending, s.image)
	if err != nil {
		exitf("Error: %s", err.Error())
	}
	s.current = &result.Session

	fmt.Print(s.renderReply(result.Reply))
	for _, line := range saveGeneratedImages(s.current.ID, result.Reply) {
		fmt.Println(line)
	}
	fmt.Println(metaStyle.Render(fmt.Sprintf("Session %s saved. Resume with 'axora chat -s %s'.", shortID(s.current.ID), shortID(s.current.ID))))
}

// runShell starts the interactive chat loop. Plain input is sent as a chat
// message; lines starting with / are Axora commands.
func (s *chatState) runShell() {
	sh := ishell.New()
	sh.SetPrompt("axora> ")
	sh.CustomCompleter(s.app.Complete)

	// Remove built-in commands so everything routes through NotFound
	sh.DeleteCmd("exit")
	sh.DeleteCmd("help")

	sh.Println(fmt.Sprintf("%s - session-centred AI chat", version.GetFormattedVersion()))
	sh.Println("Type '/help' for commands or '/exit' to quit.")
	if s.current != nil {
		sh.Println(fmt.Sprintf("Resuming session %s (%s).", shortID(s.current.ID), s.current.Title))
	}

	sh.NotFound(s.handleInput)

	sh.Run()
}

// handleInput is the single entry point for interactive input.
func (s *chatState) handleInput(c *ishell.Context) {
	input := strings.TrimSpace(strings.Join(c.RawArgs, " "))
	if input == "" {
		return
	}

	if strings.HasPrefix(input, "/") {
		s.handleCommand(c, input)
		return
	}

	s.sendMessage(c, input)
}

func (s *chatState) handleCommand(c *ishell.Context, input string) {
	fields := strings.Fields(input)
	command, args := fields[0], fields[1:]

	switch command {
	case "/exit", "/quit":
		c.Stop()
	case "/help":
		s.printHelp(c)
	case "/new":
		s.current = nil
		s.pending = nil
		c.Println("Started a new chat.")
	case "/mode":
		s.commandMode(c, args)
	case "/project":
		s.commandProject(c, args)
	case "/image":
		s.commandImage(c, args)
	case "/attach":
		s.commandAttach(c, args)
	case "/sessions":
		s.commandSessions(c)
	case "/open":
		s.commandOpen(c, args)
	case "/title":
		s.commandTitle(c, args)
	case "/delete":
		s.commandDelete(c)
	case "/export":
		s.commandExport(c, args)
	case "/debug":
		s.commandDebug(c)
	default:
		c.Printf("Unknown command %s. Type '/help' for commands.\n", command)
	}
}

func (s *chatState) printHelp(c *ishell.Context) {
	c.Println("Axora commands:")
	c.Println("  /mode [id]        Show or switch the chat mode")
	c.Println("  /project [id]     Show or set the project ('none' clears it)")
	c.Println("  /image [ar] [fmt] Show or set image settings, e.g. /image 16:9 png")
	c.Println("  /attach <path>    Queue an image or PDF for the next message")
	c.Println("  /new              Start a new chat")
	c.Println("  /sessions         List stored sessions")
	c.Println("  /open <id>        Resume a stored session")
	c.Println("  /title <text>     Rename the current session")
	c.Println("  /delete           Delete the current session")
	c.Println("  /export [format]  Export the current session (txt|md|json)")
	c.Println("  /debug            Show the last provider HTTP exchange")
	c.Println("  /exit             Quit")
	c.Println("Anything else is sent as a chat message.")
}

func (s *chatState) commandMode(c *ishell.Context, args []string) {
	if len(args) == 0 {
		current := s.app.Modes.Resolve(s.effectiveModeID())
		c.Printf("Current mode: %s (%s)\n", current.Name, current.Provider.Label())
		modes, err := s.app.Modes.List()
		if err != nil {
			c.Printf("Error: %s\n", err.Error())
			return
		}
		c.Println("Available modes:")
		for _, mode := range modes {
			c.Printf("  %-12s %s\n", mode.ID, mode.Description)
		}
		return
	}

	mode, err := s.app.Modes.Get(args[0])
	if err != nil {
		c.Printf("Error: %s\n", err.Error())
		return
	}
	s.modeID = mode.ID
	if s.current != nil {
		s.current.ModeID = mode.ID
	}
	c.Printf("Switched to mode %s (%s).\n", mode.Name, mode.Provider.Label())
}

func (s *chatState) commandProject(c *ishell.Context, args []string) {
	if len(args) == 0 {
		if s.effectiveProjectID() == "" {
			c.Println("No project selected.")
		} else {
			c.Printf("Current project: %s\n", s.effectiveProjectID())
		}
		projects, err := s.app.Projects.List()
		if err != nil {
			c.Printf("Error: %s\n", err.Error())
			return
		}
		if len(projects) == 0 {
			c.Println("No projects configured.")
			return
		}
		c.Println("Available projects:")
		for _, project := range projects {
			c.Printf("  %-12s %s\n", project.ID, project.Description)
		}
		return
	}

	if args[0] == "none" {
		s.projectID = ""
		if s.current != nil {
			s.current.ProjectID = ""
		}
		c.Println("Project cleared.")
		return
	}

	project, err := s.app.Projects.Get(args[0])
	if err != nil {
		c.Printf("Error: %s\n", err.Error())
		return
	}
	s.projectID = project.ID
	c.Printf("Using project %s.\n", project.Name)
}

func (s *chatState) commandImage(c *ishell.Context, args []string) {
	if len(args) == 0 {
		aspect := s.image.AspectRatio
		if aspect == "" {
			aspect = axoratypes.DefaultAspectRatio
		}
		format := s.image.OutputFormat
		if format == "" {
			format = axoratypes.DefaultImageFormat
		}
		c.Printf("Image settings: aspect ratio %s, format %s\n", aspect, format)
		return
	}

	s.image.AspectRatio = args[0]
	if len(args) > 1 {
		s.image.OutputFormat = args[1]
	}
	c.Printf("Image settings updated: aspect ratio %s", s.image.AspectRatio)
	if s.image.OutputFormat != "" {
		c.Printf(", format %s", s.image.OutputFormat)
	}
	c.Println()
}

func (s *chatState) commandAttach(c *ishell.Context, args []string) {
	if len(args) == 0 {
		if len(s.pending) == 0 {
			c.Println("No attachments queued. Usage: /attach <path>")
			return
		}
		c.Printf("%d attachment(s) queued for the next message:\n", len(s.pending))
		for _, attachment := range s.pending {
			c.Printf("  %s (%s)\n", attachment.Name, attachment.Type)
		}
		return
	}

	attachment, err := readAttachment(args[0])
	if err != nil {
		c.Printf("Error: %s\n", err.Error())
		return
	}
	s.pending = append(s.pending, attachment)
	c.Printf("Queued %s (%s).\n", attachment.Name, attachment.Type)
}

func (s *chatState) commandSessions(c *ishell.Context) {
	sessions := s.app.Store.List()
	if len(sessions) == 0 {
		c.Println("No stored sessions.")
		return
	}
	for _, session := range sessions {
		marker := " "
		if s.current != nil && session.ID == s.current.ID {
			marker = "*"
		}
		c.Printf("%s %s  %-40s %3d msgs  %s\n", marker, shortID(session.ID), session.Title, len(session.Messages), formatRelativeTime(session.ModifiedTime()))
	}
}

func (s *chatState) commandOpen(c *ishell.Context, args []string) {
	if len(args) == 0 {
		c.Println("Usage: /open <session-id>")
		return
	}
	session, err := findSession(s.app, args[0])
	if err != nil {
		c.Printf("Error: %s\n", err.Error())
		return
	}
	s.current = &session
	s.pending = nil
	c.Printf("Resumed session %s (%s, %d messages).\n", shortID(session.ID), session.Title, len(session.Messages))
}

func (s *chatState) commandTitle(c *ishell.Context, args []string) {
	if s.current == nil {
		c.Println("No open session. Send a message first.")
		return
	}
	if len(args) == 0 {
		c.Printf("Current title: %s\n", s.current.Title)
		return
	}
	s.current.Title = strings.Join(args, " ")
	s.app.Store.Save(*s.current)
	c.Printf("Session renamed to %q.\n", s.current.Title)
}

func (s *chatState) commandDelete(c *ishell.Context) {
	if s.current == nil {
		c.Println("No open session.")
		return
	}
	s.app.Store.Delete(s.current.ID)
	c.Printf("Deleted session %s.\n", shortID(s.current.ID))
	s.current = nil
	s.pending = nil
}

func (s *chatState) commandDebug(c *ishell.Context) {
	captured := s.app.Debug.GetCapturedData()
	if captured == "" {
		c.Println("No provider call captured yet.")
		return
	}
	c.Println(captured)
}

func (s *chatState) commandExport(c *ishell.Context, args []string) {
	if s.current == nil {
		c.Println("No open session to export.")
		return
	}
	format := "md"
	if len(args) > 0 {
		format = args[0]
	}
	path, err := writeSessionExport(*s.current, format, ".")
	if err != nil {
		c.Printf("Error: %s\n", err.Error())
		return
	}
	c.Printf("Exported to %s\n", path)
}

// sendMessage runs one chat turn and prints the reply.
func (s *chatState) sendMessage(c *ishell.Context, text string) {
	attachments := s.pending
	s.pending = nil

	result, err := s.app.Chat.Send(context.Background(), s.current, s.modeID, s.projectID, text, attachments, s.image)
	if err != nil {
		c.Printf("Error: %s\n", err.Error())
		return
	}
	s.current = &result.Session

	c.Print(s.renderReply(result.Reply))
	for _, line := range saveGeneratedImages(s.current.ID, result.Reply) {
		c.Println(line)
	}
}

// renderReply formats a model reply for the terminal: markdown-rendered text
// with any web sources listed underneath. Provider errors come back as
// messages, so they render in the error style rather than aborting the loop.
func (s *chatState) renderReply(reply axoratypes.Message) string {
	var out strings.Builder

	if reply.Type == axoratypes.MessageTypeError {
		out.WriteString(errorStyle.Render(reply.Content))
		out.WriteString("\n")
		return out.String()
	}

	if reply.Content != "" {
		rendered, err := s.app.Markdown.Render(reply.Content)
		if err != nil {
			out.WriteString(reply.Content)
			out.WriteString("\n")
		} else {
			out.WriteString(rendered)
		}
	}

	if sources := reply.Grounding.Sources(); len(sources) > 0 {
		out.WriteString(metaStyle.Render("Sources:"))
		out.WriteString("\n")
		for _, source := range sources {
			title := source.Title
			if title == "" {
				title = source.URI
			}
			out.WriteString(fmt.Sprintf("  - %s (%s)\n", title, source.URI))
		}
	}

	return out.String()
}

func (s *chatState) effectiveModeID() string {
	if s.modeID != "" {
		return s.modeID
	}
	if s.current != nil && s.current.ModeID != "" {
		return s.current.ModeID
	}
	return services.DefaultModeID
}

func (s *chatState) effectiveProjectID() string {
	if s.projectID != "" {
		return s.projectID
	}
	if s.current != nil {
		return s.current.ProjectID
	}
	return ""
}

// attachmentMIMETypes maps supported attachment extensions to the MIME type
// sent to the backend.
var attachmentMIMETypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
	".pdf":  "application/pdf",
}

// readAttachment loads a file from disk into a base64 attachment.
func readAttachment(path string) (axoratypes.Attachment, error) {
	mime, ok := attachmentMIMETypes[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return axoratypes.Attachment{}, fmt.Errorf("unsupported attachment type %q (supported: png, jpg, jpeg, webp, gif, pdf)", filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return axoratypes.Attachment{}, fmt.Errorf("failed to read attachment: %w", err)
	}

	return axoratypes.Attachment{
		Type: mime,
		Data: base64.StdEncoding.EncodeToString(data),
		Name: filepath.Base(path),
	}, nil
}

// saveGeneratedImages writes generated image attachments to the working
// directory and returns one status line per attachment.
func saveGeneratedImages(sessionID string, reply axoratypes.Message) []string {
	var lines []string
	for _, attachment := range reply.Attachments {
		data, err := base64.StdEncoding.DecodeString(attachment.Data)
		if err != nil {
			logger.Warn("Discarding undecodable generated image", "name", attachment.Name, "error", err)
			lines = append(lines, fmt.Sprintf("Could not decode generated image %s", attachment.Name))
			continue
		}
		filename := fmt.Sprintf("axora_%s_%s", shortID(sessionID), attachment.Name)
		if err := os.WriteFile(filename, data, 0644); err != nil {
			lines = append(lines, fmt.Sprintf("Could not save %s: %s", filename, err.Error()))
			continue
		}
		lines = append(lines, fmt.Sprintf("Saved generated image to %s", filename))
	}
	return lines
}
