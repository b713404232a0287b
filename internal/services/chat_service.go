package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"axora/internal/logger"
	"axora/internal/store"
	"axora/pkg/axoratypes"
)

// Title derivation limits for lazily created sessions.
const (
	titleMaxWords = 6
	titleMaxRunes = 40
)

// SendResult is the outcome of one chat turn: the updated session, the
// refreshed session list and the reply message that was appended.
type SendResult struct {
	Session  axoratypes.ChatSession
	Sessions []axoratypes.ChatSession
	Reply    axoratypes.Message
}

// ChatService coordinates a full chat turn: catalog resolution, context
// assembly, provider routing, message normalization and persistence.
type ChatService struct {
	initialized bool
	store       *store.SessionStore
	router      *RouterService
	modes       *ModeCatalogService
	projects    *ProjectCatalogService
	contexts    *ContextService

	now   func() time.Time
	newID func() string
}

// NewChatService creates a chat service wired to its collaborators.
func NewChatService(sessions *store.SessionStore, router *RouterService, modes *ModeCatalogService, projects *ProjectCatalogService, contexts *ContextService) *ChatService {
	return &ChatService{
		initialized: false,
		store:       sessions,
		router:      router,
		modes:       modes,
		projects:    projects,
		contexts:    contexts,
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
	}
}

// Name returns the service name for identification.
func (c *ChatService) Name() string {
	return "chat"
}

// Initialize verifies the wiring.
func (c *ChatService) Initialize() error {
	if c.initialized {
		return nil
	}
	if c.store == nil || c.router == nil || c.modes == nil || c.projects == nil || c.contexts == nil {
		return fmt.Errorf("chat service is missing a collaborator")
	}
	c.initialized = true
	return nil
}

// Send executes one chat turn. A nil session is created lazily with a title
// derived from the first words of the message. The user message and the
// normalized reply are appended, the session is persisted, and the updated
// session plus refreshed list are returned. Send never fails on backend
// errors; those surface as error-shaped reply messages.
func (c *ChatService) Send(ctx context.Context, session *axoratypes.ChatSession, modeID, projectID, text string, attachments []axoratypes.Attachment, imageSettings axoratypes.ImageSettings) (*SendResult, error) {
	if !c.initialized {
		return nil, fmt.Errorf("chat service not initialized")
	}

	if session == nil {
		session = &axoratypes.ChatSession{
			ID:       c.newID(),
			Title:    deriveTitle(text),
			Messages: []axoratypes.Message{},
		}
		logger.Debug("Session created", "session", session.ID, "title", session.Title)
	}

	if modeID == "" {
		modeID = session.ModeID
	}
	mode := c.modes.Resolve(modeID)
	session.ModeID = mode.ID

	if projectID == "" {
		projectID = session.ProjectID
	}
	var project *axoratypes.Project
	if projectID != "" {
		if found, err := c.projects.Get(projectID); err == nil {
			project = &found
			session.ProjectID = found.ID
		} else {
			logger.Warn("Project reference not found, continuing without project context", "project", projectID)
			session.ProjectID = projectID
		}
	}

	instruction := c.contexts.BuildSystemInstruction(mode, project)

	// History is the transcript before this turn; the new text travels as
	// the routed prompt.
	history := session.Messages

	userMessage := axoratypes.Message{
		ID:          c.newID(),
		Role:        axoratypes.RoleUser,
		Content:     text,
		Type:        axoratypes.MessageTypeText,
		Timestamp:   c.now().UnixMilli(),
		Attachments: attachments,
	}
	session.Messages = append(session.Messages, userMessage)

	result := c.router.Route(ctx, axoratypes.ProviderRequest{
		History:           history,
		Mode:              mode,
		SystemInstruction: instruction,
		Prompt:            text,
		Attachments:       attachments,
		Image:             imageSettings,
	})

	reply := c.normalizeReply(result)
	session.Messages = append(session.Messages, reply)

	sessions := c.store.Save(*session)
	for _, saved := range sessions {
		if saved.ID == session.ID {
			*session = saved
			break
		}
	}

	return &SendResult{
		Session:  *session,
		Sessions: sessions,
		Reply:    reply,
	}, nil
}

// normalizeReply converts a routed result into the message appended to the
// session. Generated images are folded into attachments.
func (c *ChatService) normalizeReply(result *axoratypes.ProviderResult) axoratypes.Message {
	kind := result.Kind
	if kind == "" {
		kind = axoratypes.MessageTypeText
	}

	message := axoratypes.Message{
		ID:        c.newID(),
		Role:      axoratypes.RoleModel,
		Content:   result.Text,
		Type:      kind,
		Timestamp: c.now().UnixMilli(),
		Grounding: result.Grounding,
	}

	for i, dataURI := range result.Images {
		attachment, ok := dataURIAttachment(dataURI, i)
		if !ok {
			logger.Warn("Discarding malformed generated image payload", "index", i)
			continue
		}
		message.Attachments = append(message.Attachments, attachment)
	}

	return message
}

// dataURIAttachment decodes a "data:<mime>;base64,<payload>" URI into an
// attachment carrying the still-encoded payload.
func dataURIAttachment(uri string, index int) (axoratypes.Attachment, bool) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return axoratypes.Attachment{}, false
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || payload == "" {
		return axoratypes.Attachment{}, false
	}

	mime := strings.TrimSuffix(meta, ";base64")
	extension := "bin"
	if _, sub, found := strings.Cut(mime, "/"); found && sub != "" {
		extension = sub
	}

	return axoratypes.Attachment{
		Type: mime,
		Data: payload,
		Name: fmt.Sprintf("generated-%d.%s", index+1, extension),
	}, true
}

// deriveTitle builds a session title from the first words of the opening
// message.
func deriveTitle(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return "New Chat"
	}
	if len(words) > titleMaxWords {
		words = words[:titleMaxWords]
	}

	title := strings.Join(words, " ")
	runes := []rune(title)
	if len(runes) > titleMaxRunes {
		title = strings.TrimSpace(string(runes[:titleMaxRunes])) + "..."
	}
	return title
}
