package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"axora/internal/logger"
	"axora/pkg/axoratypes"
)

// Gemini model IDs per provider variant.
const (
	GeminiGeneralModel   = "gemini-2.5-flash"
	GeminiSearchModel    = "gemini-2.5-flash"
	GeminiReasoningModel = "gemini-2.5-pro"
	GeminiImageModel     = "gemini-2.5-flash-image"
)

// GeminiClient implements the GenerativeClient interface for the Google
// Gemini API. It provides lazy initialization of the underlying client and
// handles all Gemini-specific communication logic.
type GeminiClient struct {
	apiKey         string
	client         *genai.Client
	debugTransport http.RoundTripper
}

// NewGeminiClient creates a new Gemini client with lazy initialization.
// The actual API client is created only when the first request is made.
func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{
		apiKey: apiKey,
		client: nil, // Will be initialized lazily
	}
}

// GetProviderName returns the provider name for this client.
func (c *GeminiClient) GetProviderName() string {
	return "gemini"
}

// IsConfigured returns true if the client has an API key.
func (c *GeminiClient) IsConfigured() bool {
	return c.apiKey != ""
}

// SetDebugTransport sets the HTTP transport for network debugging.
func (c *GeminiClient) SetDebugTransport(transport http.RoundTripper) {
	c.debugTransport = transport
	// Clear the existing client to force re-initialization with debug transport
	c.client = nil
}

// initializeClientIfNeeded initializes the Gemini client if it hasn't been
// initialized yet.
func (c *GeminiClient) initializeClientIfNeeded(ctx context.Context) error {
	if c.client != nil {
		return nil // Already initialized
	}

	if c.apiKey == "" {
		return fmt.Errorf("google API key not configured")
	}

	clientConfig := &genai.ClientConfig{
		APIKey: c.apiKey,
	}

	if c.debugTransport != nil {
		clientConfig.HTTPClient = &http.Client{Transport: c.debugTransport}
		logger.Debug("Gemini client initialized with debug transport", "provider", "gemini")
	} else {
		logger.Debug("Gemini client initialized", "provider", "gemini")
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c.client = client
	return nil
}

// Converse sends a conversational request. Prior history is replayed in full
// ahead of the prompt; a turn carrying attachments is sent as a one-shot
// multi-part call with no history.
func (c *GeminiClient) Converse(ctx context.Context, call axoratypes.ConverseCall) (*axoratypes.BackendReply, error) {
	if err := c.initializeClientIfNeeded(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	model := call.Model
	if model == "" {
		model = GeminiGeneralModel
	}
	logger.ProviderCall("gemini", "converse", "model", model, "history", len(call.History), "attachments", len(call.Attachments))

	var contents []*genai.Content
	if len(call.Attachments) > 0 {
		contents = []*genai.Content{c.buildMultiPartContent(call.Prompt, call.Attachments)}
	} else {
		contents = c.convertHistory(call.History)
		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: call.Prompt}},
			Role:  "user",
		})
	}

	config := &genai.GenerateContentConfig{}
	if call.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(call.SystemInstruction, genai.RoleUser)
	}
	if call.ThinkingBudget > 0 {
		budget := call.ThinkingBudget
		config.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingBudget:  &budget,
			IncludeThoughts: false,
		}
	}

	result, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		logger.Error("Gemini request failed", "error", err)
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	reply := c.extractReply(result)
	logger.Debug("Gemini response received", "content_length", len(reply.Text), "images", len(reply.Images))
	return reply, nil
}

// GenerateGrounded sends a single-shot request with the Google Search tool
// enabled and returns grounding metadata alongside the text.
func (c *GeminiClient) GenerateGrounded(ctx context.Context, call axoratypes.GroundedCall) (*axoratypes.BackendReply, error) {
	if err := c.initializeClientIfNeeded(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	logger.ProviderCall("gemini", "grounded", "model", GeminiSearchModel)

	contents := []*genai.Content{
		genai.NewContentFromText(call.Prompt, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}
	if call.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(call.SystemInstruction, genai.RoleUser)
	}

	result, err := c.client.Models.GenerateContent(ctx, GeminiSearchModel, contents, config)
	if err != nil {
		logger.Error("Gemini grounded request failed", "error", err)
		return nil, fmt.Errorf("gemini grounded request failed: %w", err)
	}

	reply := c.extractReply(result)
	logger.Debug("Gemini grounded response received", "content_length", len(reply.Text), "grounded", reply.Grounding != nil)
	return reply, nil
}

// GenerateImage sends a single-shot image-generation request and returns
// the inline image payloads plus any trailing text.
func (c *GeminiClient) GenerateImage(ctx context.Context, call axoratypes.ImageCall) (*axoratypes.BackendReply, error) {
	if err := c.initializeClientIfNeeded(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	logger.ProviderCall("gemini", "image", "model", GeminiImageModel, "aspect_ratio", call.AspectRatio)

	contents := []*genai.Content{
		genai.NewContentFromText(call.Prompt, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}
	if call.AspectRatio != "" {
		config.ImageConfig = &genai.ImageConfig{AspectRatio: call.AspectRatio}
	}

	result, err := c.client.Models.GenerateContent(ctx, GeminiImageModel, contents, config)
	if err != nil {
		logger.Error("Gemini image request failed", "error", err)
		return nil, fmt.Errorf("gemini image request failed: %w", err)
	}

	reply := c.extractReply(result)
	logger.Debug("Gemini image response received", "images", len(reply.Images), "content_length", len(reply.Text))
	return reply, nil
}

// convertHistory converts stored messages to Gemini format. User messages
// keep the "user" role; every other role is replayed as "model" so the
// transcript alternation the API expects is preserved.
func (c *GeminiClient) convertHistory(history []axoratypes.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))

	for _, msg := range history {
		role := "model"
		if msg.Role == axoratypes.RoleUser {
			role = "user"
		}

		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: msg.Content}},
			Role:  role,
		})
	}

	return contents
}

// buildMultiPartContent assembles a single user turn carrying inline binary
// attachments ahead of the prompt text.
func (c *GeminiClient) buildMultiPartContent(prompt string, attachments []axoratypes.Attachment) *genai.Content {
	parts := make([]*genai.Part, 0, len(attachments)+1)

	for _, att := range attachments {
		data, err := base64.StdEncoding.DecodeString(att.Data)
		if err != nil {
			logger.Warn("Skipping attachment with invalid base64 payload", "name", att.Name, "error", err)
			continue
		}
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: att.Type,
				Data:     data,
			},
		})
	}

	parts = append(parts, &genai.Part{Text: prompt})

	return &genai.Content{Parts: parts, Role: "user"}
}

// extractReply normalizes a Gemini response: text parts are concatenated,
// thought parts are skipped, inline data becomes generated images, and
// first-candidate grounding metadata is carried through verbatim.
func (c *GeminiClient) extractReply(result *genai.GenerateContentResponse) *axoratypes.BackendReply {
	reply := &axoratypes.BackendReply{}
	var contentBuilder strings.Builder

	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}

		for _, part := range candidate.Content.Parts {
			if part.Thought {
				logger.Debug("Gemini thinking block skipped", "thinking_length", len(part.Text))
				continue
			}
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				reply.Images = append(reply.Images, axoratypes.GeneratedImage{
					MIMEType: part.InlineData.MIMEType,
					Data:     part.InlineData.Data,
				})
				continue
			}
			if part.Text != "" {
				contentBuilder.WriteString(part.Text)
			}
		}
	}

	if len(result.Candidates) > 0 && result.Candidates[0].GroundingMetadata != nil {
		reply.Grounding = axoratypes.NewGrounding(result.Candidates[0].GroundingMetadata)
	}

	reply.Text = contentBuilder.String()
	return reply
}
