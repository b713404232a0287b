package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"axora/pkg/axoratypes"
)

// Reasoning turns run with an elevated thinking allowance.
const reasoningThinkingBudget int32 = 32768

// Fixed fallback texts for responses that come back without usable content.
const (
	searchNoResultsText = "The search returned no results for this query."
	imageDefaultText    = "Here is the generated image."
)

// providerHandler executes one routed turn for a single provider variant.
// Handlers return Go errors; the router owns converting them into
// error-shaped results.
type providerHandler interface {
	Handle(ctx context.Context, req axoratypes.ProviderRequest) (*axoratypes.ProviderResult, error)
}

// generalHandler serves the default conversational provider. History is
// replayed in full; a turn with attachments becomes a one-shot multi-part
// call with the attachments ahead of the prompt text.
type generalHandler struct {
	client axoratypes.GenerativeClient
}

func (h *generalHandler) Handle(ctx context.Context, req axoratypes.ProviderRequest) (*axoratypes.ProviderResult, error) {
	reply, err := h.client.Converse(ctx, axoratypes.ConverseCall{
		Model:             GeminiGeneralModel,
		SystemInstruction: req.SystemInstruction,
		History:           req.History,
		Prompt:            req.Prompt,
		Attachments:       req.Attachments,
	})
	if err != nil {
		return nil, err
	}

	return &axoratypes.ProviderResult{
		Text: reply.Text,
		Kind: axoratypes.MessageTypeText,
	}, nil
}

// searchHandler serves search-grounded turns. Grounding metadata from the
// first candidate rides along with the text.
type searchHandler struct {
	client axoratypes.GenerativeClient
}

func (h *searchHandler) Handle(ctx context.Context, req axoratypes.ProviderRequest) (*axoratypes.ProviderResult, error) {
	reply, err := h.client.GenerateGrounded(ctx, axoratypes.GroundedCall{
		SystemInstruction: req.SystemInstruction,
		Prompt:            req.Prompt,
	})
	if err != nil {
		return nil, err
	}

	text := reply.Text
	if text == "" {
		text = searchNoResultsText
	}

	return &axoratypes.ProviderResult{
		Text:      text,
		Grounding: reply.Grounding,
		Kind:      axoratypes.MessageTypeText,
	}, nil
}

// reasoningHandler serves high-reasoning turns: full history replay plus an
// elevated thinking budget. An empty reply stays empty rather than being
// substituted.
type reasoningHandler struct {
	client axoratypes.GenerativeClient
}

func (h *reasoningHandler) Handle(ctx context.Context, req axoratypes.ProviderRequest) (*axoratypes.ProviderResult, error) {
	reply, err := h.client.Converse(ctx, axoratypes.ConverseCall{
		Model:             GeminiReasoningModel,
		SystemInstruction: req.SystemInstruction,
		History:           req.History,
		Prompt:            req.Prompt,
		ThinkingBudget:    reasoningThinkingBudget,
	})
	if err != nil {
		return nil, err
	}

	return &axoratypes.ProviderResult{
		Text: reply.Text,
		Kind: axoratypes.MessageTypeText,
	}, nil
}

// imageHandler serves image-generation turns. Inline payloads are
// re-encoded as data URIs tagged with the requested output format, and any
// trailing text becomes the response text.
type imageHandler struct {
	client axoratypes.GenerativeClient
}

func (h *imageHandler) Handle(ctx context.Context, req axoratypes.ProviderRequest) (*axoratypes.ProviderResult, error) {
	aspect := req.Image.AspectRatio
	if aspect == "" {
		aspect = axoratypes.DefaultAspectRatio
	}
	format := req.Image.OutputFormat
	if format == "" {
		format = axoratypes.DefaultImageFormat
	}

	reply, err := h.client.GenerateImage(ctx, axoratypes.ImageCall{
		Prompt:      req.Prompt,
		AspectRatio: aspect,
	})
	if err != nil {
		return nil, err
	}

	images := make([]string, 0, len(reply.Images))
	for _, img := range reply.Images {
		images = append(images, fmt.Sprintf("data:image/%s;base64,%s", format, base64.StdEncoding.EncodeToString(img.Data)))
	}

	text := strings.TrimSpace(reply.Text)
	if text == "" {
		text = imageDefaultText
	}

	kind := axoratypes.MessageTypeText
	if len(images) > 0 {
		kind = axoratypes.MessageTypeImage
	}

	return &axoratypes.ProviderResult{
		Text:   text,
		Images: images,
		Kind:   kind,
	}, nil
}
