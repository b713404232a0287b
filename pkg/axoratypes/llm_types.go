// Package axoratypes defines the outbound generative-backend boundary.
// This file contains the call and reply shapes the provider handlers hand
// to the backend client, and the interface the client implements.
package axoratypes

import "context"

// ConverseCall is a conversational request: the prior history is replayed
// into a fresh backend session and the prompt is sent as the next turn.
// When attachments are present the backend issues a one-shot multi-part
// call instead, bypassing history continuity for that turn.
type ConverseCall struct {
	Model             string // backend model ID; empty selects the client default
	SystemInstruction string
	History           []Message
	Prompt            string
	Attachments       []Attachment
	ThinkingBudget    int32 // 0 leaves the backend's reasoning allowance at its default
}

// GroundedCall is a single-shot request with search-augmented tooling
// enabled.
type GroundedCall struct {
	SystemInstruction string
	Prompt            string
}

// ImageCall is a single-shot image-generation request.
type ImageCall struct {
	Prompt      string
	AspectRatio string
}

// GeneratedImage is one inline binary payload returned by an image run.
type GeneratedImage struct {
	MIMEType string
	Data     []byte
}

// BackendReply is the normalized result of any backend call.
type BackendReply struct {
	Text      string
	Images    []GeneratedImage
	Grounding Grounding // nil unless the call produced citation metadata
}

// GenerativeClient is the outbound boundary to the model provider SDK.
// Implementations must not panic on malformed responses; failures surface
// as errors and are converted to error-shaped results by the router.
type GenerativeClient interface {
	// Converse replays history into a fresh conversational session and
	// sends the prompt as the next turn.
	Converse(ctx context.Context, call ConverseCall) (*BackendReply, error)

	// GenerateGrounded issues a chat call with the search tool enabled and
	// returns any grounding metadata alongside the text.
	GenerateGrounded(ctx context.Context, call GroundedCall) (*BackendReply, error)

	// GenerateImage issues a single-shot generation call and returns the
	// inline image payloads plus any trailing text.
	GenerateImage(ctx context.Context, call ImageCall) (*BackendReply, error)

	// GetProviderName returns the backend provider name, e.g. "gemini".
	GetProviderName() string

	// IsConfigured reports whether the client holds the credential it
	// needs to make requests.
	IsConfigured() bool
}
