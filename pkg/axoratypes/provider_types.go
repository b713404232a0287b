// Package axoratypes defines the provider routing contract.
// This file contains the request and result shapes exchanged between the
// chat orchestration layer and the provider router.
package axoratypes

// Default image settings applied when the caller leaves them unset.
const (
	DefaultAspectRatio = "1:1"
	DefaultImageFormat = "png"
)

// ImageSettings are the caller-facing options for an image-generation turn.
type ImageSettings struct {
	AspectRatio  string `json:"aspectRatio,omitempty"`
	OutputFormat string `json:"outputFormat,omitempty"` // file extension without dot, e.g. "png"
}

// ProviderRequest is the routed unit of work: one outbound turn with all
// the context the selected provider variant needs.
type ProviderRequest struct {
	History           []Message
	Mode              Mode
	SystemInstruction string
	Prompt            string
	Attachments       []Attachment
	Image             ImageSettings
}

// ProviderResult is the normalized outcome of a routed turn. Kind tags how
// the result should enter the message pipeline: error-shaped results carry
// MessageTypeError and never propagate as Go errors past the router.
type ProviderResult struct {
	Text      string
	Images    []string // data URIs, one per generated image
	Grounding Grounding
	Kind      MessageType
}
