package services

import (
	"context"
	"fmt"

	"axora/internal/logger"
	"axora/pkg/axoratypes"
)

// MissingCredentialText is returned for every routed turn while no backend
// API key is configured. The short-circuit happens before any network call.
const MissingCredentialText = "No API key configured. Set GEMINI_API_KEY (or AXORA_GEMINI_API_KEY) to enable responses."

// RouterService dispatches routed turns to the handler for the session
// mode's provider variant. Route never returns a Go error: every failure
// mode is converted into a result that flows through the message pipeline.
type RouterService struct {
	initialized bool
	client      axoratypes.GenerativeClient
	handlers    map[axoratypes.Provider]providerHandler
}

// NewRouterService creates a router bound to the given backend client.
func NewRouterService(client axoratypes.GenerativeClient) *RouterService {
	return &RouterService{
		initialized: false,
		client:      client,
	}
}

// Name returns the service name for identification.
func (r *RouterService) Name() string {
	return "router"
}

// Initialize builds the handler set for the closed provider variants.
func (r *RouterService) Initialize() error {
	if r.initialized {
		return nil
	}
	if r.client == nil {
		return fmt.Errorf("router service requires a backend client")
	}

	r.handlers = map[axoratypes.Provider]providerHandler{
		axoratypes.ProviderGeneral:   &generalHandler{client: r.client},
		axoratypes.ProviderSearch:    &searchHandler{client: r.client},
		axoratypes.ProviderReasoning: &reasoningHandler{client: r.client},
		axoratypes.ProviderImage:     &imageHandler{client: r.client},
	}
	r.initialized = true
	return nil
}

// Route executes one turn against the provider selected by the request's
// mode. A missing credential short-circuits with fixed diagnostic text; an
// unknown provider degrades to the general handler; handler errors are
// logged and converted into an error-shaped result embedding the provider
// label.
func (r *RouterService) Route(ctx context.Context, req axoratypes.ProviderRequest) *axoratypes.ProviderResult {
	if !r.initialized {
		logger.Error("Route called before router initialization")
		return &axoratypes.ProviderResult{
			Text: "router service not initialized",
			Kind: axoratypes.MessageTypeError,
		}
	}

	if !r.client.IsConfigured() {
		logger.Warn("Backend credential missing, short-circuiting", "provider", r.client.GetProviderName())
		return &axoratypes.ProviderResult{
			Text: MissingCredentialText,
			Kind: axoratypes.MessageTypeText,
		}
	}

	handler, ok := r.handlers[req.Mode.Provider]
	if !ok {
		logger.Warn("Unknown provider, degrading to general handler", "provider", string(req.Mode.Provider), "mode", req.Mode.ID)
		handler = r.handlers[axoratypes.ProviderGeneral]
	}

	result, err := handler.Handle(ctx, req)
	if err != nil {
		logger.Error("Provider call failed", "provider", req.Mode.Provider.Label(), "error", err)
		return &axoratypes.ProviderResult{
			Text: fmt.Sprintf("%s provider error: %v", req.Mode.Provider.Label(), err),
			Kind: axoratypes.MessageTypeError,
		}
	}

	return result
}
