package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"axora/pkg/axoratypes"
)

// fakeGenerativeClient is a scriptable backend used across the routing and
// orchestration tests.
type fakeGenerativeClient struct {
	configured bool
	err        error

	converseReply *axoratypes.BackendReply
	groundedReply *axoratypes.BackendReply
	imageReply    *axoratypes.BackendReply

	converseCalls []axoratypes.ConverseCall
	groundedCalls []axoratypes.GroundedCall
	imageCalls    []axoratypes.ImageCall
}

func (f *fakeGenerativeClient) Converse(_ context.Context, call axoratypes.ConverseCall) (*axoratypes.BackendReply, error) {
	f.converseCalls = append(f.converseCalls, call)
	if f.err != nil {
		return nil, f.err
	}
	if f.converseReply != nil {
		return f.converseReply, nil
	}
	return &axoratypes.BackendReply{Text: "converse reply"}, nil
}

func (f *fakeGenerativeClient) GenerateGrounded(_ context.Context, call axoratypes.GroundedCall) (*axoratypes.BackendReply, error) {
	f.groundedCalls = append(f.groundedCalls, call)
	if f.err != nil {
		return nil, f.err
	}
	if f.groundedReply != nil {
		return f.groundedReply, nil
	}
	return &axoratypes.BackendReply{Text: "grounded reply"}, nil
}

func (f *fakeGenerativeClient) GenerateImage(_ context.Context, call axoratypes.ImageCall) (*axoratypes.BackendReply, error) {
	f.imageCalls = append(f.imageCalls, call)
	if f.err != nil {
		return nil, f.err
	}
	if f.imageReply != nil {
		return f.imageReply, nil
	}
	return &axoratypes.BackendReply{Text: "image reply"}, nil
}

func (f *fakeGenerativeClient) GetProviderName() string { return "gemini" }
func (f *fakeGenerativeClient) IsConfigured() bool      { return f.configured }

func newTestRouter(t *testing.T, client *fakeGenerativeClient) *RouterService {
	t.Helper()
	router := NewRouterService(client)
	require.NoError(t, router.Initialize())
	return router
}

func requestForProvider(provider axoratypes.Provider) axoratypes.ProviderRequest {
	return axoratypes.ProviderRequest{
		Mode: axoratypes.Mode{
			ID:       "test-mode",
			Name:     "Test",
			Provider: provider,
		},
		SystemInstruction: "be helpful",
		Prompt:            "hello",
	}
}

func TestRouterService_Name(t *testing.T) {
	assert.Equal(t, "router", NewRouterService(&fakeGenerativeClient{}).Name())
}

func TestRouterService_Initialize_RequiresClient(t *testing.T) {
	router := NewRouterService(nil)
	err := router.Initialize()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "backend client")
}

func TestRouterService_Route_MissingCredentialShortCircuits(t *testing.T) {
	client := &fakeGenerativeClient{configured: false}
	router := newTestRouter(t, client)

	result := router.Route(context.Background(), requestForProvider(axoratypes.ProviderGeneral))

	require.NotNil(t, result)
	assert.Equal(t, MissingCredentialText, result.Text)
	assert.Equal(t, axoratypes.MessageTypeText, result.Kind)

	// No network-facing call was made
	assert.Empty(t, client.converseCalls)
	assert.Empty(t, client.groundedCalls)
	assert.Empty(t, client.imageCalls)
}

func TestRouterService_Route_DispatchesByProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider axoratypes.Provider
		checkFn  func(t *testing.T, client *fakeGenerativeClient)
	}{
		{
			name:     "general uses conversational call",
			provider: axoratypes.ProviderGeneral,
			checkFn: func(t *testing.T, client *fakeGenerativeClient) {
				require.Len(t, client.converseCalls, 1)
				assert.Equal(t, GeminiGeneralModel, client.converseCalls[0].Model)
			},
		},
		{
			name:     "search uses grounded call",
			provider: axoratypes.ProviderSearch,
			checkFn: func(t *testing.T, client *fakeGenerativeClient) {
				require.Len(t, client.groundedCalls, 1)
				assert.Equal(t, "hello", client.groundedCalls[0].Prompt)
			},
		},
		{
			name:     "reasoning uses conversational call with elevated budget",
			provider: axoratypes.ProviderReasoning,
			checkFn: func(t *testing.T, client *fakeGenerativeClient) {
				require.Len(t, client.converseCalls, 1)
				assert.Equal(t, GeminiReasoningModel, client.converseCalls[0].Model)
				assert.Equal(t, reasoningThinkingBudget, client.converseCalls[0].ThinkingBudget)
			},
		},
		{
			name:     "image uses generation call",
			provider: axoratypes.ProviderImage,
			checkFn: func(t *testing.T, client *fakeGenerativeClient) {
				require.Len(t, client.imageCalls, 1)
				assert.Equal(t, "hello", client.imageCalls[0].Prompt)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeGenerativeClient{configured: true}
			router := newTestRouter(t, client)

			result := router.Route(context.Background(), requestForProvider(tt.provider))

			require.NotNil(t, result)
			assert.NotEqual(t, axoratypes.MessageTypeError, result.Kind)
			tt.checkFn(t, client)
		})
	}
}

func TestRouterService_Route_UnknownProviderDegradesToGeneral(t *testing.T) {
	client := &fakeGenerativeClient{configured: true}
	router := newTestRouter(t, client)

	result := router.Route(context.Background(), requestForProvider(axoratypes.Provider("experimental")))

	require.NotNil(t, result)
	assert.Equal(t, "converse reply", result.Text)
	require.Len(t, client.converseCalls, 1)
	assert.Equal(t, GeminiGeneralModel, client.converseCalls[0].Model)
}

func TestRouterService_Route_ErrorsBecomeErrorResults(t *testing.T) {
	client := &fakeGenerativeClient{
		configured: true,
		err:        errors.New("quota exhausted"),
	}
	router := newTestRouter(t, client)

	result := router.Route(context.Background(), requestForProvider(axoratypes.ProviderSearch))

	require.NotNil(t, result)
	assert.Equal(t, axoratypes.MessageTypeError, result.Kind)
	assert.Contains(t, result.Text, "Search-Grounded")
	assert.Contains(t, result.Text, "quota exhausted")
}

func TestRouterService_Route_BeforeInitialize(t *testing.T) {
	router := NewRouterService(&fakeGenerativeClient{configured: true})

	result := router.Route(context.Background(), requestForProvider(axoratypes.ProviderGeneral))

	require.NotNil(t, result)
	assert.Equal(t, axoratypes.MessageTypeError, result.Kind)
}
