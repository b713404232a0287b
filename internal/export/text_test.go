package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"axora/internal/testutils"
	"axora/pkg/axoratypes"
)

func groundingWith(uri, title string) axoratypes.Grounding {
	return axoratypes.NewGrounding(map[string]any{
		"groundingChunks": []map[string]any{
			{"web": map[string]string{"uri": uri, "title": title}},
		},
	})
}

func sampleSession() *axoratypes.ChatSession {
	ts1 := testutils.TestEpoch.Add(10*time.Hour + 30*time.Minute)
	ts2 := ts1.Add(5 * time.Second)
	return &axoratypes.ChatSession{
		ID:           "s-1",
		Title:        "Project Kickoff",
		LastModified: ts2.UnixMilli(),
		ModeID:       "General",
		Messages: []axoratypes.Message{
			{
				ID:        "m1",
				Role:      axoratypes.RoleUser,
				Content:   "hello",
				Type:      axoratypes.MessageTypeText,
				Timestamp: ts1.UnixMilli(),
			},
			{
				ID:        "m2",
				Role:      axoratypes.RoleModel,
				Content:   "world",
				Type:      axoratypes.MessageTypeText,
				Timestamp: ts2.UnixMilli(),
				Attachments: []axoratypes.Attachment{
					{Type: "image/png", Data: "aGk=", Name: "hi.png"},
				},
				Grounding: groundingWith("http://x.com", "Example"),
			},
		},
	}
}

func TestTextExporter_Export(t *testing.T) {
	tests := []struct {
		name    string
		session *axoratypes.ChatSession
		want    []string
		notWant []string
	}{
		{
			name:    "full transcript",
			session: sampleSession(),
			want: []string{
				"Session: s-1",
				"Title: Project Kickoff",
				"Date: 2025-01-01 10:30:05 UTC",
				"Mode: General",
				"Project: None",
				"[10:30:00] USER:",
				"hello",
				"[10:30:05] MODEL:",
				"world",
				"(Attachments: 1)",
				"Sources Used:",
				"1. http://x.com (Example)",
			},
		},
		{
			name: "grounded source without title",
			session: &axoratypes.ChatSession{
				ID:     "s-2",
				Title:  "Research",
				ModeID: "Research",
				Messages: []axoratypes.Message{
					{Role: axoratypes.RoleUser, Content: "what is new"},
					{Role: axoratypes.RoleModel, Content: "answer", Grounding: groundingWith("http://x.com", "")},
				},
			},
			want: []string{
				"USER:",
				"MODEL:",
				"Sources Used:",
				"1. http://x.com",
			},
			notWant: []string{"()"},
		},
		{
			name: "session with project",
			session: &axoratypes.ChatSession{
				ID:        "s-3",
				Title:     "Linked",
				ModeID:    "Architect",
				ProjectID: "proj-1",
				Messages:  []axoratypes.Message{},
			},
			want:    []string{"Project: proj-1"},
			notWant: []string{"Project: None"},
		},
		{
			name: "no messages",
			session: &axoratypes.ChatSession{
				ID:       "s-4",
				Title:    "Empty",
				ModeID:   "General",
				Messages: []axoratypes.Message{},
			},
			want:    []string{"Session: s-4", "Title: Empty"},
			notWant: []string{"]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &TextExporter{}

			err := exporter.Export(tt.session, &buf)
			require.NoError(t, err)

			output := buf.String()
			for _, wantStr := range tt.want {
				assert.Contains(t, output, wantStr)
			}
			for _, notWantStr := range tt.notWant {
				assert.NotContains(t, output, notWantStr)
			}
		})
	}
}

func TestTextExporter_NilSessionProducesNoOutput(t *testing.T) {
	var buf bytes.Buffer
	exporter := &TextExporter{}

	err := exporter.Export(nil, &buf)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestTextExporter_NumbersSourcesFromOne(t *testing.T) {
	session := &axoratypes.ChatSession{
		ID:     "s-5",
		Title:  "Multi",
		ModeID: "Research",
		Messages: []axoratypes.Message{
			{
				Role:    axoratypes.RoleModel,
				Content: "two sources",
				Grounding: axoratypes.NewGrounding(map[string]any{
					"groundingChunks": []map[string]any{
						{"web": map[string]string{"uri": "http://a.com", "title": "A"}},
						{"web": map[string]string{"uri": "http://b.com", "title": "B"}},
					},
				}),
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, (&TextExporter{}).Export(session, &buf))

	output := buf.String()
	assert.Contains(t, output, "1. http://a.com (A)")
	assert.Contains(t, output, "2. http://b.com (B)")
}

func TestTextExporter_IsDeterministic(t *testing.T) {
	session := sampleSession()

	var first, second bytes.Buffer
	require.NoError(t, (&TextExporter{}).Export(session, &first))
	require.NoError(t, (&TextExporter{}).Export(session, &second))

	testutils.RequireEqualText(t, first.String(), second.String())
}

func TestTextExporter_Extension(t *testing.T) {
	assert.Equal(t, "txt", (&TextExporter{}).Extension())
}
