package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"axora/internal/testutils"
	"axora/pkg/axoratypes"
)

func TestNewExporter(t *testing.T) {
	tests := []struct {
		format    string
		extension string
		wantErr   bool
	}{
		{format: "txt", extension: "txt"},
		{format: "text", extension: "txt"},
		{format: "md", extension: "md"},
		{format: "markdown", extension: "md"},
		{format: "json", extension: "json"},
		{format: "xml", wantErr: true},
		{format: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("format_"+tt.format, func(t *testing.T) {
			exporter, err := NewExporter(tt.format)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unsupported format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.extension, exporter.Extension())
		})
	}
}

func TestFilename(t *testing.T) {
	now := testutils.TestEpoch // 1735689600000 ms

	tests := []struct {
		name    string
		session *axoratypes.ChatSession
		want    string
	}{
		{
			name:    "title sanitized and lower-cased",
			session: &axoratypes.ChatSession{Title: "Project Kickoff!"},
			want:    "axora_chat_project_kickoff__1735689600000.txt",
		},
		{
			name:    "plain title",
			session: &axoratypes.ChatSession{Title: "hi"},
			want:    "axora_chat_hi_1735689600000.txt",
		},
		{
			name:    "non-ascii runes replaced",
			session: &axoratypes.ChatSession{Title: "Héllo Wörld 42"},
			want:    "axora_chat_h_llo_w_rld_42_1735689600000.txt",
		},
		{
			name:    "empty title falls back",
			session: &axoratypes.ChatSession{},
			want:    "axora_chat_untitled_1735689600000.txt",
		},
		{
			name: "nil session falls back",
			want: "axora_chat_untitled_1735689600000.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.session, now, "txt"))
		})
	}
}

func TestFilename_UsesGivenExtension(t *testing.T) {
	session := &axoratypes.ChatSession{Title: "hi"}
	assert.Equal(t, "axora_chat_hi_1735689600000.md", Filename(session, testutils.TestEpoch, "md"))
}
