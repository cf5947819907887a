package playground

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeChunk(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *StreamEvent
	}{
		{
			name: "token chunk",
			raw:  `{"data": "Hi"}`,
			want: &StreamEvent{Kind: EventToken, Text: "Hi"},
		},
		{
			name: "empty token is still a token",
			raw:  `{"data": ""}`,
			want: &StreamEvent{Kind: EventToken, Text: ""},
		},
		{
			name: "error chunk",
			raw:  `{"error": "rate limited"}`,
			want: &StreamEvent{Kind: EventError, Text: "rate limited"},
		},
		{
			name: "error wins when both fields present",
			raw:  `{"data": "x", "error": "boom"}`,
			want: &StreamEvent{Kind: EventError, Text: "boom"},
		},
		{
			name: "heartbeat object",
			raw:  `{}`,
			want: nil,
		},
		{
			name: "unrelated payload",
			raw:  `{"status": "warming up"}`,
			want: nil,
		},
		{
			name: "empty chunk",
			raw:  "",
			want: nil,
		},
		{
			name: "whitespace chunk",
			raw:  "  \n",
			want: nil,
		},
		{
			name: "malformed JSON decodes to noop rather than failing",
			raw:  `{"data": "unterminated`,
			want: nil,
		},
		{
			name: "non-object payload",
			raw:  `"just a string"`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeChunk([]byte(tt.raw))
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want.Kind, got.Kind)
			assert.Equal(t, tt.want.Text, got.Text)
		})
	}
}
