package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeChannelID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bare username", input: "dealswatch", want: "dealswatch"},
		{name: "at-prefixed username", input: "@dealswatch", want: "dealswatch"},
		{name: "https t.me url", input: "https://t.me/dealswatch", want: "dealswatch"},
		{name: "bare t.me url", input: "t.me/dealswatch", want: "dealswatch"},
		{name: "url with trailing path", input: "https://t.me/dealswatch/123", want: "dealswatch"},
		{name: "url with query", input: "https://t.me/dealswatch?single", want: "dealswatch"},
		{name: "numeric id passes through", input: "-1001234567890", want: "-1001234567890"},
		{name: "positive numeric id", input: "1234567890", want: "1234567890"},
		{name: "surrounding whitespace", input: "  @dealswatch  ", want: "dealswatch"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeChannelID(tt.input))
		})
	}
}

func TestMessageLink(t *testing.T) {
	tests := []struct {
		name      string
		channel   string
		messageID int64
		want      string
	}{
		{
			name:      "public channel",
			channel:   "dealswatch",
			messageID: 42,
			want:      "https://t.me/dealswatch/42",
		},
		{
			name:      "url form channel",
			channel:   "https://t.me/dealswatch",
			messageID: 42,
			want:      "https://t.me/dealswatch/42",
		},
		{
			name:      "private numeric channel",
			channel:   "-1001234567890",
			messageID: 7,
			want:      "https://t.me/c/1234567890/7",
		},
		{
			name:      "empty channel",
			channel:   "",
			messageID: 7,
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MessageLink(tt.channel, tt.messageID))
		})
	}
}
