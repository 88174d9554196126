// Package monitor runs the message processing loop: it feeds incoming
// channel messages through the matching engine, persists matches, and
// dispatches notifications.
package monitor

import (
	"fmt"
	"strings"
)

// NormalizeChannelID normalizes a channel identifier from any of the
// supported forms: t.me URLs, @username, bare username, or a numeric ID.
func NormalizeChannelID(channelID string) string {
	s := strings.TrimSpace(channelID)
	if s == "" {
		return s
	}

	// Numeric IDs pass through unchanged.
	if isNumericID(s) {
		return s
	}

	// t.me URLs in any scheme: extract the username segment.
	if idx := strings.Index(strings.ToLower(s), "t.me/"); idx >= 0 {
		username := s[idx+len("t.me/"):]
		if cut := strings.IndexAny(username, "/?"); cut >= 0 {
			username = username[:cut]
		}
		return strings.TrimSpace(username)
	}

	return strings.TrimPrefix(s, "@")
}

// MessageLink builds a t.me link to a specific message. Channels known by
// username get the public form; numeric "-100…" IDs get the private form.
func MessageLink(channel string, messageID int64) string {
	c := NormalizeChannelID(channel)
	if c == "" {
		return ""
	}

	if isNumericID(c) {
		return fmt.Sprintf("https://t.me/c/%s/%d", strings.TrimPrefix(c, "-100"), messageID)
	}

	return fmt.Sprintf("https://t.me/%s/%d", c, messageID)
}

// isNumericID reports whether s is a (possibly negative) numeric channel ID.
func isNumericID(s string) bool {
	digits := strings.TrimPrefix(s, "-")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
