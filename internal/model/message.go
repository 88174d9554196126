package model

import "time"

// Message is a single channel message flowing from a source into the
// monitor. Text may be empty for media-only posts.
type Message struct {
	PostedAt time.Time `json:"posted_at"`
	Channel  string    `json:"channel"`
	Text     string    `json:"text"`
	ID       int64     `json:"message_id"`
}

// Notification carries everything a notifier needs to announce one
// product match.
type Notification struct {
	MessageDate time.Time
	ChannelName string
	MessageText string
	MessageLink string
	Result      MatchResult
}
