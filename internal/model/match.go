package model

import (
	"fmt"
	"time"
)

// MatchResult is produced by the matching engine for each product that a
// message satisfies. Matched keywords preserve catalog order.
type MatchResult struct {
	Price           *float64 `json:"price,omitempty"`
	ProductName     string   `json:"product_name"`
	Currency        string   `json:"currency,omitempty"`
	MatchedKeywords []string `json:"matched_keywords"`
	Notify          bool     `json:"notify"`
}

// MatchRecord is the persisted form of a match: the engine result plus the
// message context it was found in.
type MatchRecord struct {
	CreatedAt       time.Time `json:"created_at"`
	MessageDate     time.Time `json:"message_date"`
	Price           *float64  `json:"price,omitempty"`
	ID              string    `json:"id"`
	ProductName     string    `json:"product_name"`
	Currency        string    `json:"currency,omitempty"`
	Channel         string    `json:"channel"`
	MessageText     string    `json:"message_text"`
	MessageLink     string    `json:"message_link,omitempty"`
	MatchedKeywords []string  `json:"matched_keywords"`
	MessageID       int64     `json:"message_id"`
	Notify          bool      `json:"notify"`
}

// Validate ensures the record can be persisted.
func (r *MatchRecord) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("match record ID is required")
	}
	if r.ProductName == "" {
		return fmt.Errorf("match record product name is required")
	}
	if r.MessageText == "" {
		return fmt.Errorf("match record message text is required")
	}
	return nil
}
