package model

import (
	"fmt"
	"strings"
)

// PricePlaceholder is the literal token in a price pattern template that
// gets replaced with the configured numeric sub-pattern before evaluation.
const PricePlaceholder = "{price}"

// DefaultPriceNumberRegex captures a run of digits with optional grouping
// and decimal separators. Used when no numeric format is configured.
const DefaultPriceNumberRegex = `(\d{1,4}(?:[,\s]\d{3})*(?:[.,]\d{1,2})?)`

// PricePattern describes where and how a price appears in message text.
// Patterns are evaluated in configuration order; the first pattern that
// yields a qualifying value wins.
type PricePattern struct {
	Pattern     string  `json:"pattern" mapstructure:"pattern"`
	Description string  `json:"description,omitempty" mapstructure:"description"`
	MinValue    float64 `json:"min_value" mapstructure:"min_value"`
}

// Validate ensures the pattern template is usable.
func (p *PricePattern) Validate() error {
	if p.Pattern == "" {
		return fmt.Errorf("price pattern is required")
	}

	if !strings.Contains(p.Pattern, PricePlaceholder) {
		return fmt.Errorf("price pattern %q must contain the %s placeholder", p.Pattern, PricePlaceholder)
	}

	if p.MinValue < 0 {
		return fmt.Errorf("price pattern %q min_value must not be negative", p.Pattern)
	}

	return nil
}
