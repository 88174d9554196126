// Package model defines the core data structures for the prowl application.
package model

import (
	"fmt"
)

// Product represents a configured product rule: inclusion keywords,
// optional exclusion keywords, and an optional price range.
type Product struct {
	PriceRange      *PriceRange `json:"price_range,omitempty" mapstructure:"price_range"`
	Name            string      `json:"name" mapstructure:"name"`
	Keywords        []string    `json:"keywords" mapstructure:"keywords"`
	ExcludeKeywords []string    `json:"exclude_keywords,omitempty" mapstructure:"exclude_keywords"`
	Notify          bool        `json:"notify" mapstructure:"notify"`
}

// PriceRange bounds the acceptable price for a product. Both bounds are
// inclusive; a nil Max means unbounded.
type PriceRange struct {
	Max *float64 `json:"max,omitempty" mapstructure:"max"`
	Min float64  `json:"min" mapstructure:"min"`
}

// Contains reports whether value falls inside the range.
func (r *PriceRange) Contains(value float64) bool {
	if value < r.Min {
		return false
	}
	if r.Max != nil && value > *r.Max {
		return false
	}
	return true
}

// Validate ensures the product has valid data.
func (p *Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("product name is required")
	}

	if len(p.Keywords) == 0 {
		return fmt.Errorf("product %q must have at least one keyword", p.Name)
	}

	for i, kw := range p.Keywords {
		if kw == "" {
			return fmt.Errorf("product %q has an empty keyword at index %d", p.Name, i)
		}
	}

	if p.PriceRange != nil {
		if p.PriceRange.Min < 0 {
			return fmt.Errorf("product %q price range min must not be negative", p.Name)
		}
		if p.PriceRange.Max != nil && p.PriceRange.Min > *p.PriceRange.Max {
			return fmt.Errorf("product %q price range min must be less than or equal to max", p.Name)
		}
	}

	return nil
}

// MatchingSettings controls how keywords are compared against message text.
// Supplied once at construction and read-only afterwards.
type MatchingSettings struct {
	CaseSensitive   bool `mapstructure:"case_sensitive"`
	WholeWord       bool `mapstructure:"whole_word"`
	PatternMatching bool `mapstructure:"pattern_matching"`
}
