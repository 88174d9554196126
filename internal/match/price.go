package match

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"prowl/internal/model"
)

// Price is an extracted price value with its detected currency symbol.
// Currency is empty when no currency token appeared near the number.
type Price struct {
	Currency string
	Value    float64
}

// currencyGroup maps a set of tokens to one currency symbol. Groups are
// checked in order against the full matched span; first hit wins.
type currencyGroup struct {
	symbol string
	tokens []string
}

var currencyGroups = []currencyGroup{
	{symbol: "€", tokens: []string{"€", "eur", "евро"}},
	{symbol: "$", tokens: []string{"$", "usd", "dollar", "доллар"}},
}

// compiledPricePattern is a price pattern template with the numeric
// sub-pattern substituted in and compiled.
type compiledPricePattern struct {
	re          *regexp.Regexp
	description string
	minValue    float64
}

// PriceExtractor evaluates an ordered list of price patterns against raw
// message text. Patterns are compiled once at construction; templates
// that fail to compile are dropped with a diagnostic so a bad entry never
// aborts extraction.
type PriceExtractor struct {
	warnEmpty sync.Once
	patterns  []compiledPricePattern
}

// NewPriceExtractor compiles the given patterns, substituting numberRegex
// for the {price} placeholder in each template. An empty numberRegex
// selects the default numeric format.
func NewPriceExtractor(patterns []model.PricePattern, numberRegex string) *PriceExtractor {
	if numberRegex == "" {
		numberRegex = model.DefaultPriceNumberRegex
	}

	e := &PriceExtractor{patterns: make([]compiledPricePattern, 0, len(patterns))}

	for _, p := range patterns {
		if p.Pattern == "" {
			continue
		}

		substituted := strings.ReplaceAll(p.Pattern, model.PricePlaceholder, numberRegex)
		re, err := regexp.Compile(`(?i)` + substituted)
		if err != nil {
			slog.Warn("Invalid price pattern, skipping",
				"pattern", p.Pattern,
				"description", p.Description,
				"error", err)
			continue
		}

		e.patterns = append(e.patterns, compiledPricePattern{
			re:          re,
			minValue:    p.MinValue,
			description: p.Description,
		})
	}

	slog.Debug("Compiled price patterns", "count", len(e.patterns))

	return e
}

// Extract searches text with each pattern in configuration order and
// returns the first qualifying price. A pattern qualifies when its first
// capture group parses to a value at or above the pattern's minimum.
// Returns false when no pattern yields a qualifying value.
func (e *PriceExtractor) Extract(text string) (Price, bool) {
	if len(e.patterns) == 0 {
		e.warnEmpty.Do(func() {
			slog.Warn("No price patterns configured")
		})
		return Price{}, false
	}

	for _, p := range e.patterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if len(m) < 2 {
			// Template without a capture group cannot yield a number.
			slog.Debug("Price pattern has no capture group", "description", p.description)
			continue
		}

		value, ok := parsePriceString(m[1])
		if !ok {
			continue
		}

		if value < p.minValue {
			slog.Debug("Price below pattern minimum, trying next pattern",
				"price", value,
				"min_value", p.minValue,
				"description", p.description)
			continue
		}

		currency := detectCurrency(m[0])
		slog.Debug("Price extracted",
			"price", value,
			"currency", currency,
			"description", p.description)

		return Price{Value: value, Currency: currency}, true
	}

	slog.Debug("No price found in message")

	return Price{}, false
}

// parsePriceString parses a captured numeric substring under ambiguous
// separator conventions. The rightmost of '.' and ',' is treated as the
// decimal separator when exactly 1 or 2 digits follow it; every other
// separator and space is a grouping character and is stripped. Accepts
// "1,234.56", "1234,56", "1 234.56", and "1234" alike.
func parsePriceString(s string) (float64, bool) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return 0, false
	}

	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")

	decimalPos := -1
	if lastDot > lastComma {
		if isDecimalTail(cleaned[lastDot+1:]) {
			decimalPos = lastDot
		}
	} else if lastComma > lastDot {
		if isDecimalTail(cleaned[lastComma+1:]) {
			decimalPos = lastComma
		}
	}

	if decimalPos > 0 {
		intPart := stripSeparators(cleaned[:decimalPos])
		cleaned = intPart + "." + cleaned[decimalPos+1:]
	} else {
		cleaned = stripSeparators(cleaned)
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		slog.Debug("Failed to parse price string", "price", s, "error", err)
		return 0, false
	}

	return value, true
}

// isDecimalTail reports whether tail is 1 or 2 digits, the shape of a
// fractional part.
func isDecimalTail(tail string) bool {
	if len(tail) < 1 || len(tail) > 2 {
		return false
	}
	for _, r := range tail {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// stripSeparators removes grouping separators and spaces, including
// non-breaking spaces.
func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ',', '.', ' ', '\u00a0':
			return -1
		}
		return r
	}, s)
}

// detectCurrency scans the full matched span for known currency tokens.
func detectCurrency(span string) string {
	lowered := strings.ToLower(span)
	for _, g := range currencyGroups {
		for _, token := range g.tokens {
			if strings.Contains(lowered, token) {
				return g.symbol
			}
		}
	}
	return ""
}
