package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prowl/internal/model"
)

func TestParsePriceString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{name: "plain integer", input: "1234", want: 1234, ok: true},
		{name: "us format", input: "1,234.56", want: 1234.56, ok: true},
		{name: "european decimal comma", input: "1234,56", want: 1234.56, ok: true},
		{name: "european grouped", input: "1.234,56", want: 1234.56, ok: true},
		{name: "space grouped", input: "1 234", want: 1234, ok: true},
		{name: "space grouped with decimal", input: "1 234.56", want: 1234.56, ok: true},
		{name: "non-breaking space grouped", input: "1\u00a0234", want: 1234, ok: true},
		{name: "single decimal digit", input: "99,5", want: 99.5, ok: true},
		{name: "three digits after comma is grouping", input: "1,234", want: 1234, ok: true},
		{name: "three digits after dot is grouping", input: "1.234", want: 1234, ok: true},
		{name: "trailing whitespace", input: " 250 ", want: 250, ok: true},
		{name: "multiple groups", input: "1,234,567.89", want: 1234567.89, ok: true},
		{name: "empty", input: "", ok: false},
		{name: "only separators", input: ",.", ok: false},
		{name: "not a number", input: "abc", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parsePriceString(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 0.0001)
			}
		})
	}
}

func TestDetectCurrency(t *testing.T) {
	tests := []struct {
		name string
		span string
		want string
	}{
		{name: "euro sign", span: "250€", want: "€"},
		{name: "eur code", span: "250 EUR", want: "€"},
		{name: "russian euro word", span: "250 евро", want: "€"},
		{name: "dollar sign", span: "$250", want: "$"},
		{name: "usd code", span: "250 usd", want: "$"},
		{name: "dollar word", span: "250 dollars", want: "$"},
		{name: "russian dollar word", span: "250 долларов", want: "$"},
		{name: "euro wins over dollar", span: "250 EUR ($270)", want: "€"},
		{name: "no currency", span: "price: 250", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectCurrency(tt.span))
		})
	}
}

func TestPriceExtractor_Extract(t *testing.T) {
	patterns := []model.PricePattern{
		{Pattern: `[$€]\s*{price}`, Description: "currency prefix"},
		{Pattern: `{price}\s*[$€]`, Description: "currency suffix"},
		{Pattern: `price[:\s]+{price}`, Description: "labelled price"},
	}
	e := NewPriceExtractor(patterns, "")

	tests := []struct {
		name         string
		text         string
		wantValue    float64
		wantCurrency string
		wantFound    bool
	}{
		{
			name:         "dollar prefix",
			text:         "Selling a phone for $250, great condition",
			wantValue:    250,
			wantCurrency: "$",
			wantFound:    true,
		},
		{
			name:         "euro suffix",
			text:         "MacBook, 1 299.99€ obo",
			wantValue:    1299.99,
			wantCurrency: "€",
			wantFound:    true,
		},
		{
			name:      "labelled without currency",
			text:      "price: 480",
			wantValue: 480,
			wantFound: true,
		},
		{
			name:      "no price",
			text:      "selling a phone, dm for details",
			wantFound: false,
		},
		{
			name:         "grouped thousands",
			text:         "$1,234.56 firm",
			wantValue:    1234.56,
			wantCurrency: "$",
			wantFound:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, found := e.Extract(tt.text)
			require.Equal(t, tt.wantFound, found)
			if found {
				assert.InDelta(t, tt.wantValue, price.Value, 0.0001)
				assert.Equal(t, tt.wantCurrency, price.Currency)
			}
		})
	}
}

func TestPriceExtractor_FirstPatternWins(t *testing.T) {
	text := "listed at $250"

	forward := NewPriceExtractor([]model.PricePattern{
		{Pattern: `\$\s*{price}`, Description: "dollar"},
		{Pattern: `at \$\s*{price}`, Description: "labelled dollar"},
	}, "")

	price, found := forward.Extract(text)
	require.True(t, found)
	assert.InDelta(t, 250.0, price.Value, 0.0001)
	assert.Equal(t, "$", price.Currency)

	// Reversing the order changes which pattern supplies the result. Both
	// capture the same number here, so distinguish by min_value: the first
	// listed pattern disqualifies itself and the second must win.
	gated := NewPriceExtractor([]model.PricePattern{
		{Pattern: `\$\s*{price}`, MinValue: 1000, Description: "big ticket"},
		{Pattern: `\$\s*{price}`, Description: "any dollar"},
	}, "")

	price, found = gated.Extract(text)
	require.True(t, found)
	assert.InDelta(t, 250.0, price.Value, 0.0001)

	// With only the gated pattern, the same text yields no price.
	gatedOnly := NewPriceExtractor([]model.PricePattern{
		{Pattern: `\$\s*{price}`, MinValue: 1000, Description: "big ticket"},
	}, "")

	_, found = gatedOnly.Extract(text)
	assert.False(t, found)
}

func TestPriceExtractor_InvalidPatternSkipped(t *testing.T) {
	e := NewPriceExtractor([]model.PricePattern{
		{Pattern: `[invalid({price}`, Description: "broken"},
		{Pattern: `\$\s*{price}`, Description: "dollar"},
	}, "")

	price, found := e.Extract("yours for $99")
	require.True(t, found)
	assert.InDelta(t, 99.0, price.Value, 0.0001)
}

func TestPriceExtractor_NoPatterns(t *testing.T) {
	e := NewPriceExtractor(nil, "")

	_, found := e.Extract("$250")
	assert.False(t, found)
}

func TestPriceExtractor_CustomNumberRegex(t *testing.T) {
	// Digits only, no separators.
	e := NewPriceExtractor([]model.PricePattern{
		{Pattern: `\$\s*{price}`, Description: "dollar"},
	}, `(\d+)`)

	price, found := e.Extract("$12345 or best offer")
	require.True(t, found)
	assert.InDelta(t, 12345.0, price.Value, 0.0001)
}
