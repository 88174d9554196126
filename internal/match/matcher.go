package match

import (
	"log/slog"
	"strings"

	"prowl/internal/model"
)

// ProductMatcher evaluates messages against the configured product
// catalog. Construct once per configuration; Match is safe for
// concurrent use.
type ProductMatcher struct {
	keywords *KeywordMatcher
	prices   *PriceExtractor
	products []model.Product
	settings model.MatchingSettings
}

// NewProductMatcher creates a matcher for the given catalog. All keywords
// across all products are pre-compiled up front.
func NewProductMatcher(products []model.Product, settings model.MatchingSettings, prices *PriceExtractor) *ProductMatcher {
	var keywords []string
	for _, p := range products {
		keywords = append(keywords, p.Keywords...)
		keywords = append(keywords, p.ExcludeKeywords...)
	}

	return &ProductMatcher{
		products: products,
		settings: settings,
		keywords: NewKeywordMatcher(settings, keywords),
		prices:   prices,
	}
}

// Match evaluates a message against every product in catalog order and
// returns one result per qualifying product. An empty message matches
// nothing.
func (m *ProductMatcher) Match(messageText string) []model.MatchResult {
	if messageText == "" {
		return nil
	}

	// Normalize once; every product compares against the same folded text.
	normalized := Normalize(messageText)
	if !m.settings.CaseSensitive {
		normalized = strings.ToLower(normalized)
	}

	// Price extraction runs on the raw text and depends only on the
	// message, so it is computed at most once and shared across products.
	var price Price
	priceFound := false
	priceExtracted := false
	extractPrice := func() (Price, bool) {
		if !priceExtracted {
			price, priceFound = m.prices.Extract(messageText)
			priceExtracted = true
		}
		return price, priceFound
	}

	var results []model.MatchResult

	for _, product := range m.products {
		result, ok := m.matchProduct(normalized, product, extractPrice)
		if ok {
			results = append(results, result)
		}
	}

	return results
}

// matchProduct evaluates a single product against already-normalized
// text. extractPrice defers the raw-text price scan until a product
// actually declares a price range.
func (m *ProductMatcher) matchProduct(normalized string, product model.Product, extractPrice func() (Price, bool)) (model.MatchResult, bool) {
	var matchedKeywords []string
	for _, keyword := range product.Keywords {
		if m.keywords.Matches(normalized, keyword) {
			matchedKeywords = append(matchedKeywords, keyword)
		}
	}

	if len(matchedKeywords) == 0 {
		return model.MatchResult{}, false
	}

	for _, exclude := range product.ExcludeKeywords {
		if m.keywords.Matches(normalized, exclude) {
			slog.Debug("Message excluded by keyword",
				"product", product.Name,
				"keyword", exclude)
			return model.MatchResult{}, false
		}
	}

	result := model.MatchResult{
		ProductName:     product.Name,
		MatchedKeywords: matchedKeywords,
		Notify:          product.Notify,
	}

	if product.PriceRange != nil {
		price, found := extractPrice()
		if !found {
			slog.Debug("Product requires a price but none was found", "product", product.Name)
			return model.MatchResult{}, false
		}
		if !product.PriceRange.Contains(price.Value) {
			slog.Debug("Price outside product range",
				"product", product.Name,
				"price", price.Value,
				"min", product.PriceRange.Min,
				"max", product.PriceRange.Max)
			return model.MatchResult{}, false
		}

		value := price.Value
		result.Price = &value
		result.Currency = price.Currency
	}

	return result, true
}
