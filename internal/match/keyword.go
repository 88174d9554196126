package match

import (
	"log/slog"
	"regexp"
	"strings"

	"prowl/internal/common"
	"prowl/internal/model"
)

// compiledKeyword holds the evaluation strategy for one keyword. When re
// is non-nil the keyword is evaluated as a regular expression; otherwise
// literal is checked with plain substring containment.
type compiledKeyword struct {
	re      *regexp.Regexp
	literal string
}

// KeywordMatcher decides whether keywords occur in normalized message
// text, honoring the configured case, whole-word, and pattern-matching
// behavior. Keywords known at construction are pre-compiled; unknown
// keywords are evaluated ad hoc without mutating the cache, keeping the
// matcher safe for concurrent use.
type KeywordMatcher struct {
	compiled map[string]compiledKeyword
	settings model.MatchingSettings
}

// NewKeywordMatcher creates a matcher pre-compiled for the given keywords.
func NewKeywordMatcher(settings model.MatchingSettings, keywords []string) *KeywordMatcher {
	m := &KeywordMatcher{
		settings: settings,
		compiled: make(map[string]compiledKeyword, len(keywords)),
	}

	for _, kw := range keywords {
		normalized := m.normalizeKeyword(kw)
		if _, ok := m.compiled[normalized]; !ok {
			m.compiled[normalized] = m.compile(normalized)
		}
	}

	return m
}

// Matches reports whether keyword occurs in text. The text must already
// be normalized (and case-folded per settings); the keyword is normalized
// here so callers can pass it in its configured form.
func (m *KeywordMatcher) Matches(text, keyword string) bool {
	normalized := m.normalizeKeyword(keyword)

	ck, ok := m.compiled[normalized]
	if !ok {
		return m.matchAdHoc(text, normalized)
	}

	if ck.re != nil {
		return ck.re.MatchString(text)
	}
	return strings.Contains(text, ck.literal)
}

// normalizeKeyword applies the same alphabet and case normalization the
// message text receives, so both sides compare in canonical form.
func (m *KeywordMatcher) normalizeKeyword(keyword string) string {
	normalized := Normalize(keyword)
	if !m.settings.CaseSensitive {
		normalized = strings.ToLower(normalized)
	}
	return normalized
}

// compile resolves a keyword into its evaluation strategy. A malformed
// regex pattern degrades to literal matching rather than failing.
func (m *KeywordMatcher) compile(keyword string) compiledKeyword {
	if m.settings.PatternMatching {
		pattern := keyword
		if m.settings.WholeWord {
			pattern = `\b` + pattern + `\b`
		}
		if re, err := regexp.Compile(pattern); err == nil {
			return compiledKeyword{re: re}
		}
		slog.Warn("Invalid keyword pattern, falling back to literal matching", "keyword", keyword)
	}

	if m.settings.WholeWord {
		// QuoteMeta guarantees this compiles.
		return compiledKeyword{re: regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`)}
	}
	return compiledKeyword{literal: keyword}
}

// matchAdHoc evaluates a keyword that was not seen at construction.
func (m *KeywordMatcher) matchAdHoc(text, keyword string) bool {
	if m.settings.PatternMatching {
		pattern := keyword
		if m.settings.WholeWord {
			pattern = `\b` + pattern + `\b`
		}
		if matched, err := common.MatchRegex(pattern, text); err == nil {
			return matched
		}
		slog.Warn("Invalid keyword pattern, falling back to literal matching", "keyword", keyword)
	}

	if m.settings.WholeWord {
		return regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`).MatchString(text)
	}
	return strings.Contains(text, keyword)
}
