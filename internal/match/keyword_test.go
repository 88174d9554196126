package match

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"prowl/internal/model"
)

func TestKeywordMatcher_Matches(t *testing.T) {
	tests := []struct {
		name     string
		settings model.MatchingSettings
		text     string
		keyword  string
		want     bool
	}{
		{
			name:     "plain substring",
			settings: model.MatchingSettings{PatternMatching: true},
			text:     "selling a phone today",
			keyword:  "phone",
			want:     true,
		},
		{
			name:     "substring inside word without whole_word",
			settings: model.MatchingSettings{PatternMatching: true},
			text:     "new smartphones in stock",
			keyword:  "phone",
			want:     true,
		},
		{
			name:     "whole word rejects substring inside word",
			settings: model.MatchingSettings{PatternMatching: true, WholeWord: true},
			text:     "new smartphones in stock",
			keyword:  "phone",
			want:     false,
		},
		{
			name:     "whole word matches delimited word",
			settings: model.MatchingSettings{PatternMatching: true, WholeWord: true},
			text:     "selling a phone, barely used",
			keyword:  "phone",
			want:     true,
		},
		{
			name:     "regex alternation keyword",
			settings: model.MatchingSettings{PatternMatching: true},
			text:     "brand new macbook air",
			keyword:  "macbook (air|pro)",
			want:     true,
		},
		{
			name:     "regex keyword no match",
			settings: model.MatchingSettings{PatternMatching: true},
			text:     "brand new macbook mini",
			keyword:  "macbook (air|pro)",
			want:     false,
		},
		{
			name:     "malformed pattern falls back to literal",
			settings: model.MatchingSettings{PatternMatching: true},
			text:     "price is c++ related",
			keyword:  "c++",
			want:     true,
		},
		{
			name:     "malformed pattern literal no match",
			settings: model.MatchingSettings{PatternMatching: true},
			text:     "nothing relevant here",
			keyword:  "c++",
			want:     false,
		},
		{
			name:     "malformed pattern whole word fallback",
			settings: model.MatchingSettings{PatternMatching: true, WholeWord: true},
			text:     "selling pho[ne units",
			keyword:  "pho[ne",
			want:     true,
		},
		{
			name:     "pattern matching disabled treats regex as literal",
			settings: model.MatchingSettings{},
			text:     "brand new macbook air",
			keyword:  "macbook (air|pro)",
			want:     false,
		},
		{
			name:     "cyrillic keyword normalized to match latin text",
			settings: model.MatchingSettings{PatternMatching: true},
			text:     "iphone for sale",
			keyword:  "iрhоnе",
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewKeywordMatcher(tt.settings, []string{tt.keyword})
			assert.Equal(t, tt.want, m.Matches(tt.text, tt.keyword))
		})
	}
}

func TestKeywordMatcher_CaseFolding(t *testing.T) {
	settings := model.MatchingSettings{PatternMatching: true}
	m := NewKeywordMatcher(settings, []string{"PHONE"})

	// Case-insensitive mode folds the keyword; text is folded by the caller.
	assert.True(t, m.Matches("selling a phone", "PHONE"))
	assert.True(t, m.Matches(strings.ToLower("SELLING A PHONE"), "phone"))
}

func TestKeywordMatcher_CaseSensitive(t *testing.T) {
	settings := model.MatchingSettings{PatternMatching: true, CaseSensitive: true}
	m := NewKeywordMatcher(settings, []string{"Phone"})

	assert.True(t, m.Matches("new Phone here", "Phone"))
	assert.False(t, m.Matches("new phone here", "Phone"))
}

func TestKeywordMatcher_AdHocKeyword(t *testing.T) {
	// Keywords unseen at construction still match, without cache mutation.
	m := NewKeywordMatcher(model.MatchingSettings{PatternMatching: true}, nil)

	assert.True(t, m.Matches("selling a phone", "phone"))
	assert.True(t, m.Matches("we use c++ daily", "c++"))
	assert.False(t, m.Matches("nothing here", "phone"))
}
