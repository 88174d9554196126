// Package match implements the message matching engine: text
// normalization, keyword matching, price extraction, and the product
// matcher that ties them together. Everything here is a pure computation
// over its inputs plus read-only settings, so a matcher may be shared
// across goroutines freely.
package match

import "strings"

// cyrillicToLatin maps Cyrillic characters that are visually identical to
// Latin ones. Sellers obfuscate listings this way to dodge keyword
// filters (e.g. "iРhоnе" for "iphone"), so both message text and
// keywords are normalized before comparison.
var cyrillicToLatin = map[rune]rune{
	// Uppercase
	'А': 'A', 'В': 'B', 'Е': 'E', 'К': 'K', 'М': 'M',
	'Н': 'H', 'О': 'O', 'Р': 'P', 'С': 'C', 'Т': 'T',
	'Х': 'X', 'У': 'Y', 'І': 'I',
	// Lowercase
	'а': 'a', 'е': 'e', 'о': 'o', 'р': 'p', 'с': 'c',
	'у': 'y', 'х': 'x', 'і': 'i',
}

// Normalize replaces Cyrillic look-alike characters with their Latin
// counterparts. All other runes pass through unchanged. Idempotent.
func Normalize(text string) string {
	return strings.Map(func(r rune) rune {
		if latin, ok := cyrillicToLatin[r]; ok {
			return latin
		}
		return r
	}, text)
}
