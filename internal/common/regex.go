package common

import "regexp"

// MatchRegex compiles pattern and reports whether it matches text. Meant
// for one-off patterns that are not worth caching; callers with a fixed
// pattern set should compile once instead. The error is non-nil only for
// patterns that fail to compile.
func MatchRegex(pattern, text string) (bool, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(text), nil
}
