package utils

import "regexp"

var namePattern = regexp.MustCompile(`^[a-z_][a-z0-9_-]*$`)

// IsValidName reports whether s is a well-formed state name: lowercase
// letters, digits, '_' and '-', starting with a letter or underscore.
func IsValidName(s string) bool {
	return namePattern.MatchString(s)
}

// IsOneOf reports whether value matches any of the allowed strings.
func IsOneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
