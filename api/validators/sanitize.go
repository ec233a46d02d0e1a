package validators

import "strings"

// SanitizeString trims surrounding whitespace. Length limits are enforced
// by validate tags.
func SanitizeString(input string) string {
	return strings.TrimSpace(input)
}

// SanitizeList trims every entry and drops the blank ones.
func SanitizeList(input []string) []string {
	out := make([]string, 0, len(input))
	for _, item := range input {
		if cleaned := SanitizeString(item); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
