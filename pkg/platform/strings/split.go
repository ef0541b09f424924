// Package strings provides string manipulation utilities.
package strings

import (
	"strings"
)

// SplitAndTrim splits s on sep, trims whitespace from each piece and drops
// empty pieces. Order is preserved and duplicates are kept.
//
// Example:
//
//	SplitAndTrim(" go, ,react ,go", ",")
//	// Returns: []string{"go", "react", "go"}
func SplitAndTrim(s, sep string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
