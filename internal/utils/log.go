package utils

import "strings"

// TruncateForLog flattens s onto one line and shortens it to limit runes for log
// previews, appending an ellipsis when cut. Candidate answers often span several lines.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
