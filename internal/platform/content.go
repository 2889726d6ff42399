package platform

import "unicode/utf8"

const ellipsis = "..."

// PrepareContent truncates content to the platform's character limit,
// ending with an ellipsis marker. Counting is rune-based so multibyte
// text never gets cut mid-character. Idempotent: running it on already
// truncated content returns it unchanged.
func PrepareContent(content string, limit int) string {
	if limit <= 0 {
		return content
	}
	if utf8.RuneCountInString(content) <= limit {
		return content
	}
	if limit <= len(ellipsis) {
		return string([]rune(content)[:limit])
	}
	runes := []rune(content)
	return string(runes[:limit-len(ellipsis)]) + ellipsis
}
