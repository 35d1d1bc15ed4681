package cli

import "strings"

// Excerpt shortens content to at most wordLimit words, appending an
// ellipsis when something was cut. Whitespace runs collapse to single
// spaces in the shortened form.
func Excerpt(content string, wordLimit int) string {
	if wordLimit <= 0 {
		return ""
	}
	fields := strings.Fields(content)
	if len(fields) <= wordLimit {
		return content
	}
	return strings.Join(fields[:wordLimit], " ") + "..."
}
