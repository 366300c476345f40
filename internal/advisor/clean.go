package advisor

import "strings"

const (
	jsonFence = "```json"
	fence     = "```"
)

// CleanJSONResponse trims model output and removes a surrounding markdown
// code fence. A "```json" or bare "```" opening is removed when present at the
// start, and a closing "```" is removed only when present at the end. Anything
// else passes through trimmed.
func CleanJSONResponse(text string) string {
	content := strings.TrimSpace(text)

	var opening string
	switch {
	case strings.HasPrefix(content, jsonFence):
		opening = jsonFence
	case strings.HasPrefix(content, fence):
		opening = fence
	default:
		return content
	}

	content = strings.TrimPrefix(content, opening)
	content = strings.TrimSuffix(content, fence)
	return strings.TrimSpace(content)
}
