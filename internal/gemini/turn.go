package gemini

import "google.golang.org/genai"

// Conversation roles understood by the Gemini API.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is one message of a conversation: who produced it and its text segments.
type Turn struct {
	Role  string
	Parts []string
}

// NewTurn builds a turn from a role and its text parts.
func NewTurn(role string, parts ...string) Turn {
	return Turn{Role: role, Parts: parts}
}

// toContents converts turns to SDK contents, preserving order, role and parts.
func toContents(turns []Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		parts := make([]*genai.Part, 0, len(t.Parts))
		for _, p := range t.Parts {
			parts = append(parts, genai.NewPartFromText(p))
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.Role(t.Role)))
	}
	return contents
}
