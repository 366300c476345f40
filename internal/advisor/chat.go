package advisor

import (
	"context"
	"io"
	"log/slog"

	"github.com/edgard/careeradvisor/internal/gemini"
)

// Relay forwards follow-up chat messages with their history to the model.
type Relay struct {
	client gemini.Client
	log    *slog.Logger
}

// NewRelay creates a Relay backed by the given completion client.
func NewRelay(client gemini.Client, log *slog.Logger) *Relay {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Relay{
		client: client,
		log:    log.With("component", "chat_relay"),
	}
}

// BuildConversation converts caller history into model turns. An empty history
// becomes the persona seed: a user turn with ChatPersonaPrompt and a model turn
// with ChatPersonaAck.
func BuildConversation(history []ChatTurn) []gemini.Turn {
	if len(history) == 0 {
		return []gemini.Turn{
			gemini.NewTurn(gemini.RoleUser, ChatPersonaPrompt),
			gemini.NewTurn(gemini.RoleModel, ChatPersonaAck),
		}
	}

	turns := make([]gemini.Turn, 0, len(history)+1)
	for _, msg := range history {
		turns = append(turns, gemini.Turn{Role: msg.Role, Parts: msg.Parts})
	}
	return turns
}

// Reply sends message as the next user turn after history and returns the
// model's reply text.
func (r *Relay) Reply(ctx context.Context, history []ChatTurn, message string) (string, error) {
	turns := append(BuildConversation(history), gemini.NewTurn(gemini.RoleUser, message))

	reply, err := r.client.Complete(ctx, turns)
	if err != nil {
		r.log.ErrorContext(ctx, "Chat error", "error", err, "history_turns", len(history))
		return "", err
	}
	return reply, nil
}
