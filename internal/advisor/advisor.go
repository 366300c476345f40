package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/edgard/careeradvisor/internal/gemini"
)

// InvalidJSONMessage is the error text returned when model output is not JSON.
const InvalidJSONMessage = "Model returned invalid JSON"

// InvalidJSONError reports model output that still failed to parse after cleaning.
type InvalidJSONError struct {
	Raw string
	Err error
}

func (e *InvalidJSONError) Error() string {
	return InvalidJSONMessage
}

func (e *InvalidJSONError) Unwrap() error {
	return e.Err
}

// ErrorBody converts an Advise or Reply failure into the response mapping
// {error, raw?}. raw is only set for invalid JSON.
func ErrorBody(err error) map[string]any {
	var invalid *InvalidJSONError
	if errors.As(err, &invalid) {
		return map[string]any{"error": InvalidJSONMessage, "raw": invalid.Raw}
	}
	return map[string]any{"error": err.Error()}
}

// Advisor generates career advice for a profile with a single completion call.
type Advisor struct {
	client gemini.Client
	log    *slog.Logger
}

// NewAdvisor creates an Advisor backed by the given completion client.
func NewAdvisor(client gemini.Client, log *slog.Logger) *Advisor {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Advisor{
		client: client,
		log:    log.With("component", "advisor"),
	}
}

// BuildAdvicePrompt renders the instruction block followed by the profile as JSON.
func BuildAdvicePrompt(profile UserProfile) (string, error) {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("failed to serialize profile: %w", err)
	}
	return AdvicePrompt + "\nUser profile: " + string(profileJSON), nil
}

// Advise asks the model for advice and returns its JSON unchanged. Output that
// does not parse yields *InvalidJSONError; completion failures yield *gemini.Error.
func (a *Advisor) Advise(ctx context.Context, profile UserProfile) (json.RawMessage, error) {
	prompt, err := BuildAdvicePrompt(profile)
	if err != nil {
		a.log.ErrorContext(ctx, "General error", "error", err)
		return nil, err
	}

	text, err := a.client.Generate(ctx, prompt)
	if err != nil {
		a.log.ErrorContext(ctx, "General error", "error", err)
		return nil, err
	}

	content := CleanJSONResponse(text)

	var advice json.RawMessage
	if err := json.Unmarshal([]byte(content), &advice); err != nil {
		a.log.ErrorContext(ctx, "JSON parsing error", "error", err, "content", content)
		return nil, &InvalidJSONError{Raw: content, Err: err}
	}

	a.logSummary(ctx, advice)
	return advice, nil
}

func (a *Advisor) logSummary(ctx context.Context, advice json.RawMessage) {
	if !a.log.Enabled(ctx, slog.LevelDebug) {
		return
	}
	var payload AdvicePayload
	if err := json.Unmarshal(advice, &payload); err != nil {
		a.log.DebugContext(ctx, "Advice does not match the expected shape", "error", err)
		return
	}
	a.log.DebugContext(ctx, "Advice generated",
		"career_paths", len(payload.CareerPaths),
		"next_skills", len(payload.NextSkills),
		"resources", len(payload.Resources))
}
