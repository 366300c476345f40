// Package gemini implements integration with Google's Gemini AI API.
// It exposes the two operations the advisor needs: a single-shot prompt
// completion and a next-turn completion over an explicit conversation.
package gemini

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/edgard/careeradvisor/internal/config"
)

// Client defines the completion capability used throughout the application.
// Every error it returns is an *Error.
type Client interface {
	// Generate completes a single prompt with no conversation history.
	Generate(ctx context.Context, prompt string) (string, error)

	// Complete produces the next model turn given the full conversation.
	Complete(ctx context.Context, turns []Turn) (string, error)

	// Model returns the configured model name.
	Model() string
}

type sdkClient struct {
	genaiClient    *genai.Client
	log            *slog.Logger
	modelName      string
	genConfig      *genai.GenerateContentConfig
	maxRetries     int
	retryDelay     time.Duration
	requestTimeout time.Duration
}

// NewClient creates a new Gemini client with the provided configuration.
// No request is sent until Generate or Complete is called.
func NewClient(ctx context.Context, cfg config.GeminiConfig, log *slog.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	gi, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	var genConfig *genai.GenerateContentConfig
	if cfg.Temperature > 0 {
		temperature := cfg.Temperature
		genConfig = &genai.GenerateContentConfig{Temperature: &temperature}
	}

	logger := log.With("component", "gemini_client")
	logger.Info("Gemini client initialized successfully", "model", cfg.ModelName, "temperature", cfg.Temperature)
	return &sdkClient{
		genaiClient:    gi,
		log:            logger,
		modelName:      cfg.ModelName,
		genConfig:      genConfig,
		maxRetries:     cfg.MaxRetries,
		retryDelay:     cfg.RetryDelay,
		requestTimeout: cfg.RequestTimeout,
	}, nil
}

func (c *sdkClient) Model() string {
	return c.modelName
}

func (c *sdkClient) Generate(ctx context.Context, prompt string) (string, error) {
	c.log.DebugContext(ctx, "Generating content", "prompt_length", len(prompt))
	return c.generate(ctx, "generate", []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)})
}

func (c *sdkClient) Complete(ctx context.Context, turns []Turn) (string, error) {
	c.log.DebugContext(ctx, "Completing conversation", "turn_count", len(turns))
	return c.generate(ctx, "complete", toContents(turns))
}

func (c *sdkClient) generate(ctx context.Context, op string, contents []*genai.Content) (string, error) {
	if c.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}

	resp, err := c.generateContentWithRetries(ctx, contents)
	if err != nil {
		return "", err
	}

	return c.extractTextFromResponse(ctx, op, resp)
}

func (c *sdkClient) generateContentWithRetries(ctx context.Context, contents []*genai.Content) (*genai.GenerateContentResponse, error) {
	for i := 0; ; i++ {
		resp, err := c.genaiClient.Models.GenerateContent(ctx, c.modelName, contents, c.genConfig)
		if err == nil {
			return resp, nil
		}

		gErr := classify(err)
		if !gErr.Retriable() || i >= c.maxRetries {
			c.log.ErrorContext(ctx, "Gemini API call failed", "attempt", i+1, "kind", gErr.Kind, "code", gErr.Code, "error", err)
			return nil, gErr
		}

		c.log.WarnContext(ctx, "Retrying Gemini API call due to retriable error",
			"attempt", i+1, "max_retries", c.maxRetries, "delay", c.retryDelay, "code", gErr.Code)

		select {
		case <-ctx.Done():
			return nil, classify(ctx.Err())
		case <-time.After(c.retryDelay):
		}
	}
}

func (c *sdkClient) extractTextFromResponse(ctx context.Context, op string, resp *genai.GenerateContentResponse) (string, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reasonMsg := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reasonMsg = resp.PromptFeedback.BlockReasonMessage
		}
		c.log.ErrorContext(ctx, "Gemini request blocked", "operation", op, "reason", reasonMsg)
		return "", &Error{Kind: KindBlocked, Detail: fmt.Sprintf("%s blocked by safety filter: %s", op, reasonMsg)}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		finishReason := "unknown"
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != genai.FinishReasonUnspecified {
			finishReason = fmt.Sprintf("%v", resp.Candidates[0].FinishReason)
		}
		c.log.WarnContext(ctx, "Gemini response missing candidates or content", "operation", op, "finish_reason", finishReason)
		return "", &Error{Kind: KindEmpty, Detail: fmt.Sprintf("%s returned no content, finish reason: %s", op, finishReason)}
	}

	return resp.Text(), nil
}
