// Package geminitest provides an in-memory gemini.Client for tests.
package geminitest

import (
	"context"
	"sync"

	"github.com/edgard/careeradvisor/internal/gemini"
)

// Client is a scripted gemini.Client that records every call.
type Client struct {
	ModelName string

	// Text is returned when the matching func is nil.
	Text string
	// Err is returned when the matching func is nil.
	Err error

	GenerateFunc func(ctx context.Context, prompt string) (string, error)
	CompleteFunc func(ctx context.Context, turns []gemini.Turn) (string, error)

	mu      sync.Mutex
	prompts []string
	convs   [][]gemini.Turn
}

var _ gemini.Client = (*Client)(nil)

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	c.prompts = append(c.prompts, prompt)
	c.mu.Unlock()

	if c.GenerateFunc != nil {
		return c.GenerateFunc(ctx, prompt)
	}
	return c.Text, c.Err
}

func (c *Client) Complete(ctx context.Context, turns []gemini.Turn) (string, error) {
	c.mu.Lock()
	c.convs = append(c.convs, append([]gemini.Turn(nil), turns...))
	c.mu.Unlock()

	if c.CompleteFunc != nil {
		return c.CompleteFunc(ctx, turns)
	}
	return c.Text, c.Err
}

func (c *Client) Model() string {
	return c.ModelName
}

// Prompts returns the prompts passed to Generate, in call order.
func (c *Client) Prompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.prompts...)
}

// Conversations returns the turn lists passed to Complete, in call order.
func (c *Client) Conversations() [][]gemini.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]gemini.Turn(nil), c.convs...)
}
