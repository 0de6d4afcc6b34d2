// Package llm wraps an OpenAI-compatible chat completion API used to rewrite
// fuzzy-match answers into a more conversational tone. Pointing BaseURL at a
// local ollama server works.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultModel is the small local model the original deployment uses
	DefaultModel = "tinyllama"

	maxCompletionTokens = 256
)

var (
	// ErrEmptyAnswer is returned when there is no answer text to refine
	ErrEmptyAnswer = errors.New("answer cannot be empty")
)

const systemPrompt = "You are an employee induction assistant. Rewrite the " +
	"provided answer so it directly addresses the employee's question. Keep " +
	"every fact from the answer, add nothing new, and stay under three sentences."

// CompletionAPI defines the interface for chat completion
type CompletionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config holds client configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Client rewrites answers through a chat completion model.
type Client struct {
	api   CompletionAPI
	model string
}

// NewClient creates a refinement client. BaseURL may point at any
// OpenAI-compatible endpoint.
func NewClient(cfg Config) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Client{
		api:   openai.NewClientWithConfig(clientCfg),
		model: model,
	}
}

// NewClientWithAPI creates a client with a custom completion API (for testing)
func NewClientWithAPI(api CompletionAPI, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{api: api, model: model}
}

// Refine rewrites an answer in the context of the question asked. The caller
// falls back to the original answer on any error.
func (c *Client) Refine(ctx context.Context, question, answer string) (string, error) {
	if strings.TrimSpace(answer) == "" {
		return "", ErrEmptyAnswer
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: maxCompletionTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Question: " + question + "\n\nAnswer: " + answer},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
