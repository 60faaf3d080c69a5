// Package ai wraps the OpenAI chat completion API behind the service layer's
// Completer interface.
package ai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const systemPrompt = "You are a friendly Discord community assistant. " +
	"Keep answers concise; Discord messages cap out at 2000 characters."

// Client calls the OpenAI chat completion endpoint
type Client struct {
	client openai.Client
	model  openai.ChatModel
}

// NewClient creates an OpenAI-backed completer
func NewClient(apiKey string) *Client {
	return &Client{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.ChatModelGPT3_5Turbo,
	}
}

// Complete sends the prompt and returns the model's reply
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Model:       c.model,
		MaxTokens:   openai.Int(1000),
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
