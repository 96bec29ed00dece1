package openai

import (
	"context"
	"fmt"

	"example.com/tripplanner/plugins"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client handles OpenAI API requests using the official SDK
type Client struct {
	Model  string
	client openai.Client
}

// Ensure Client satisfies LLMClient
var _ plugins.LLMClient = (*Client)(nil)

// NewClient creates a new OpenAI API client
func NewClient(apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	return &Client{
		Model:  model,
		client: openai.NewClient(option.WithAPIKey(apiKey)),
	}, nil
}

// GenerateContent sends a prompt to the chat completions API and returns the
// response text
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}
