package gemini

import (
	"context"
	"fmt"

	"example.com/tripplanner/plugins"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client handles Gemini API requests using the official SDK
type Client struct {
	Model  string
	client *genai.Client
}

// Ensure Client satisfies LLMClient
var _ plugins.LLMClient = (*Client)(nil)

// NewClient creates a new Gemini API client
// Returns an error if the client cannot be initialized
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		Model:  model,
		client: client,
	}, nil
}

// GenerateContent sends a prompt to Gemini and returns the response
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("client not initialized")
	}

	model := c.client.GenerativeModel(c.Model)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	if resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no content in candidate")
	}

	var result string
	for _, part := range resp.Candidates[0].Content.Parts {
		result += fmt.Sprintf("%v", part)
	}

	return result, nil
}

// Close closes the Gemini client
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
