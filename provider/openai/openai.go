// Package openai implements provider.Provider over the OpenAI chat
// completion API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/smallnest/dagflow/provider"
)

var (
	// ErrNotSetAuth is returned when no API key is configured.
	ErrNotSetAuth = errors.New("openai api key not set")

	// ErrEmptyResponse is returned when the API answers without choices.
	ErrEmptyResponse = errors.New("no response")
)

// Client is an OpenAI-backed computation provider.
type Client struct {
	client *openai.Client
	model  string
}

var _ provider.Provider = (*Client)(nil)

type options struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// Option configures the client.
type Option func(*options)

// WithAPIKey sets the API key. OPENAI_API_KEY is used otherwise.
func WithAPIKey(key string) Option {
	return func(o *options) { o.apiKey = key }
}

// WithModel sets the chat model, default gpt-4o-mini.
func WithModel(model string) Option {
	return func(o *options) { o.model = model }
}

// WithBaseURL points the client at a compatible endpoint, e.g. a proxy or
// a test server.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// New creates an OpenAI provider.
//
// Authentication options:
//  1. WithAPIKey(apiKey) - pass the key directly
//  2. Set the OPENAI_API_KEY environment variable
func New(opts ...Option) (*Client, error) {
	o := &options{
		apiKey: os.Getenv("OPENAI_API_KEY"),
		model:  openai.GPT4oMini,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.apiKey == "" {
		return nil, fmt.Errorf(`%w
You can pass the key with openai.New(openai.WithAPIKey("{API Key}"))
or
export OPENAI_API_KEY={API Key}`, ErrNotSetAuth)
	}

	cfg := openai.DefaultConfig(o.apiKey)
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}
	if o.httpClient != nil {
		cfg.HTTPClient = o.httpClient
	}

	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  o.model,
	}, nil
}

// Generate sends the prompt as a single user message and returns the
// model's reply.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
