// Package llm wraps the chat-completion backends used for overview
// generation and buddy chat.
package llm

import (
	"context"
	"errors"
	"time"

	openai_client "github.com/buddyapp/buddyd/internal/llm/openai"
)

// Client is the minimal completion surface the rest of the service needs.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type Provider string

const (
	OpenAI    Provider = "openai"
	Anthropic Provider = "anthropic"
)

// New creates a completion client for the configured provider.
func New(provider Provider, apiKey, model string, temperature float64, maxTokens int, timeout time.Duration) (Client, error) {
	switch provider {
	case OpenAI:
		if apiKey == "" {
			return nil, errors.New("openai api key not set")
		}
		return openai_client.New(apiKey, model, temperature, maxTokens, timeout), nil
	case Anthropic:
		return nil, errors.New("anthropic client not implemented yet")
	default:
		return nil, errors.New("unsupported LLM provider")
	}
}
