package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultOpenAIModel = openai.GPT4oMini
)

// ErrMissingAPIKey is returned when a translation is needed but no API key
// is configured for the provider.
var ErrMissingAPIKey = errors.New("API key not configured")

// Backend sends a single prompt to a hosted model and returns its reply
type Backend interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// NewBackend creates the backend for provider. An empty model selects the
// provider default; baseURL only applies to OpenAI-compatible endpoints.
func NewBackend(provider, apiKey, model, baseURL string) (Backend, error) {
	switch strings.ToLower(provider) {
	case "", ProviderGemini:
		return NewGeminiBackend(apiKey, model), nil
	case ProviderOpenAI:
		return NewOpenAIBackendWithBaseURL(apiKey, model, baseURL), nil
	default:
		return nil, fmt.Errorf("unknown translation provider %q (use %s or %s)", provider, ProviderGemini, ProviderOpenAI)
	}
}

// GeminiBackend talks to the Gemini API. The client is created on first use
// so a run without changes never needs a key.
type GeminiBackend struct {
	apiKey string
	model  string
	client *genai.Client
}

// NewGeminiBackend creates a Gemini backend
func NewGeminiBackend(apiKey, model string) *GeminiBackend {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiBackend{apiKey: apiKey, model: model}
}

func (b *GeminiBackend) Name() string {
	return ProviderGemini
}

func (b *GeminiBackend) Complete(ctx context.Context, prompt string) (string, error) {
	if b.apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY: %w", ErrMissingAPIKey)
	}

	if b.client == nil {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  b.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return "", fmt.Errorf("failed to create Gemini client: %w", err)
		}
		b.client = client
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.2),
	})
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	return resp.Text(), nil
}

// OpenAIBackend talks to the OpenAI chat completion API
type OpenAIBackend struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewOpenAIBackend creates an OpenAI backend
func NewOpenAIBackend(apiKey, model string) *OpenAIBackend {
	return NewOpenAIBackendWithBaseURL(apiKey, model, "")
}

// NewOpenAIBackendWithBaseURL creates an OpenAI backend talking to an
// OpenAI-compatible endpoint. An empty baseURL keeps the official API.
func NewOpenAIBackendWithBaseURL(apiKey, model, baseURL string) *OpenAIBackend {
	if model == "" {
		model = DefaultOpenAIModel
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIBackend{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClientWithConfig(cfg),
	}
}

func (b *OpenAIBackend) Name() string {
	return ProviderOpenAI
}

func (b *OpenAIBackend) Complete(ctx context.Context, prompt string) (string, error) {
	if b.apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY: %w", ErrMissingAPIKey)
	}

	req := openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.2,
	}

	resp, err := b.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
