package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"codeberg.org/snonux/cmdref/internal/translation"
)

// Lister handles listing the text models of a translation provider
type Lister struct {
	provider string
	apiKey   string
	baseURL  string
}

// NewLister creates a new model lister. baseURL only applies to
// OpenAI-compatible endpoints.
func NewLister(provider, apiKey, baseURL string) *Lister {
	provider = strings.ToLower(provider)
	if provider == "" {
		provider = translation.ProviderGemini
	}
	return &Lister{
		provider: provider,
		apiKey:   apiKey,
		baseURL:  baseURL,
	}
}

// ListAvailableModels writes the models usable for translation to w
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	var (
		names        []string
		defaultModel string
		err          error
	)

	switch l.provider {
	case translation.ProviderGemini:
		if l.apiKey == "" {
			return fmt.Errorf("Gemini API key not found. Set GEMINI_API_KEY or configure translation.gemini_key in .cmdref.yaml: %w", translation.ErrMissingAPIKey)
		}
		names, err = l.geminiModels(ctx)
		defaultModel = translation.DefaultGeminiModel
	case translation.ProviderOpenAI:
		if l.apiKey == "" {
			return fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY or configure translation.openai_key in .cmdref.yaml: %w", translation.ErrMissingAPIKey)
		}
		names, err = l.openAIModels(ctx)
		defaultModel = translation.DefaultOpenAIModel
	default:
		return fmt.Errorf("unknown translation provider %q", l.provider)
	}
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	printModels(w, l.provider, names, defaultModel)
	return nil
}

func (l *Lister) geminiModels(ctx context.Context) ([]string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  l.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	var names []string
	for model, err := range client.Models.All(ctx) {
		if err != nil {
			return nil, err
		}
		if !supports(model.SupportedActions, "generateContent") {
			continue
		}
		names = append(names, strings.TrimPrefix(model.Name, "models/"))
	}
	return names, nil
}

func (l *Lister) openAIModels(ctx context.Context) ([]string, error) {
	cfg := openai.DefaultConfig(l.apiKey)
	if l.baseURL != "" {
		cfg.BaseURL = l.baseURL
	}

	list, err := openai.NewClientWithConfig(cfg).ListModels(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(list.Models))
	for _, model := range list.Models {
		ids = append(ids, model.ID)
	}
	return ChatModels(ids), nil
}

// ChatModels keeps the OpenAI models that can translate text, dropping
// speech, image, embedding and moderation models.
func ChatModels(ids []string) []string {
	var chat []string
	for _, id := range ids {
		if !strings.Contains(id, "gpt") && !strings.Contains(id, "chat") {
			continue
		}
		if strings.Contains(id, "tts") || strings.Contains(id, "audio") ||
			strings.Contains(id, "transcribe") || strings.Contains(id, "image") ||
			strings.Contains(id, "realtime") {
			continue
		}
		chat = append(chat, id)
	}
	return chat
}

func supports(actions []string, action string) bool {
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}

func printModels(w io.Writer, provider string, names []string, defaultModel string) {
	sort.Strings(names)

	fmt.Fprintf(w, "Available %s models for translation:\n", provider)
	if len(names) == 0 {
		fmt.Fprintln(w, "  No text models found")
		return
	}
	for _, name := range names {
		if name == defaultModel {
			fmt.Fprintf(w, "  %s (default)\n", name)
			continue
		}
		fmt.Fprintf(w, "  %s\n", name)
	}
}
