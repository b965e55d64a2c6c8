package testutil

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/snonux/cmdref/internal/fetch"
)

// MockBackend mocks a translation backend
type MockBackend struct {
	Provider string
	// Reply computes the model reply for a prompt; nil echoes the prompt body
	Reply func(prompt string) string
	Err   error
	Calls []string
}

func (m *MockBackend) Name() string {
	if m.Provider == "" {
		return "mock"
	}
	return m.Provider
}

// Complete mocks a model call
func (m *MockBackend) Complete(ctx context.Context, prompt string) (string, error) {
	m.Calls = append(m.Calls, prompt)

	if m.Err != nil {
		return "", m.Err
	}
	if m.Reply != nil {
		return m.Reply(prompt), nil
	}
	return PromptBody(prompt), nil
}

// PromptBody returns the document part of a translation prompt, i.e.
// everything after the first "---" separator line.
func PromptBody(prompt string) string {
	const sep = "\n---\n\n"
	if _, body, ok := strings.Cut(prompt, sep); ok {
		return body
	}
	return prompt
}

// MockTranslator mocks the document translator
type MockTranslator struct {
	Translations map[string]string
	Err          error
	Calls        []string
}

// Translate mocks translating a document
func (m *MockTranslator) Translate(ctx context.Context, title, markdown string) (string, error) {
	m.Calls = append(m.Calls, fmt.Sprintf("Translate: %s", title))

	if m.Err != nil {
		return "", m.Err
	}
	if translation, ok := m.Translations[markdown]; ok {
		return translation, nil
	}

	// Default mock translation
	return fmt.Sprintf("譯文：\n\n%s", markdown), nil
}

// MockSourceFetcher mocks fetching the upstream sources
type MockSourceFetcher struct {
	Sources []fetch.Source
	Err     error
	Calls   int
}

// FetchAll returns a copy of the configured sources
func (m *MockSourceFetcher) FetchAll(ctx context.Context) ([]fetch.Source, error) {
	m.Calls++

	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]fetch.Source, len(m.Sources))
	copy(out, m.Sources)
	return out, nil
}

// SetRaw replaces the raw content of the source with the given id
func (m *MockSourceFetcher) SetRaw(id, raw string) {
	for i := range m.Sources {
		if m.Sources[i].ID == id {
			m.Sources[i].Raw = raw
		}
	}
}

// DefaultSources returns the two tracked sources with the given content
func DefaultSources(geminiRaw, copilotRaw string) []fetch.Source {
	specs := fetch.DefaultSpecs("", "")
	return []fetch.Source{
		{ID: specs[0].ID, Title: specs[0].Title, URL: specs[0].URL, Raw: geminiRaw},
		{ID: specs[1].ID, Title: specs[1].Title, URL: specs[1].URL, Raw: copilotRaw},
	}
}
