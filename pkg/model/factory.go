package model

import (
	"context"
	"fmt"
	"strings"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Settings selects and configures a Client.
type Settings struct {
	Provider    string
	Model       string
	Temperature float32
	OpenAIKey   string
	GeminiKey   string
	BaseURL     string
}

// New returns the client for s.Provider. A missing key is not an error here;
// it surfaces as ErrMissingCredential on the first call.
func New(ctx context.Context, s Settings) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(s.Provider)) {
	case "", ProviderOpenAI:
		return NewOpenAI(s.OpenAIKey, s.BaseURL), nil
	case ProviderGemini:
		return NewGemini(ctx, s.GeminiKey)
	default:
		return nil, fmt.Errorf("model: unknown provider %q", s.Provider)
	}
}
