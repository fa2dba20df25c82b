// Package provider builds chat models for the supported model vendors.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
)

type Kind string

const (
	KindGemini Kind = "gemini"
	KindOpenAI Kind = "openai"
)

var ErrMissingAPIKey = errors.New("missing API key")

func ParseKind(s string) (Kind, error) {
	switch kind := Kind(strings.ToLower(strings.TrimSpace(s))); kind {
	case "":
		return KindGemini, nil
	case KindGemini, KindOpenAI:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown provider: %q", s)
	}
}

// Config describes a provider without its credential.
type Config struct {
	Kind         Kind
	Model        string
	BaseURL      string
	Temperature  *float32
	Timeout      time.Duration
	JSONResponse bool
}

func (c Config) DefaultModel() string {
	if c.Model != "" {
		return c.Model
	}
	if c.Kind == KindOpenAI {
		return DefaultOpenAIModel
	}
	return DefaultGeminiModel
}

// Factory creates a chat model once the credential is known.
type Factory func(ctx context.Context, apiKey string) (model.ToolCallingChatModel, error)

func NewFactory(conf Config) (Factory, error) {
	switch conf.Kind {
	case KindGemini, "":
		return func(ctx context.Context, apiKey string) (model.ToolCallingChatModel, error) {
			return NewGeminiChatModel(ctx, &GeminiConfig{
				APIKey:       apiKey,
				Model:        conf.Model,
				Temperature:  conf.Temperature,
				JSONResponse: conf.JSONResponse,
			})
		}, nil
	case KindOpenAI:
		return func(ctx context.Context, apiKey string) (model.ToolCallingChatModel, error) {
			return NewOpenAIChatModel(ctx, &OpenAIConfig{
				APIKey:      apiKey,
				BaseURL:     conf.BaseURL,
				Model:       conf.Model,
				Temperature: conf.Temperature,
				Timeout:     conf.Timeout,
			})
		}, nil
	default:
		return nil, fmt.Errorf("unknown provider: %q", conf.Kind)
	}
}
