package llm

import (
	"context"
	"fmt"
)

// Client is an abstraction over LLM providers. The credential is bound when the client is built.
type Client interface {
	// GenerateContent generates text content using the specified model tier
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateJSON generates JSON content using the specified model tier
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// ProviderError wraps a failure reported by (or while talking to) an LLM provider
type ProviderError struct {
	Provider   Provider
	StatusCode int // HTTP status when known, 0 otherwise
	Message    string
	Cause      error
}

func (e *ProviderError) Error() string {
	prefix := fmt.Sprintf("%s error", e.Provider)
	if e.StatusCode != 0 {
		prefix = fmt.Sprintf("%s error (status %d)", e.Provider, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	// Each branch returns through an explicit nil check so a failed
	// constructor never yields a non-nil interface holding a nil pointer.
	switch config.Provider {
	case ProviderAnthropic:
		c, err := NewAnthropicClient(config, apiKey)
		if err != nil {
			return nil, err
		}
		return c, nil
	case ProviderOpenRouter:
		c, err := NewOpenRouterClient(config, apiKey, nil)
		if err != nil {
			return nil, err
		}
		return c, nil
	case ProviderGemini, "":
		c, err := NewGeminiClient(ctx, config, apiKey)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}
