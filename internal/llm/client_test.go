package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_UnknownProvider(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{Provider: "mistral"}, "key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mistral")
}

func TestNewClient_MissingKeyReturnsNilClient(t *testing.T) {
	for _, p := range []Provider{ProviderGemini, ProviderAnthropic, ProviderOpenRouter} {
		t.Run(string(p), func(t *testing.T) {
			client, err := NewClient(context.Background(), ConfigFor(p), "")
			require.Error(t, err)
			assert.Nil(t, client)
		})
	}
}

func TestNewClient_OpenRouter(t *testing.T) {
	client, err := NewClient(context.Background(), DefaultOpenRouterConfig(), "key")
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	_, ok := client.(*OpenRouterClient)
	assert.True(t, ok)
	assert.Equal(t, "shisa-ai/shisa-v2-llama3.3-70b:free", client.GetModel(TierStandard))
}

func TestNewClient_Anthropic(t *testing.T) {
	client, err := NewClient(context.Background(), DefaultAnthropicConfig(), "key")
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-haiku-latest", client.GetModel(TierLite))
	assert.NoError(t, client.Close())
}

func TestProviderError(t *testing.T) {
	cause := errors.New("boom")
	err := &ProviderError{Provider: ProviderGemini, StatusCode: 429, Message: "rate limited", Cause: cause}

	assert.Equal(t, "gemini error (status 429): rate limited: boom", err.Error())
	assert.ErrorIs(t, err, cause)

	plain := &ProviderError{Provider: ProviderAnthropic, Message: "no text"}
	assert.Equal(t, "anthropic error: no text", plain.Error())
}
