package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const openRouterURL = "https://openrouter.ai/api/v1/chat/completions"

// OpenRouterClient implements Client against an OpenAI-compatible chat-completions endpoint
type OpenRouterClient struct {
	apiKey   string
	config   *Config
	http     *http.Client
	endpoint string
	// Referer and Title are sent as HTTP-Referer / X-Title for OpenRouter app attribution
	Referer string
	Title   string
	// Attempts is the number of tries for transport errors, 429 and 5xx responses
	Attempts int
	backoff  time.Duration
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float32        `json:"temperature"`
	MaxTokens      int            `json:"max_tokens,omitempty"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewOpenRouterClient creates a new OpenRouter client. A nil config uses DefaultOpenRouterConfig
// and a nil httpClient uses a client with a 120s timeout.
func NewOpenRouterClient(config *Config, apiKey string, httpClient *http.Client) (*OpenRouterClient, error) {
	if apiKey == "" {
		return nil, &ProviderError{Provider: ProviderOpenRouter, Message: "API key is required"}
	}
	if config == nil {
		config = DefaultOpenRouterConfig()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	endpoint := config.BaseURL
	if endpoint == "" {
		endpoint = openRouterURL
	}

	return &OpenRouterClient{
		apiKey:   apiKey,
		config:   config,
		http:     httpClient,
		endpoint: endpoint,
		Referer:  "https://resume-builder.vercel.app",
		Title:    "Resume Builder",
		Attempts: 3,
		backoff:  time.Second,
	}, nil
}

// GenerateContent generates text content using the specified model tier
func (c *OpenRouterClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.complete(ctx, prompt, tier, false)
}

// GenerateJSON requests a JSON object response and strips code fences from the result
func (c *OpenRouterClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.complete(ctx, prompt, tier, true)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// GetModel returns the model name for a tier
func (c *OpenRouterClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases idle connections
func (c *OpenRouterClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *OpenRouterClient) complete(ctx context.Context, prompt string, tier ModelTier, jsonMode bool) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	req := chatRequest{
		Model:       modelName,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	}
	if jsonMode {
		req.ResponseFormat = map[string]any{"type": "json_object"}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	attempts := c.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		text, retryable, err := c.doRequest(ctx, body)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable || i == attempts-1 {
			break
		}
		// exponential backoff before retrying
		wait := c.backoff * time.Duration(1<<i)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", lastErr
}

// doRequest performs one POST. retryable reports whether a new attempt may succeed.
func (c *OpenRouterClient) doRequest(ctx context.Context, body []byte) (text string, retryable bool, err error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", false, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.Referer != "" {
		httpReq.Header.Set("HTTP-Referer", c.Referer)
	}
	if c.Title != "" {
		httpReq.Header.Set("X-Title", c.Title)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", ctx.Err() == nil, &ProviderError{Provider: ProviderOpenRouter, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, &ProviderError{Provider: ProviderOpenRouter, Message: "failed to read response", Cause: err}
	}

	var parsed chatResponse
	parseErr := json.Unmarshal(respBytes, &parsed)

	if resp.StatusCode != http.StatusOK {
		msg := http.StatusText(resp.StatusCode)
		if parseErr == nil && parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return "", retry, &ProviderError{Provider: ProviderOpenRouter, StatusCode: resp.StatusCode, Message: msg}
	}

	if parseErr != nil {
		return "", false, &ProviderError{Provider: ProviderOpenRouter, Message: "malformed response", Cause: parseErr}
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return "", false, &ProviderError{Provider: ProviderOpenRouter, Message: parsed.Error.Message}
	}
	if len(parsed.Choices) == 0 {
		return "", false, &ProviderError{Provider: ProviderOpenRouter, Message: "choices array is empty or missing"}
	}
	content := parsed.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", false, &ProviderError{Provider: ProviderOpenRouter, Message: "message content is missing"}
	}
	return content, false, nil
}
