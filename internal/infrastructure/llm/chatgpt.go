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

	"ContentHarvester/internal/domain"
	"ContentHarvester/internal/rewrite"
)

const providerName = "chatgpt"

// ChatGPTClient talks to OpenAI-compatible chat-completion APIs.
type ChatGPTClient struct {
	endpoint     string
	model        string
	apiKey       string
	systemPrompt string
	httpClient   *http.Client
}

var _ rewrite.CompletionClient = (*ChatGPTClient)(nil)

// Config carries already-resolved settings; nothing is read from the process
// environment mid-operation.
type Config struct {
	Endpoint     string
	Model        string
	APIKey       string
	SystemPrompt string
}

// NewChatGPTClient builds a client from configuration.
func NewChatGPTClient(cfg Config) *ChatGPTClient {
	return &ChatGPTClient{
		endpoint:     cfg.Endpoint,
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		systemPrompt: cfg.SystemPrompt,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Complete posts the prompt as a user message and returns the first choice's
// content. Upstream faults (quota, malformed response) surface as
// domain.ProviderError and are not retried here.
func (c *ChatGPTClient) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("chatgpt client misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": safePrompt(c.systemPrompt)},
			{"role": "user", "content": prompt},
		},
		"max_tokens":  maxTokens,
		"temperature": temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chatgpt payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chatgpt request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &domain.ProviderError{
			Provider: providerName,
			Status:   resp.StatusCode,
			Message:  strings.TrimSpace(string(payload)),
		}
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &domain.ProviderError{Provider: providerName, Message: fmt.Sprintf("decode response: %v", err)}
	}
	if len(parsed.Choices) == 0 {
		return "", &domain.ProviderError{Provider: providerName, Message: "response carried no choices"}
	}

	return parsed.Choices[0].Message.Content, nil
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "You are a professional copywriter rewriting transcripts into articles."
	}
	return prompt
}
