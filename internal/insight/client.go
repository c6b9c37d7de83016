// Package insight asks an OpenAI-compatible chat completions endpoint to
// comment on a plain-text health summary.
package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
)

var ErrNotConfigured = errors.New("insight api key not configured")

const systemPrompt = "You are a supportive health coach. Given a user's tracked water, food, " +
	"activity, fasting, sleep and weight data, point out notable patterns and give at most " +
	"three short, practical suggestions. Do not give medical diagnoses."

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Index   int     `json:"index"`
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type Client struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

// Analyze returns the model's free-text commentary on summary.
func (c *Client) Analyze(ctx context.Context, summary string) (string, error) {
	if strings.TrimSpace(summary) == "" {
		return "", fmt.Errorf("insight summary is empty")
	}
	return c.Chat(ctx, []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: "Here is my recent data:\n\n" + summary},
	})
}

func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return "", ErrNotConfigured
	}
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	model := strings.TrimSpace(c.Model)
	if model == "" {
		model = defaultModel
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}

	payload, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   600,
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("encode insight request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create insight request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute insight request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read insight response: %w", err)
	}
	var parsed chatResponse
	decodeErr := json.Unmarshal(body, &parsed)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && parsed.Error != nil && parsed.Error.Message != "" {
			return "", fmt.Errorf("insight request failed with status %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("insight request failed with status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode insight response: %w", decodeErr)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("insight response has no choices")
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("insight response is empty")
	}
	return content, nil
}
