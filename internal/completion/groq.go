// Package completion wraps the Groq chat completions endpoint. One
// synchronous call per send, no retries, no streaming.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Leonucn/Echo-chat/internal/apperr"
)

const groqAPI = "https://api.groq.com/openai/v1/chat/completions"

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role/content entry in a completion window.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is a minimal Groq chat completions client.
type Client struct {
	apiKey     string
	url        string
	model      string
	httpClient *http.Client
}

// NewClient creates a Groq client with the fixed model identifier.
func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey: apiKey,
		url:    groqAPI,
		model:  model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the message window and returns the reply text. Any
// transport or API failure comes back as a *apperr.GenerationError.
func (c *Client) Complete(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", &apperr.GenerationError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", &apperr.GenerationError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &apperr.GenerationError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &apperr.GenerationError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &apperr.GenerationError{Err: fmt.Errorf("groq status=%d body=%s", resp.StatusCode, truncate(string(body), 400))}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &apperr.GenerationError{Err: fmt.Errorf("bad groq response: %s", truncate(string(body), 400))}
	}

	if len(parsed.Choices) == 0 {
		return "", &apperr.GenerationError{Err: fmt.Errorf("empty groq response")}
	}

	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
