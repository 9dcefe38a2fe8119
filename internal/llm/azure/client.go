package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"mailwork-backend/internal/llm"
)

// Client implements llm.Client using Azure OpenAI Chat Completions.
type Client struct {
	endpoint   string
	apiKey     string
	apiVersion string
	deployment string
	httpClient *http.Client
}

// NewClient constructs a new Azure OpenAI client. Endpoint and API key
// must both be set; an unconfigured client should use llm.PlaceholderClient.
func NewClient(endpoint, apiKey, apiVersion, deployment string) (*Client, error) {
	if strings.TrimSpace(endpoint) == "" || strings.TrimSpace(apiKey) == "" {
		return nil, llm.ErrNotConfigured
	}
	if strings.TrimSpace(deployment) == "" {
		return nil, fmt.Errorf("AZURE_OPENAI_DEPLOYMENT is required")
	}
	if strings.TrimSpace(apiVersion) == "" {
		apiVersion = "2023-12-01-preview"
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("AZURE_OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		endpoint:   strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		apiKey:     strings.TrimSpace(apiKey),
		apiVersion: apiVersion,
		deployment: strings.TrimSpace(deployment),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// AnalyzeEmail issues exactly one chat completion request and returns
// the raw reply text. Structural validity of the reply is the caller's
// concern, not the transport's.
func (c *Client) AnalyzeEmail(ctx context.Context, input llm.AnalyzeInput) (string, error) {
	messages := BuildPrompt(input.Content)
	raw, usage, err := c.completeOnce(ctx, messages)
	if err != nil {
		return "", err
	}
	logUsage(c.deployment, usage)
	return raw, nil
}

func (c *Client) completeOnce(ctx context.Context, messages []Message) (string, *chatResponseUsage, error) {
	reqMessages := make([]chatMessage, 0, len(messages))
	for _, m := range messages {
		reqMessages = append(reqMessages, chatMessage{Role: m.Role, Content: m.Content})
	}
	reqBody := chatRequest{
		Messages:    reqMessages,
		Temperature: 0.3,
		MaxTokens:   2000,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.requestURL(), bytes.NewReader(payload))
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", nil, &llm.TransportError{Err: fmt.Errorf("azure request timeout: %w", err)}
		}
		return "", nil, &llm.TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, &llm.TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", nil, &llm.TransportError{Err: fmt.Errorf("azure status %d: %s", resp.StatusCode, truncate(string(body), 200))}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", nil, &llm.TransportError{Err: fmt.Errorf("azure response parse: %w", err)}
	}
	if parsed.Error != nil {
		return "", nil, &llm.TransportError{Err: fmt.Errorf("azure error: %s (%s)", parsed.Error.Message, parsed.Error.Code)}
	}
	if len(parsed.Choices) == 0 {
		return "", nil, &llm.TransportError{Err: fmt.Errorf("azure response missing choices")}
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", nil, &llm.TransportError{Err: fmt.Errorf("azure response empty content")}
	}
	return content, toUsage(parsed.Usage), nil
}

func (c *Client) requestURL() string {
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.endpoint, url.PathEscape(c.deployment), url.QueryEscape(c.apiVersion))
}

type chatResponseUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

func toUsage(raw *struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}) *chatResponseUsage {
	if raw == nil {
		return nil
	}
	return &chatResponseUsage{
		PromptTokens:     raw.PromptTokens,
		CompletionTokens: raw.CompletionTokens,
		TotalTokens:      raw.TotalTokens,
	}
}

func logUsage(deployment string, usage *chatResponseUsage) {
	if usage == nil {
		log.Printf("llm response deployment=%s", deployment)
		return
	}
	log.Printf("llm response deployment=%s prompt_tokens=%d completion_tokens=%d total_tokens=%d",
		deployment, usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

var _ llm.Client = (*Client)(nil)
