package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"resume-ats/internal/llm"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"

	providerName = "openai"
	temperature  = 0.2
)

// Config configures the OpenAI chat completions client.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client implements llm.Provider using OpenAI Chat Completions.
type Client struct {
	baseURL    string
	model      string
	configured bool
	httpClient *http.Client
}

// New constructs a Client. A missing API key yields a client whose Invoke
// reports the provider as unavailable.
func New(cfg Config) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	apiKey := strings.TrimSpace(cfg.APIKey)

	httpClient := &http.Client{Timeout: timeout}
	if apiKey != "" {
		httpClient.Transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"}),
			Base:   http.DefaultTransport,
		}
	}
	return &Client{
		baseURL:    baseURL,
		model:      model,
		configured: apiKey != "",
		httpClient: httpClient,
	}
}

func (c *Client) Name() string  { return providerName }
func (c *Client) Model() string { return c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Invoke sends the prompt as a single user message.
func (c *Client) Invoke(ctx context.Context, prompt string) llm.Outcome {
	if !c.configured {
		return llm.OutcomeFromError(errors.Wrap(llm.ErrNotConfigured, "openai: OPENAI_API_KEY is empty"))
	}
	text, tokens, err := c.complete(ctx, prompt)
	if err != nil {
		return llm.OutcomeFromError(err)
	}
	return llm.Success(text, c.model, tokens)
}

func (c *Client) complete(ctx context.Context, prompt string) (string, *int, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
	})
	if err != nil {
		return "", nil, errors.Wrap(err, "openai: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", nil, errors.Wrap(err, "openai: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", nil, errors.Wrap(context.DeadlineExceeded, "openai request timeout: "+err.Error())
		}
		return "", nil, errors.Wrap(err, "openai: request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, errors.Wrap(err, "openai: read body")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", nil, &llm.StatusError{Provider: providerName, StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", nil, errors.Wrap(err, "openai: parse response")
	}
	if len(parsed.Choices) == 0 {
		return "", nil, errors.New("openai response missing choices")
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", nil, errors.New("openai response empty content")
	}
	var tokens *int
	if parsed.Usage != nil {
		n := parsed.Usage.TotalTokens
		tokens = &n
	}
	return content, tokens, nil
}

func errorMessage(body []byte) string {
	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil {
		return parsed.Error.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

var _ llm.Provider = (*Client)(nil)
