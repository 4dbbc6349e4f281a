package gemini

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"resume-ats/internal/llm"
)

const (
	DefaultModel = "gemini-2.5-flash"
	providerName = "gemini"
)

// Config configures the Gemini client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Client implements llm.Provider using the Google GenAI SDK.
type Client struct {
	client    *genai.Client
	modelName string
}

// New creates a Client for the Gemini API backend. An empty API key yields a
// client that reports itself unavailable.
func New(ctx context.Context, cfg Config) (*Client, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return &Client{modelName: model}, nil
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, errors.Wrap(err, "create genai client")
	}
	return &Client{client: client, modelName: model}, nil
}

func (c *Client) Name() string  { return providerName }
func (c *Client) Model() string { return c.modelName }

// Invoke sends the prompt and joins the text parts of every candidate.
func (c *Client) Invoke(ctx context.Context, prompt string) llm.Outcome {
	if c.client == nil {
		return llm.OutcomeFromError(errors.Wrap(llm.ErrNotConfigured, "gemini: GEMINI_API_KEY is empty"))
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), nil)
	if err != nil {
		return llm.OutcomeFromError(mapError(err))
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}
	output := strings.TrimSpace(builder.String())
	if output == "" {
		return llm.Failed("gemini api returned empty response", 0)
	}

	var tokens *int
	if resp.UsageMetadata != nil {
		n := int(resp.UsageMetadata.TotalTokenCount)
		tokens = &n
	}
	return llm.Success(output, c.modelName, tokens)
}

func mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &llm.StatusError{Provider: providerName, StatusCode: apiErr.Code, Message: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &llm.StatusError{Provider: providerName, StatusCode: apiErrPtr.Code, Message: apiErrPtr.Message}
	}
	return errors.Wrap(err, "gemini generate content")
}

var _ llm.Provider = (*Client)(nil)
