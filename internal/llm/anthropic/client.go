package anthropic

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"

	"resume-ats/internal/llm"
)

const (
	DefaultModel     = "claude-sonnet-4-5"
	DefaultMaxTokens = 1024
	providerName     = "anthropic"
)

// Config configures the Anthropic Messages client.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int64
	BaseURL   string
}

// Client implements llm.Provider using the Anthropic Messages API.
type Client struct {
	client     sdk.Client
	model      string
	maxTokens  int64
	configured bool
}

// New constructs a Client. An empty API key yields a client that reports
// itself unavailable.
func New(cfg Config) *Client {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	apiKey := strings.TrimSpace(cfg.APIKey)

	c := &Client{model: model, maxTokens: maxTokens, configured: apiKey != ""}
	if c.configured {
		opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
		if cfg.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.BaseURL))
		}
		c.client = sdk.NewClient(opts...)
	}
	return c
}

func (c *Client) Name() string  { return providerName }
func (c *Client) Model() string { return c.model }

// Invoke sends the prompt as a single user turn and concatenates text blocks.
func (c *Client) Invoke(ctx context.Context, prompt string) llm.Outcome {
	if !c.configured {
		return llm.OutcomeFromError(errors.Wrap(llm.ErrNotConfigured, "anthropic: ANTHROPIC_API_KEY is empty"))
	}

	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *sdk.Error
		if errors.As(err, &apiErr) {
			return llm.OutcomeFromError(&llm.StatusError{Provider: providerName, StatusCode: apiErr.StatusCode, Message: apiErr.Error()})
		}
		return llm.OutcomeFromError(errors.Wrap(err, "anthropic messages"))
	}

	var builder strings.Builder
	for _, block := range msg.Content {
		if block.Type != "text" || strings.TrimSpace(block.Text) == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(strings.TrimSpace(block.Text))
	}
	output := builder.String()
	if output == "" {
		return llm.Failed("anthropic returned no text content", 0)
	}
	tokens := int(msg.Usage.InputTokens + msg.Usage.OutputTokens)
	return llm.Success(output, c.model, &tokens)
}

var _ llm.Provider = (*Client)(nil)
