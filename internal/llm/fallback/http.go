package fallback

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
)

// HTTP posts prompts to a text-generation inference endpoint that accepts
// {"inputs": prompt} and answers with generated_text.
type HTTP struct {
	url        string
	httpClient *http.Client
}

// NewHTTP constructs an HTTP fallback. token may be empty for open endpoints.
func NewHTTP(url, token string, timeout time.Duration) (*HTTP, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("FALLBACK_URL is required for http fallback")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &http.Client{Timeout: timeout}
	if token = strings.TrimSpace(token); token != "" {
		client.Transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   http.DefaultTransport,
		}
	}
	return &HTTP{url: url, httpClient: client}, nil
}

func (h *HTTP) Name() string { return "fallback-http" }

type generated struct {
	GeneratedText string `json:"generated_text"`
	Text          string `json:"text"`
}

// Complete returns the generated text, or an error when the endpoint cannot
// produce any.
func (h *HTTP) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(map[string]string{"inputs": prompt})
	if err != nil {
		return "", errors.Wrap(err, "fallback: marshal request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "fallback: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "fallback: request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "fallback: read body")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.Errorf("fallback http status %d", resp.StatusCode)
	}
	text := parseGenerated(body)
	if text == "" {
		return "", errors.New("fallback returned empty response")
	}
	return text, nil
}

func parseGenerated(body []byte) string {
	var list []generated
	if err := json.Unmarshal(body, &list); err == nil && len(list) > 0 {
		return strings.TrimSpace(first(list[0].GeneratedText, list[0].Text))
	}
	var single generated
	if err := json.Unmarshal(body, &single); err == nil {
		if v := first(single.GeneratedText, single.Text); v != "" {
			return strings.TrimSpace(v)
		}
	}
	return strings.TrimSpace(string(body))
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
