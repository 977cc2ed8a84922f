package advisor

import (
	"context"
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/diffguard/diffguard/pkg/shared/config"
	"github.com/diffguard/diffguard/pkg/shared/httpclient"
)

// HTTPClient speaks an OpenAI-style chat-completion endpoint over resty.
type HTTPClient struct {
	resty *resty.Client
	url   string
	model string
	token string
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewHTTPClient builds the completion client from the advisor config section.
// Returns nil when no URL is configured: a nil client disables the advisor.
func NewHTTPClient(cfg *config.Config, logger hclog.Logger) *HTTPClient {
	if cfg == nil || cfg.Advisor.URL == "" {
		return nil
	}

	client := httpclient.NewRestyClient(logger, cfg)
	if cfg.Advisor.Timeout > 0 {
		client.SetTimeout(cfg.Advisor.Timeout)
	}

	var token string
	if cfg.Advisor.TokenEnv != "" {
		token = os.Getenv(cfg.Advisor.TokenEnv)
	}

	return &HTTPClient{
		resty: client,
		url:   cfg.Advisor.URL,
		model: cfg.Advisor.Model,
		token: token,
	}
}

// Complete sends the prompt and returns the first choice's content.
func (c *HTTPClient) Complete(ctx context.Context, prompt string) (string, error) {
	var parsed chatResponse

	req := c.resty.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(chatRequest{
			Model:    c.model,
			Messages: []chatMessage{{Role: "user", Content: prompt}},
		}).
		SetResult(&parsed)
	if c.token != "" {
		req.SetAuthToken(c.token)
	}

	resp, err := req.Post(c.url)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("completion endpoint returned %s", resp.Status())
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion response contained no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
