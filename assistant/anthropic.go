package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	contractx "github.com/storepilot/storepilot/contract"
)

const (
	anthropicBaseURL    = "https://api.anthropic.com"
	anthropicAPIVersion = "2023-06-01"
	anthropicMaxTokens  = 600
)

// anthropicAdapter talks to the Anthropic Messages API directly: auth is an
// x-api-key header (not a bearer token) and the reply text lives under
// content[0].text.
type anthropicAdapter struct {
	baseURL      string
	defaultModel string
	httpClient   *http.Client
}

var _ Adapter = (*anthropicAdapter)(nil)

func newAnthropicAdapter() *anthropicAdapter {
	return &anthropicAdapter{
		baseURL:      anthropicBaseURL,
		defaultModel: "claude-3-5-haiku-latest",
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (a *anthropicAdapter) Name() Provider {
	return ProviderAnthropic
}

func (a *anthropicAdapter) Complete(ctx context.Context, model, apiKey, prompt string) (string, error) {
	if strings.TrimSpace(apiKey) == "" {
		return "", fmt.Errorf("%w: anthropic api key is missing", contractx.ErrNotConfigured)
	}
	if strings.TrimSpace(model) == "" {
		model = a.defaultModel
	}

	body, err := json.Marshal(map[string]any{
		"model":      model,
		"max_tokens": anthropicMaxTokens,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal anthropic request: %w", err)
	}

	endpoint := strings.TrimRight(a.baseURL, "/") + "/v1/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build anthropic request: %w", err)
	}
	req.Header.Set("x-api-key", strings.TrimSpace(apiKey))
	req.Header.Set("anthropic-version", anthropicAPIVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: anthropic request: %v", contractx.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read anthropic response: %v", contractx.ErrUpstream, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: anthropic http status=%d", contractx.ErrUpstream, resp.StatusCode)
	}

	var parsed struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode anthropic response: %v", contractx.ErrUpstream, err)
	}
	if len(parsed.Content) == 0 || strings.TrimSpace(parsed.Content[0].Text) == "" {
		return "", fmt.Errorf("%w: anthropic returned empty content", contractx.ErrUpstream)
	}
	return strings.TrimSpace(parsed.Content[0].Text), nil
}
