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

const geminiBaseURL = "https://generativelanguage.googleapis.com"

// geminiAdapter talks to the Gemini generateContent API: the model is part
// of the path, auth is an x-goog-api-key header, and the reply text lives
// under candidates[0].content.parts[0].text.
type geminiAdapter struct {
	baseURL      string
	defaultModel string
	httpClient   *http.Client
}

var _ Adapter = (*geminiAdapter)(nil)

func newGeminiAdapter() *geminiAdapter {
	return &geminiAdapter{
		baseURL:      geminiBaseURL,
		defaultModel: "gemini-2.0-flash",
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (a *geminiAdapter) Name() Provider {
	return ProviderGemini
}

func (a *geminiAdapter) Complete(ctx context.Context, model, apiKey, prompt string) (string, error) {
	if strings.TrimSpace(apiKey) == "" {
		return "", fmt.Errorf("%w: gemini api key is missing", contractx.ErrNotConfigured)
	}
	if strings.TrimSpace(model) == "" {
		model = a.defaultModel
	}

	body, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]any{{"text": prompt}}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", strings.TrimRight(a.baseURL, "/"), model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build gemini request: %w", err)
	}
	req.Header.Set("x-goog-api-key", strings.TrimSpace(apiKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: gemini request: %v", contractx.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read gemini response: %v", contractx.ErrUpstream, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: gemini http status=%d", contractx.ErrUpstream, resp.StatusCode)
	}

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode gemini response: %v", contractx.ErrUpstream, err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: gemini returned no candidates", contractx.ErrUpstream)
	}
	text := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned empty text", contractx.ErrUpstream)
	}
	return text, nil
}
