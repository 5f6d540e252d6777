package assistant

import (
	"context"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	contractx "github.com/storepilot/storepilot/contract"
)

// openAICompatAdapter serves every provider that speaks the OpenAI chat
// completions protocol; they differ only in base URL, bearer key, and
// default model.
type openAICompatAdapter struct {
	name         Provider
	baseURL      string
	defaultModel string
}

var _ Adapter = (*openAICompatAdapter)(nil)

func newOpenAIAdapter() *openAICompatAdapter {
	return &openAICompatAdapter{
		name:         ProviderOpenAI,
		baseURL:      "https://api.openai.com/v1",
		defaultModel: "gpt-4o-mini",
	}
}

func newGroqAdapter() *openAICompatAdapter {
	return &openAICompatAdapter{
		name:         ProviderGroq,
		baseURL:      "https://api.groq.com/openai/v1",
		defaultModel: "llama-3.3-70b-versatile",
	}
}

func newDeepSeekAdapter() *openAICompatAdapter {
	return &openAICompatAdapter{
		name:         ProviderDeepSeek,
		baseURL:      "https://api.deepseek.com/v1",
		defaultModel: "deepseek-chat",
	}
}

func (a *openAICompatAdapter) Name() Provider {
	return a.name
}

func (a *openAICompatAdapter) Complete(ctx context.Context, model, apiKey, prompt string) (string, error) {
	if strings.TrimSpace(apiKey) == "" {
		return "", fmt.Errorf("%w: %s api key is missing", contractx.ErrNotConfigured, a.name)
	}
	if strings.TrimSpace(model) == "" {
		model = a.defaultModel
	}

	client := openaisdk.NewClient(
		option.WithAPIKey(strings.TrimSpace(apiKey)),
		option.WithBaseURL(strings.TrimRight(a.baseURL, "/")),
	)

	resp, err := client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s completion: %v", contractx.ErrUpstream, a.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: %s returned no choices", contractx.ErrUpstream, a.name)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: %s returned empty content", contractx.ErrUpstream, a.name)
	}
	return text, nil
}

// withBaseURL is used by tests to point an adapter at a local server.
func (a *openAICompatAdapter) withBaseURL(baseURL string) *openAICompatAdapter {
	clone := *a
	clone.baseURL = baseURL
	return &clone
}
