package assistant

import (
	"fmt"
	"strings"
	"sync"

	contractx "github.com/storepilot/storepilot/contract"
)

// Provider identifies an upstream completion provider.
type Provider string

const (
	ProviderNone      Provider = "none"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
	ProviderGroq      Provider = "groq"
	ProviderDeepSeek  Provider = "deepseek"
)

// Providers lists every selectable provider, in display order.
var Providers = []Provider{
	ProviderOpenAI,
	ProviderAnthropic,
	ProviderGemini,
	ProviderGroq,
	ProviderDeepSeek,
}

func ParseProvider(raw string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(raw)))
	if p == "" || p == ProviderNone {
		return ProviderNone, nil
	}
	for _, known := range Providers {
		if p == known {
			return p, nil
		}
	}
	return ProviderNone, fmt.Errorf("%w: unknown provider %q", contractx.ErrValidation, raw)
}

// Config is the startup AI configuration. All fields are optional; with no
// provider or key the assistant runs in demo mode.
type Config struct {
	Provider     string `envconfig:"PROVIDER" split_words:"true"`
	Model        string `envconfig:"MODEL" split_words:"true"`
	OpenAIKey    string `envconfig:"OPENAI_KEY" split_words:"true"`
	AnthropicKey string `envconfig:"ANTHROPIC_KEY" split_words:"true"`
	GeminiKey    string `envconfig:"GEMINI_KEY" split_words:"true"`
	GroqKey      string `envconfig:"GROQ_KEY" split_words:"true"`
	DeepSeekKey  string `envconfig:"DEEPSEEK_KEY" split_words:"true"`
}

// Settings is the process-wide mutable AI configuration: selected provider,
// model, and one credential per provider. Safe for concurrent use.
type Settings struct {
	mu       sync.RWMutex
	provider Provider
	model    string
	keys     map[Provider]string
}

func NewSettings(cfg Config) *Settings {
	s := &Settings{
		provider: ProviderNone,
		model:    strings.TrimSpace(cfg.Model),
		keys:     make(map[Provider]string),
	}

	setKey := func(p Provider, key string) {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			s.keys[p] = trimmed
		}
	}
	setKey(ProviderOpenAI, cfg.OpenAIKey)
	setKey(ProviderAnthropic, cfg.AnthropicKey)
	setKey(ProviderGemini, cfg.GeminiKey)
	setKey(ProviderGroq, cfg.GroqKey)
	setKey(ProviderDeepSeek, cfg.DeepSeekKey)

	if p, err := ParseProvider(cfg.Provider); err == nil {
		s.provider = p
	}

	return s
}

// Active returns the selected provider with its model and credential. The
// credential is empty when the selected provider has no key saved.
func (s *Settings) Active() (Provider, string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provider, s.model, s.keys[s.provider]
}

// Save replaces the selected provider and model, and merges in any non-empty
// keys. Passing an empty key for a provider keeps its existing credential.
func (s *Settings) Save(provider Provider, model string, keys map[Provider]string) error {
	parsed, err := ParseProvider(string(provider))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = parsed
	if trimmed := strings.TrimSpace(model); trimmed != "" {
		s.model = trimmed
	}
	for p, key := range keys {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			s.keys[p] = trimmed
		}
	}
	return nil
}

// MaskedView is the externally visible configuration. Credentials are
// masked, never echoed in full.
type MaskedView struct {
	Provider Provider            `json:"provider"`
	Model    string              `json:"model,omitempty"`
	Keys     map[Provider]string `json:"keys"`
}

func (s *Settings) Masked() MaskedView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view := MaskedView{
		Provider: s.provider,
		Model:    s.model,
		Keys:     make(map[Provider]string, len(s.keys)),
	}
	for p, key := range s.keys {
		view.Keys[p] = maskKey(key)
	}
	return view
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-2:]
}
