package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/storepilot/storepilot/contract"
)

const defaultCallTimeout = 12 * time.Second

// DispatcherOption customizes a Dispatcher.
type DispatcherOption func(*Dispatcher)

func WithCallTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithAdapter registers (or replaces) a provider adapter.
func WithAdapter(adapter Adapter) DispatcherOption {
	return func(d *Dispatcher) {
		if adapter != nil {
			d.adapters[adapter.Name()] = adapter
		}
	}
}

// Dispatcher routes chat requests to the configured provider adapter and
// degrades to the demo responder whenever that is not possible. Respond
// never fails: a broken provider must not break the product results it
// accompanies.
type Dispatcher struct {
	settings *Settings
	adapters map[Provider]Adapter
	timeout  time.Duration
}

func NewDispatcher(settings *Settings, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		settings: settings,
		adapters: make(map[Provider]Adapter),
		timeout:  defaultCallTimeout,
	}

	for _, adapter := range []Adapter{
		newOpenAIAdapter(),
		newAnthropicAdapter(),
		newGeminiAdapter(),
		newGroqAdapter(),
		newDeepSeekAdapter(),
	} {
		d.adapters[adapter.Name()] = adapter
	}

	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Respond produces the assistant's reply for a search. With no provider or
// credential configured it uses the demo templates without touching the
// network; otherwise it calls the provider under a bounded timeout and
// falls back to the demo reply on any failure.
func (d *Dispatcher) Respond(ctx context.Context, query string, products []contractx.Product, stats contractx.StoreStats) string {
	provider, model, apiKey := d.settings.Active()
	if provider == ProviderNone || strings.TrimSpace(apiKey) == "" {
		return DemoResponse(query, products, stats)
	}

	adapter, ok := d.adapters[provider]
	if !ok {
		log.Warn().Str("provider", string(provider)).Msg("no adapter for configured provider, using demo response")
		return DemoResponse(query, products, stats)
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	text, err := adapter.Complete(callCtx, model, apiKey, buildPrompt(query, products, stats))
	if err != nil {
		log.Warn().Err(err).Str("provider", string(provider)).Msg("provider call failed, using demo response")
		return DemoResponse(query, products, stats)
	}
	if strings.TrimSpace(text) == "" {
		return DemoResponse(query, products, stats)
	}
	return text
}

// Test checks connectivity and credentials for one provider with a minimal
// prompt. Unlike Respond it reports the raw failure to the caller.
func (d *Dispatcher) Test(ctx context.Context, provider Provider, model, apiKey string) (bool, string) {
	parsed, err := ParseProvider(string(provider))
	if err != nil {
		return false, err.Error()
	}
	if parsed == ProviderNone {
		return false, "no provider selected"
	}

	adapter, ok := d.adapters[parsed]
	if !ok {
		return false, fmt.Sprintf("no adapter registered for provider %s", parsed)
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	text, err := adapter.Complete(callCtx, model, apiKey, testPrompt)
	if err != nil {
		return false, err.Error()
	}
	return true, fmt.Sprintf("provider %s responded: %s", parsed, text)
}
