package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	contractx "github.com/storepilot/storepilot/contract"
)

type countingAdapter struct {
	name Provider

	mu    sync.Mutex
	calls int
	reply string
	err   error
}

func (a *countingAdapter) Name() Provider {
	return a.name
}

func (a *countingAdapter) Complete(context.Context, string, string, string) (string, error) {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()
	return a.reply, a.err
}

func (a *countingAdapter) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

func sampleProducts() []contractx.Product {
	return []contractx.Product{
		{ID: "1", Title: "Budget Laptop", Price: "1200.00", StoreName: "Store A"},
		{ID: "2", Title: "Pro Laptop", Price: "4500.00", StoreName: "Store B"},
	}
}

func sampleStats() contractx.StoreStats {
	return contractx.StoreStats{StoreCount: 2, ProductCount: 2, MinPrice: 1200, MaxPrice: 4500}
}

func TestRespondNoProviderUsesDemoWithoutNetwork(t *testing.T) {
	t.Parallel()

	adapter := &countingAdapter{name: ProviderOpenAI, reply: "should not be called"}
	settings := NewSettings(Config{})
	d := NewDispatcher(settings, WithAdapter(adapter))

	got := d.Respond(context.Background(), "laptop", sampleProducts(), sampleStats())
	if got == "" {
		t.Fatal("Respond() = empty string, want demo response")
	}
	if adapter.callCount() != 0 {
		t.Fatalf("adapter called %d times with no provider configured, want 0", adapter.callCount())
	}
}

func TestRespondMissingKeyUsesDemo(t *testing.T) {
	t.Parallel()

	adapter := &countingAdapter{name: ProviderOpenAI, reply: "should not be called"}
	settings := NewSettings(Config{Provider: "openai"})
	d := NewDispatcher(settings, WithAdapter(adapter))

	got := d.Respond(context.Background(), "laptop", sampleProducts(), sampleStats())
	if got == "" {
		t.Fatal("Respond() = empty string, want demo response")
	}
	if adapter.callCount() != 0 {
		t.Fatalf("adapter called %d times without a credential, want 0", adapter.callCount())
	}
}

func TestRespondAdapterFailureFallsBackToDemo(t *testing.T) {
	t.Parallel()

	adapter := &countingAdapter{name: ProviderOpenAI, err: errors.New("boom")}
	settings := NewSettings(Config{Provider: "openai", OpenAIKey: "sk-test-key-12345"})
	d := NewDispatcher(settings, WithAdapter(adapter))

	got := d.Respond(context.Background(), "gaming console", sampleProducts(), sampleStats())
	if got == "" {
		t.Fatal("Respond() = empty string after adapter failure, want demo fallback")
	}
	if adapter.callCount() != 1 {
		t.Fatalf("adapter called %d times, want 1", adapter.callCount())
	}
}

func TestRespondUsesAdapterReply(t *testing.T) {
	t.Parallel()

	adapter := &countingAdapter{name: ProviderOpenAI, reply: "here is my recommendation"}
	settings := NewSettings(Config{Provider: "openai", OpenAIKey: "sk-test-key-12345"})
	d := NewDispatcher(settings, WithAdapter(adapter))

	got := d.Respond(context.Background(), "laptop", sampleProducts(), sampleStats())
	if got != "here is my recommendation" {
		t.Fatalf("Respond() = %q, want adapter reply", got)
	}
}

func TestTestReportsFailure(t *testing.T) {
	t.Parallel()

	adapter := &countingAdapter{name: ProviderOpenAI, err: errors.New("401 unauthorized")}
	d := NewDispatcher(NewSettings(Config{}), WithAdapter(adapter))

	ok, message := d.Test(context.Background(), ProviderOpenAI, "gpt-4o-mini", "bad-key")
	if ok {
		t.Fatal("Test() = true, want failure")
	}
	if !strings.Contains(message, "401") {
		t.Fatalf("Test() message = %q, want raw error included", message)
	}
}

func TestTestReportsSuccess(t *testing.T) {
	t.Parallel()

	adapter := &countingAdapter{name: ProviderGroq, reply: "ok"}
	d := NewDispatcher(NewSettings(Config{}), WithAdapter(adapter))

	ok, message := d.Test(context.Background(), ProviderGroq, "", "gsk-test")
	if !ok {
		t.Fatalf("Test() failed: %s", message)
	}
}

func TestTestUnknownProvider(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(NewSettings(Config{}))
	ok, _ := d.Test(context.Background(), Provider("aol"), "", "key")
	if ok {
		t.Fatal("Test() = true for unknown provider, want failure")
	}
}

func TestDemoResponseKeywordSelection(t *testing.T) {
	t.Parallel()

	stats := sampleStats()
	products := sampleProducts()

	laptop := DemoResponse("cheap laptop", products, stats)
	gaming := DemoResponse("gaming mouse", products, stats)
	fallback := DemoResponse("garden gnome", products, stats)

	if laptop == gaming || laptop == fallback {
		t.Fatal("keyword templates should differ between query categories")
	}
	for _, reply := range []string{laptop, gaming, fallback} {
		if !strings.Contains(reply, "2") {
			t.Fatalf("demo reply %q missing interpolated counts", reply)
		}
	}
}

func TestDemoResponseHebrewKeywords(t *testing.T) {
	t.Parallel()

	got := DemoResponse("מחשב נייד", sampleProducts(), sampleStats())
	want := DemoResponse("laptop", sampleProducts(), sampleStats())
	if got != want {
		t.Fatalf("Hebrew laptop query selected a different template: %q vs %q", got, want)
	}
}

func TestDemoResponseEmptyResults(t *testing.T) {
	t.Parallel()

	got := DemoResponse("laptop", nil, contractx.StoreStats{StoreCount: 3})
	if got == "" {
		t.Fatal("DemoResponse() = empty string for empty result set")
	}
	if !strings.Contains(got, "laptop") {
		t.Fatalf("empty-result reply %q should echo the query", got)
	}
}
