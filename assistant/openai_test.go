package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	contractx "github.com/storepilot/storepilot/contract"
)

func TestOpenAICompatCompleteExtractsChoice(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"cmpl-1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"best deal is the budget laptop"},"finish_reason":"stop"}]}`)
	}))
	t.Cleanup(server.Close)

	adapter := newOpenAIAdapter().withBaseURL(server.URL)
	got, err := adapter.Complete(context.Background(), "gpt-4o-mini", "sk-test", "which laptop?")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "best deal is the budget laptop" {
		t.Fatalf("Complete() = %q, want choices[0].message.content", got)
	}

	if !strings.HasSuffix(gotPath, "/chat/completions") {
		t.Fatalf("request path = %q, want chat completions endpoint", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestOpenAICompatCompleteMissingKey(t *testing.T) {
	t.Parallel()

	for _, adapter := range []*openAICompatAdapter{newOpenAIAdapter(), newGroqAdapter(), newDeepSeekAdapter()} {
		_, err := adapter.Complete(context.Background(), "", "", "hi")
		if !errors.Is(err, contractx.ErrNotConfigured) {
			t.Fatalf("%s Complete() error = %v, want ErrNotConfigured", adapter.Name(), err)
		}
	}
}

func TestOpenAICompatCompleteNoChoices(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"cmpl-2","object":"chat.completion","choices":[]}`)
	}))
	t.Cleanup(server.Close)

	adapter := newGroqAdapter().withBaseURL(server.URL)
	_, err := adapter.Complete(context.Background(), "", "gsk-test", "hi")
	if !errors.Is(err, contractx.ErrUpstream) {
		t.Fatalf("Complete() error = %v, want ErrUpstream", err)
	}
}
