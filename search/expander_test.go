package search

import (
	"strings"
	"testing"
)

func TestExpandVerbatimFirst(t *testing.T) {
	t.Parallel()

	e := NewExpander()
	for _, query := range []string{"laptop stand", "מחשב נייד", "", "socks"} {
		got := e.Expand(query)
		if len(got) < 1 {
			t.Fatalf("Expand(%q) returned no terms", query)
		}
		if got[0] != query {
			t.Fatalf("Expand(%q)[0] = %q, want verbatim query", query, got[0])
		}
	}
}

func TestExpandAddsDictionaryTermOnce(t *testing.T) {
	t.Parallel()

	e := NewExpander()
	got := e.Expand("מחשב נייד חדש")

	count := 0
	for _, term := range got {
		if term == "laptop" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("Expand() contains %d occurrences of %q, want exactly 1 (terms: %v)", count, "laptop", got)
	}
}

func TestExpandCaseInsensitiveMatch(t *testing.T) {
	t.Parallel()

	e := NewExpander()
	got := e.Expand("Cheap LAPTOP deals")

	found := false
	for _, term := range got[1:] {
		if term == "notebook" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Expand() = %v, want expansion %q for substring match", got, "notebook")
	}
}

func TestExpandNoMatchReturnsQueryOnly(t *testing.T) {
	t.Parallel()

	e := NewExpander()
	got := e.Expand("garden hose")
	if len(got) != 1 {
		t.Fatalf("Expand() = %v, want only the verbatim query", got)
	}
}

func TestExpandDeterministicOrder(t *testing.T) {
	t.Parallel()

	e := NewExpander()
	first := e.Expand("מחשב נייד")
	second := e.Expand("מחשב נייד")
	if strings.Join(first, "|") != strings.Join(second, "|") {
		t.Fatalf("Expand() not deterministic: %v vs %v", first, second)
	}
}
