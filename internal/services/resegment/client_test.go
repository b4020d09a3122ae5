package resegment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func completionServer(t *testing.T, content string, check func(r chatRequest)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if check != nil {
			check(req)
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestResegmentSendsPromptAndText(t *testing.T) {
	var got chatRequest
	server := completionServer(t, `(document (section "All" "hello"))`, func(r chatRequest) { got = r })
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Model: "claude-sonnet"})
	result, err := client.Resegment(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("Resegment failed: %v", err)
	}
	if result != `(document (section "All" "hello"))` {
		t.Fatalf("result = %q", result)
	}
	if got.Model != "claude-sonnet" {
		t.Fatalf("model = %q", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[1].Content != "hello" {
		t.Fatalf("messages = %+v", got.Messages)
	}
	if got.Temperature != defaultTemperature || got.MaxTokens != defaultMaxTokens {
		t.Fatalf("defaults not applied: %+v", got)
	}
}

func TestResegmentParamOverrides(t *testing.T) {
	var got chatRequest
	server := completionServer(t, "(document)", func(r chatRequest) { got = r })
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Model: "claude-sonnet"})
	_, err := client.Resegment(context.Background(), "hello", map[string]any{
		"model": "claude-opus", "temperature": 0.9, "max_tokens": 128,
	})
	if err != nil {
		t.Fatalf("Resegment failed: %v", err)
	}
	if got.Model != "claude-opus" || got.Temperature != 0.9 || got.MaxTokens != 128 {
		t.Fatalf("overrides not applied: %+v", got)
	}
}

func TestResegmentStripsCodeFence(t *testing.T) {
	server := completionServer(t, "```lisp\n(document (section \"S\" \"x\"))\n```", nil)
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	result, err := client.Resegment(context.Background(), "x", nil)
	if err != nil {
		t.Fatalf("Resegment failed: %v", err)
	}
	if strings.Contains(result, "```") {
		t.Fatalf("fence not stripped: %q", result)
	}
}

func TestResegmentHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	if _, err := client.Resegment(context.Background(), "x", nil); err == nil {
		t.Fatal("Resegment swallowed an HTTP error")
	}
}

func TestResegmentEmptyText(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://localhost:0"})
	if _, err := client.Resegment(context.Background(), "  ", nil); err == nil {
		t.Fatal("Resegment accepted empty text")
	}
}
