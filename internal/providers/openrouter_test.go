package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		resp := map[string]any{
			"id":    "gen-1",
			"model": "google/gemini-2.5-flash",
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
			"usage": map[string]int{"prompt_tokens": 100, "completion_tokens": 20, "total_tokens": 120},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestOpenRouterClient_Chat(t *testing.T) {
	t.Run("plain completion", func(t *testing.T) {
		server := chatServer(t, "bonjour")
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{APIKey: "k", BaseURL: server.URL, RateLimit: 1000})
		result, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "salut"}},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if result.Content != "bonjour" {
			t.Errorf("unexpected content: %q", result.Content)
		}
		if result.TotalTokens != 120 {
			t.Errorf("unexpected token count: %d", result.TotalTokens)
		}
	})

	t.Run("structured output parsed from code fence", func(t *testing.T) {
		server := chatServer(t, "```json\n{\"UA\": [{\"start_page\": 1, \"end_page\": 3}]}\n```")
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{APIKey: "k", BaseURL: server.URL, RateLimit: 1000})
		result, err := client.Chat(context.Background(), &ChatRequest{
			Messages:       []Message{{Role: "user", Content: "map zones"}},
			ResponseFormat: &ResponseFormat{Type: "json_schema"},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		var parsed map[string][]map[string]int
		if err := json.Unmarshal(result.ParsedJSON, &parsed); err != nil {
			t.Fatalf("ParsedJSON not valid JSON: %v", err)
		}
		if parsed["UA"][0]["start_page"] != 1 {
			t.Errorf("unexpected parsed payload: %v", parsed)
		}
	})

	t.Run("malformed structured output fails", func(t *testing.T) {
		server := chatServer(t, "I could not determine the zones.")
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{APIKey: "k", BaseURL: server.URL, RateLimit: 1000})
		_, err := client.Chat(context.Background(), &ChatRequest{
			Messages:       []Message{{Role: "user", Content: "map zones"}},
			ResponseFormat: &ResponseFormat{Type: "json_schema"},
		})
		if err == nil {
			t.Fatal("expected structured parse error")
		}
	})

	t.Run("retries on 500 then succeeds", func(t *testing.T) {
		var calls atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{{"message": map[string]string{"content": "ok"}}},
			})
		}))
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{
			APIKey: "k", BaseURL: server.URL,
			RateLimit: 1000, RetryDelay: time.Millisecond,
		})
		result, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "hi"}},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if result.Content != "ok" {
			t.Errorf("unexpected content: %q", result.Content)
		}
		if calls.Load() != 2 {
			t.Errorf("expected 2 calls, got %d", calls.Load())
		}
	})

	t.Run("non-retryable status fails immediately", func(t *testing.T) {
		var calls atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{
			APIKey: "k", BaseURL: server.URL,
			RateLimit: 1000, RetryDelay: time.Millisecond,
		})
		_, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "hi"}},
		})
		if err == nil {
			t.Fatal("expected error")
		}
		if calls.Load() != 1 {
			t.Errorf("expected 1 call, got %d", calls.Load())
		}
	})
}

func TestParseStructuredJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"bare object", `{"a": 1}`, false},
		{"fenced", "```json\n{\"a\": 1}\n```", false},
		{"prose wrapped", "Here is the mapping:\n{\"a\": 1}\nDone.", false},
		{"array", `[1, 2]`, false},
		{"no json", "nothing here", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStructuredJSON(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseStructuredJSON(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}
