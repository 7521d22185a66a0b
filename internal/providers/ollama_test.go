package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOllama_Review(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify no Authorization header when no API key is set
		if r.Header.Get("Authorization") != "" {
			t.Error("Expected no Authorization header for keyless Ollama")
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("expected system+user messages, got %+v", req.Messages)
		}

		resp := chatResponse{
			Choices: []chatChoice{
				{Message: chatMessage{Role: "assistant", Content: "## Summary\nlooks fine"}},
			},
			Usage: chatUsage{TotalTokens: 100},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	o := &Ollama{
		model:   "llama3.2",
		baseURL: server.URL,
		client:  server.Client(),
	}

	resp, err := o.Review(context.Background(), ReviewRequest{
		SystemPrompt: "system",
		UserPrompt:   "user",
		MaxTokens:    10,
	})
	if err != nil {
		t.Fatalf("Review error: %v", err)
	}
	if !strings.Contains(resp.Content, "looks fine") {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.TokensUsed != 100 {
		t.Errorf("TokensUsed = %d, want 100", resp.TokensUsed)
	}
}

func TestOllama_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
		w.Write([]byte(`{"error":"internal server error"}`))
	}))
	defer server.Close()

	o := &Ollama{
		model:   "llama3.2",
		baseURL: server.URL,
		client:  server.Client(),
	}

	_, err := o.Review(context.Background(), ReviewRequest{UserPrompt: "x"})
	if err == nil {
		t.Fatal("Expected error for server error response")
	}
}

func TestOllama_RateLimitRetries(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(429)
			return
		}
		resp := chatResponse{
			Choices: []chatChoice{{Message: chatMessage{Role: "assistant", Content: "ok"}}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	o := &Ollama{
		model:   "llama3.2",
		baseURL: server.URL,
		client:  server.Client(),
	}

	resp, err := o.Review(context.Background(), ReviewRequest{UserPrompt: "x"})
	if err != nil {
		t.Fatalf("Review error: %v", err)
	}
	if resp.Content != "ok" {
		t.Errorf("Content = %q, want ok", resp.Content)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestOllama_AuthErrorNotRetried(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(401)
		w.Write([]byte("bad key"))
	}))
	defer server.Close()

	o := &Ollama{
		apiKey:  "wrong",
		model:   "llama3.2",
		baseURL: server.URL,
		client:  server.Client(),
	}

	_, err := o.Review(context.Background(), ReviewRequest{UserPrompt: "x"})
	if err == nil {
		t.Fatal("Expected auth error")
	}
	if !IsAuthError(err) {
		t.Errorf("IsAuthError = false for %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestOllama_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{})
	}))
	defer server.Close()

	o := &Ollama{
		model:   "llama3.2",
		baseURL: server.URL,
		client:  server.Client(),
	}

	_, err := o.Review(context.Background(), ReviewRequest{UserPrompt: "x"})
	if err == nil {
		t.Fatal("Expected error for empty choices")
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New("nope", "model")
	if err == nil {
		t.Fatal("Expected error for unknown provider")
	}
}

func TestNew_ReportsRequestedProviderName(t *testing.T) {
	for _, name := range []string{"ollama", "lmstudio"} {
		r, err := New(name, "llama3.2")
		if err != nil {
			t.Fatalf("New(%q) error: %v", name, err)
		}
		if r.Name() != name {
			t.Errorf("Name() = %q, want %q", r.Name(), name)
		}
	}
}
