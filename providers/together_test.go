package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

func TestTranslateRequest(t *testing.T) {
	provider := NewTogetherProvider("", "test-key")

	temperature := 0.7
	req := &UnifiedRequest{
		Model:       "meta-llama/Llama-3.3-70B-Instruct-Turbo-Free",
		Messages:    []Message{{Role: "user", Content: "hi"}},
		Temperature: &temperature,
		MaxTokens:   256,
		TopP:        0.9,
		Tools: []Tool{{
			Type:     "function",
			Function: ToolFunction{Name: "get_weather"},
		}},
		QuickMode: true,
	}

	preq, err := provider.TranslateRequest(context.Background(), req)
	if err != nil {
		t.Fatalf("TranslateRequest: %v", err)
	}

	if preq.URL != DefaultTogetherURL {
		t.Errorf("URL = %q", preq.URL)
	}
	if preq.Headers["Authorization"] != "Bearer test-key" {
		t.Errorf("auth header = %q", preq.Headers["Authorization"])
	}
	if preq.Timeout != quickTimeout {
		t.Errorf("timeout = %v, want quick %v", preq.Timeout, quickTimeout)
	}

	body := preq.Body.(map[string]interface{})
	if body["max_tokens"] != 256 {
		t.Errorf("max_tokens = %v", body["max_tokens"])
	}
	if _, ok := body["tools"]; !ok {
		t.Error("tools array not forwarded")
	}
	if _, ok := body["stream"]; ok {
		t.Error("stream key present on a non-streaming request")
	}
}

func TestTranslateRequestTemperature(t *testing.T) {
	provider := NewTogetherProvider("", "k")

	// Unset temperature stays off the wire so the API default applies.
	preq, err := provider.TranslateRequest(context.Background(), &UnifiedRequest{
		Model:    "m",
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("TranslateRequest: %v", err)
	}
	if _, ok := preq.Body.(map[string]interface{})["temperature"]; ok {
		t.Error("unset temperature leaked into the body")
	}

	// An explicit 0 is a real setting and must be sent.
	zero := 0.0
	preq, err = provider.TranslateRequest(context.Background(), &UnifiedRequest{
		Model:       "m",
		Messages:    []Message{{Role: "user", Content: "hi"}},
		Temperature: &zero,
	})
	if err != nil {
		t.Fatalf("TranslateRequest: %v", err)
	}
	if got, ok := preq.Body.(map[string]interface{})["temperature"]; !ok || got != 0.0 {
		t.Errorf("temperature = %v (present=%v), want explicit 0", got, ok)
	}
}

func TestTranslateRequestFullTimeout(t *testing.T) {
	provider := NewTogetherProvider("", "k")
	preq, err := provider.TranslateRequest(context.Background(), &UnifiedRequest{
		Model:    "m",
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("TranslateRequest: %v", err)
	}
	if preq.Timeout != fullTimeout {
		t.Errorf("timeout = %v, want full %v", preq.Timeout, fullTimeout)
	}
}

func TestExecuteRoundTrip(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "cmpl-xyz",
			"choices": [{"index":0,"message":{"role":"assistant","content":"pong"},"finish_reason":"stop"}],
			"usage": {"prompt_tokens":3,"completion_tokens":1,"total_tokens":4}
		}`))
	}))
	defer server.Close()

	provider := NewTogetherProvider(server.URL, "secret")
	ctx := context.Background()

	preq, err := provider.TranslateRequest(ctx, &UnifiedRequest{
		Model:    "test-model",
		Messages: []Message{{Role: "user", Content: "ping"}},
	})
	if err != nil {
		t.Fatalf("TranslateRequest: %v", err)
	}
	presp, err := provider.Execute(ctx, preq)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if presp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", presp.StatusCode)
	}
	uresp, err := provider.TranslateResponse(ctx, presp)
	if err != nil {
		t.Fatalf("TranslateResponse: %v", err)
	}

	if gotAuth != "Bearer secret" {
		t.Errorf("server saw auth %q", gotAuth)
	}
	if gotBody["model"] != "test-model" {
		t.Errorf("server saw model %v", gotBody["model"])
	}
	if len(uresp.Choices) != 1 || uresp.Choices[0].Message.Content != "pong" {
		t.Errorf("choices = %+v", uresp.Choices)
	}
	if uresp.Usage.TotalTokens != 4 {
		t.Errorf("usage = %+v", uresp.Usage)
	}
}

func TestExecutePreservesErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer server.Close()

	provider := NewTogetherProvider(server.URL, "k")
	preq, _ := provider.TranslateRequest(context.Background(), &UnifiedRequest{
		Model:    "m",
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	presp, err := provider.Execute(context.Background(), preq)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if presp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", presp.StatusCode)
	}
	if msg := ErrorMessage(presp); msg != "slow down" {
		t.Errorf("ErrorMessage = %q", msg)
	}
}

func TestErrorMessageFormats(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"error":{"message":"bad key","type":"auth"}}`, "bad key"},
		{`{"error":"plain text error"}`, "plain text error"},
		{`{"unexpected":true}`, "unknown API error"},
	}
	for _, tc := range tests {
		resp := &ProviderResponse{Body: json.RawMessage(tc.body)}
		if got := ErrorMessage(resp); got != tc.want {
			t.Errorf("ErrorMessage(%s) = %q, want %q", tc.body, got, tc.want)
		}
	}
}

func TestStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n"))
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n"))
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer server.Close()

	provider := NewTogetherProvider(server.URL, "k")
	preq, _ := provider.TranslateRequest(context.Background(), &UnifiedRequest{
		Model:    "m",
		Messages: []Message{{Role: "user", Content: "hi"}},
		Stream:   true,
	})

	stream := make(chan StreamChunk, 8)
	if err := provider.Stream(context.Background(), preq, stream); err != nil {
		t.Fatalf("Stream: %v", err)
	}

	var parts []string
	done := false
	for chunk := range stream {
		if chunk.Error != nil {
			t.Fatalf("chunk error: %v", chunk.Error)
		}
		if chunk.Done {
			done = true
			continue
		}
		parts = append(parts, chunk.Data)
	}
	if got := strings.Join(parts, ""); got != "Hello" {
		t.Errorf("streamed %q, want Hello", got)
	}
	if !done {
		t.Error("missing done chunk")
	}
}

// Live API test - only runs with a real key
func TestLiveCompletion(t *testing.T) {
	apiKey := os.Getenv("TOGETHER_API_KEY")
	if apiKey == "" {
		t.Skip("TOGETHER_API_KEY not set")
	}

	provider := NewTogetherProvider("", apiKey)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := provider.HealthCheck(ctx); err != nil {
		t.Fatalf("health check against live API failed: %v", err)
	}
}
