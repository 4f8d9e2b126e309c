package providers

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultTogetherURL is the Together chat-completions endpoint.
const DefaultTogetherURL = "https://api.together.xyz/v1/chat/completions"

// Upstream timeouts. Quick mode trades completeness for latency.
const (
	quickTimeout = 8 * time.Second
	fullTimeout  = 15 * time.Second
)

// TogetherProvider relays chat-completion requests to the Together API.
// The BaseURL is the COMPLETE endpoint (no path appending).
type TogetherProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewTogetherProvider creates a Together provider. An empty baseURL selects
// the public endpoint.
func NewTogetherProvider(baseURL, apiKey string) *TogetherProvider {
	if baseURL == "" {
		baseURL = DefaultTogetherURL
	}
	return &TogetherProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// TranslateRequest converts a unified request to the Together wire format
func (t *TogetherProvider) TranslateRequest(ctx context.Context, req *UnifiedRequest) (*ProviderRequest, error) {
	body := map[string]interface{}{
		"model":    req.Model,
		"messages": req.Messages,
	}

	if req.Temperature != nil {
		body["temperature"] = *req.Temperature
	}
	if req.MaxTokens > 0 {
		body["max_tokens"] = req.MaxTokens
	}
	if req.TopP > 0 {
		body["top_p"] = req.TopP
	}
	if len(req.Stop) > 0 {
		body["stop"] = req.Stop
	}
	if len(req.Tools) > 0 {
		body["tools"] = req.Tools
	}
	if req.Stream {
		body["stream"] = true
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if t.apiKey != "" {
		headers["Authorization"] = "Bearer " + t.apiKey
	}

	timeout := fullTimeout
	if req.QuickMode {
		timeout = quickTimeout
	}

	return &ProviderRequest{
		URL:     t.baseURL,
		Method:  "POST",
		Headers: headers,
		Body:    body,
		Timeout: timeout,
	}, nil
}

// Execute sends the request to the API
func (t *TogetherProvider) Execute(ctx context.Context, req *ProviderRequest) (*ProviderResponse, error) {
	jsonBody, err := json.Marshal(req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var body json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	headers := make(map[string]string)
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}

	return &ProviderResponse{
		StatusCode: resp.StatusCode,
		Headers:    headers,
		Body:       body,
	}, nil
}

// TranslateResponse converts the Together response to unified format
func (t *TogetherProvider) TranslateResponse(ctx context.Context, resp *ProviderResponse) (*UnifiedResponse, error) {
	var unifiedResp UnifiedResponse
	if err := json.Unmarshal(resp.Body, &unifiedResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &unifiedResp, nil
}

// Stream handles streaming responses
func (t *TogetherProvider) Stream(ctx context.Context, req *ProviderRequest, stream chan<- StreamChunk) error {
	defer close(stream)

	if body, ok := req.Body.(map[string]interface{}); ok {
		body["stream"] = true
	}

	jsonBody, err := json.Marshal(req.Body)
	if err != nil {
		stream <- StreamChunk{Error: err}
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bytes.NewBuffer(jsonBody))
	if err != nil {
		stream <- StreamChunk{Error: err}
		return err
	}

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		stream <- StreamChunk{Error: err}
		return err
	}
	defer resp.Body.Close()

	// Parse SSE stream (Server-Sent Events format)
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()

		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")

		if data == "[DONE]" {
			stream <- StreamChunk{Done: true}
			return nil
		}

		var chunk map[string]interface{}
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// Skip malformed JSON
			continue
		}

		// Format: {"choices": [{"delta": {"content": "text"}}]}
		if choices, ok := chunk["choices"].([]interface{}); ok && len(choices) > 0 {
			if choice, ok := choices[0].(map[string]interface{}); ok {
				if delta, ok := choice["delta"].(map[string]interface{}); ok {
					if content, ok := delta["content"].(string); ok && content != "" {
						stream <- StreamChunk{Data: content}
					}
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		stream <- StreamChunk{Error: err}
		return err
	}

	return nil
}

// HealthCheck performs a minimal completion round trip
func (t *TogetherProvider) HealthCheck(ctx context.Context) error {
	req := &UnifiedRequest{
		Model: "meta-llama/Llama-3.3-70B-Instruct-Turbo-Free",
		Messages: []Message{
			{Role: "user", Content: "Hi"},
		},
		MaxTokens: 10,
	}

	providerReq, err := t.TranslateRequest(ctx, req)
	if err != nil {
		return fmt.Errorf("health check translation failed: %w", err)
	}

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	resp, err := t.Execute(healthCtx, providerReq)
	if err != nil {
		return fmt.Errorf("health check request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// GetInfo returns provider information
func (t *TogetherProvider) GetInfo() ProviderInfo {
	return ProviderInfo{
		Name:           "Together",
		Version:        "1.0",
		SupportsStream: true,
		RequiresAuth:   true,
		MaxRequestSize: 4 * 1024 * 1024, // 4MB
	}
}
