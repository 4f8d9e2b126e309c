package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"
)

// StartHTTPServer wires the chat routes and blocks serving them.
func StartHTTPServer(port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", handleRoot)
	mux.HandleFunc("/generate", handleGenerate)
	mux.HandleFunc("/api/models", handleModels)
	mux.HandleFunc("/health", handleHealth)

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	log.Printf("[http] chat server listening on port %s", port)
	return server.ListenAndServe()
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[http] failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(chatPage))
}

// handleGenerate relays one chat turn to the upstream API.
func handleGenerate(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if !rateLimitAllow(r.RemoteAddr) {
		writeError(w, http.StatusTooManyRequests, "Rate limit exceeded, slow down")
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}

	requestID := generateRequestID()
	start := time.Now()
	resp, err := Generate(r.Context(), requestID, &req)
	elapsed := time.Since(start)

	entry := ChatAuditEntry{
		RequestID:       requestID,
		Model:           req.Model,
		PromptSignature: generateSignature(req.Prompt),
	}

	if err != nil {
		status := http.StatusInternalServerError
		var rerr *relayError
		if errors.As(err, &rerr) {
			status = rerr.status
		}
		log.Printf("[http] %s generate failed after %v: %v", requestID, elapsed, err)
		entry.Error = err.Error()
		LogChatTurn(entry)
		writeError(w, status, err.Error())
		return
	}

	entry.Model = resp.Model
	entry.PromptTokens = resp.Usage.PromptTokens
	entry.CompletionTokens = resp.Usage.CompletionTokens
	if len(resp.Choices) > 0 {
		entry.ResponseSignature = generateSignature(resp.Choices[0].Message.Content)
	}
	if resp.FunctionExecuted != nil {
		entry.ToolName = resp.FunctionExecuted.Name
	}
	LogChatTurn(entry)

	log.Printf("[http] %s generate ok model=%s tokens=%d/%d in %v",
		requestID, resp.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens, elapsed)
	writeJSON(w, http.StatusOK, resp)
}

// handleModels lists the configured models for the UI selector.
func handleModels(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	list := modelRegistry.List()
	out := make([]map[string]interface{}, 0, len(list))
	for _, m := range list {
		out = append(out, map[string]interface{}{
			"id":                 m.ID,
			"name":               m.Name,
			"temperature":        m.Temperature,
			"top_p":              m.TopP,
			"max_tokens":         m.MaxTokens,
			"supports_functions": m.SupportsFunctions,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"models": out})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"demo_mode": DEMO_MODE,
		"models":    len(modelRegistry.List()),
	})
}
