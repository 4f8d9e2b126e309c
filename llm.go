package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/bniladridas/snapenhanceai/models"
	"github.com/bniladridas/snapenhanceai/providers"
	"github.com/bniladridas/snapenhanceai/tools"
)

// Wired in main before the server starts.
var (
	modelRegistry  *models.Registry
	llmProvider    providers.Provider
	toolDispatcher *tools.Dispatcher
)

// toolRetryDelay is the base backoff between retries of the follow-up
// completion after a tool call.
var toolRetryDelay = 2 * time.Second

const toolRetryLimit = 3

// relayError carries the HTTP status the error envelope should be
// served with.
type relayError struct {
	status  int
	message string
}

func (e *relayError) Error() string { return e.message }

func badRequest(format string, args ...interface{}) *relayError {
	return &relayError{status: http.StatusBadRequest, message: fmt.Sprintf(format, args...)}
}

// GenerateRequest is the JSON body accepted by POST /generate.
type GenerateRequest struct {
	Prompt      string              `json:"prompt"`
	Model       string              `json:"model,omitempty"`
	Messages    []providers.Message `json:"messages,omitempty"`
	Temperature *float64            `json:"temperature,omitempty"`
	QuickMode   *bool               `json:"quick_mode,omitempty"`
}

// FunctionExecuted reports a tool the relay ran on the model's behalf.
type FunctionExecuted struct {
	Name   string       `json:"name"`
	Result tools.Result `json:"result"`
}

// GenerateResponse mirrors the upstream chat completion envelope so the
// client reads relayed and direct responses the same way. Message
// content in Choices is sanitized HTML, not raw Markdown.
type GenerateResponse struct {
	ID               string             `json:"id,omitempty"`
	Object           string             `json:"object,omitempty"`
	Created          int64              `json:"created,omitempty"`
	Model            string             `json:"model,omitempty"`
	Choices          []providers.Choice `json:"choices"`
	Usage            providers.Usage    `json:"usage"`
	FunctionExecuted *FunctionExecuted  `json:"function_executed,omitempty"`
}

// Generate runs one chat turn: validate, frame the prompt, call the
// upstream API, run at most one tool round trip, and render the final
// content to HTML.
func Generate(ctx context.Context, requestID string, req *GenerateRequest) (*GenerateResponse, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" && len(req.Messages) == 0 {
		return nil, badRequest("Prompt is required")
	}

	modelID := req.Model
	if modelID == "" {
		modelID = modelRegistry.Default().ID
	}
	model, ok := modelRegistry.Get(modelID)
	if !ok {
		return nil, badRequest("Unknown model: %s", modelID)
	}

	quick := true
	if req.QuickMode != nil {
		quick = *req.QuickMode
	}

	if DEMO_MODE {
		return demoResponse(model, prompt), nil
	}

	messages := buildMessages(model, prompt, req.Messages, quick)

	maxTokens := model.MaxTokens
	if quick {
		maxTokens = model.MaxTokensQuick
	}
	promptTokens := 0
	for _, m := range messages {
		promptTokens += countTokens(m.Content)
	}
	maxTokens = clampMaxTokens(promptTokens, maxTokens)

	temperature := resolveTemperature(model, req.Temperature)
	unified := &providers.UnifiedRequest{
		Model:       model.ID,
		Messages:    messages,
		Temperature: &temperature,
		MaxTokens:   maxTokens,
		TopP:        model.TopP,
		QuickMode:   quick,
	}
	if model.SupportsFunctions && toolDispatcher != nil {
		unified.Tools = toolDispatcher.Definitions()
	}

	resp, err := callUpstream(ctx, unified)
	if err != nil {
		return nil, err
	}

	out := &GenerateResponse{
		ID:      resp.ID,
		Object:  resp.Object,
		Created: resp.Created,
		Model:   resp.Model,
		Choices: resp.Choices,
		Usage:   resp.Usage,
	}

	if len(resp.Choices) > 0 {
		if name, args, ok := extractFunctionCall(resp.Choices[0].Message); ok {
			final, executed := runToolTurn(ctx, requestID, unified, resp.Choices[0].Message, name, args)
			out.FunctionExecuted = executed
			if final != nil {
				out.ID = final.ID
				out.Object = final.Object
				out.Created = final.Created
				out.Model = final.Model
				out.Choices = final.Choices
				out.Usage = final.Usage
			}
		}
	}

	if len(out.Choices) > 0 && out.Choices[0].Message.Content != "" {
		out.Choices[0].Message.Content = renderMarkdown(out.Choices[0].Message.Content)
	}

	return out, nil
}

// buildMessages assembles the message list sent upstream: the caller's
// messages (or the bare prompt), plus a routed system prompt when one
// is not already present. DeepSeek models get their reasoning wrapper.
func buildMessages(model *models.Model, prompt string, given []providers.Message, quick bool) []providers.Message {
	var messages []providers.Message
	if len(given) > 0 {
		messages = given
	} else {
		messages = []providers.Message{{Role: "user", Content: prompt}}
	}

	if isDeepSeekModel(model.ID) {
		messages = shapeDeepSeekMessages(messages)
	}

	if prompt == "" && len(given) > 0 {
		for i := len(given) - 1; i >= 0; i-- {
			if given[i].Role == "user" {
				prompt = given[i].Content
				break
			}
		}
	}

	if !hasSystemMessage(messages) && prompt != "" {
		system := providers.Message{Role: "system", Content: systemMessageFor(classifyPrompt(prompt), quick)}
		messages = append([]providers.Message{system}, messages...)
	}
	return messages
}

func hasSystemMessage(messages []providers.Message) bool {
	for _, m := range messages {
		if m.Role == "system" {
			return true
		}
	}
	return false
}

// resolveTemperature uses the model default unless the caller supplied
// one, clamped to [0, 1].
func resolveTemperature(model *models.Model, requested *float64) float64 {
	if requested == nil {
		return model.Temperature
	}
	t := *requested
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// callUpstream performs one translate/execute/translate round trip and
// maps upstream failures to relay errors.
func callUpstream(ctx context.Context, unified *providers.UnifiedRequest) (*providers.UnifiedResponse, error) {
	preq, err := llmProvider.TranslateRequest(ctx, unified)
	if err != nil {
		return nil, &relayError{status: http.StatusBadGateway, message: err.Error()}
	}
	presp, err := llmProvider.Execute(ctx, preq)
	if err != nil {
		return nil, &relayError{status: http.StatusBadGateway, message: "Together API error: " + err.Error()}
	}
	if presp.StatusCode != http.StatusOK {
		status := presp.StatusCode
		if status < 400 {
			status = http.StatusBadGateway
		}
		return nil, &relayError{status: status, message: "Together API error: " + providers.ErrorMessage(presp)}
	}
	uresp, err := llmProvider.TranslateResponse(ctx, presp)
	if err != nil {
		return nil, &relayError{status: http.StatusBadGateway, message: "malformed upstream response: " + err.Error()}
	}
	return uresp, nil
}

// extractFunctionCall pulls a tool invocation out of an assistant
// message, handling both the tool_calls array and the legacy
// function_call field.
func extractFunctionCall(msg providers.Message) (name string, args map[string]interface{}, ok bool) {
	var rawArgs string
	switch {
	case len(msg.ToolCalls) > 0:
		name = msg.ToolCalls[0].Function.Name
		rawArgs = msg.ToolCalls[0].Function.Arguments
	case msg.FunctionCall != nil:
		name = msg.FunctionCall.Name
		rawArgs = msg.FunctionCall.Arguments
	default:
		return "", nil, false
	}

	args = make(map[string]interface{})
	if rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			log.Printf("[llm] unparseable arguments for %s: %v", name, err)
		}
	}
	return name, args, true
}

// runToolTurn executes the requested tool and asks the model to phrase
// the result. If the follow-up completion keeps failing, the raw tool
// result is served directly so the user still gets an answer.
func runToolTurn(ctx context.Context, requestID string, unified *providers.UnifiedRequest, assistant providers.Message, name string, args map[string]interface{}) (*providers.UnifiedResponse, *FunctionExecuted) {
	log.Printf("[llm] %s executing tool %s", requestID, name)
	result := toolDispatcher.Execute(ctx, name, args)
	executed := &FunctionExecuted{Name: name, Result: result}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		resultJSON = []byte(fmt.Sprintf("%v", result))
	}

	followup := *unified
	followup.Tools = nil
	followup.Messages = append(append([]providers.Message{}, unified.Messages...), assistant)
	if len(assistant.ToolCalls) > 0 {
		followup.Messages = append(followup.Messages, providers.Message{
			Role:       "tool",
			ToolCallID: assistant.ToolCalls[0].ID,
			Name:       name,
			Content:    string(resultJSON),
		})
	} else {
		followup.Messages = append(followup.Messages, providers.Message{
			Role:    "function",
			Name:    name,
			Content: string(resultJSON),
		})
	}

	var lastErr error
	for attempt := 0; attempt < toolRetryLimit; attempt++ {
		resp, err := callUpstream(ctx, &followup)
		if err == nil {
			return resp, executed
		}
		lastErr = err
		log.Printf("[llm] %s tool follow-up attempt %d failed: %v", requestID, attempt+1, err)

		// Any failure here gets the linear backoff, rate limiting included.
		if attempt < toolRetryLimit-1 {
			select {
			case <-ctx.Done():
				return fallbackToolResponse(unified, name, result, resultJSON, requestID, ctx.Err()), executed
			case <-time.After(toolRetryDelay * time.Duration(attempt+1)):
			}
		}
	}

	return fallbackToolResponse(unified, name, result, resultJSON, requestID, lastErr), executed
}

// fallbackToolResponse packages a raw tool result as an assistant
// message when the follow-up completion could not be obtained.
func fallbackToolResponse(unified *providers.UnifiedRequest, name string, result tools.Result, resultJSON []byte, requestID string, cause error) *providers.UnifiedResponse {
	log.Printf("[llm] %s serving raw tool result after follow-up failures: %v", requestID, cause)
	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		pretty = resultJSON
	}
	return &providers.UnifiedResponse{
		Model: unified.Model,
		Choices: []providers.Choice{{
			Index: 0,
			Message: providers.Message{
				Role:    "assistant",
				Content: fmt.Sprintf("I looked that up with %s:\n\n```json\n%s\n```", name, pretty),
			},
			FinishReason: "stop",
		}},
	}
}

// demoResponse serves a canned completion so the UI can be exercised
// without an API key.
func demoResponse(model *models.Model, prompt string) *GenerateResponse {
	content := fmt.Sprintf("**Demo mode** is on, so no request was sent to the API.\n\n"+
		"You asked: %q\n\nSet `TOGETHER_API_KEY` and restart to get real answers.", prompt)
	return &GenerateResponse{
		ID:      "demo-" + generateRequestID(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model.ID,
		Choices: []providers.Choice{{
			Index:        0,
			Message:      providers.Message{Role: "assistant", Content: renderMarkdown(content)},
			FinishReason: "stop",
		}},
	}
}
