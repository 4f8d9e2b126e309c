// Package tools implements the function-calling integrations the model may
// invoke during completion generation: weather, time, product search, and
// Wikipedia lookup, each with a simulated fallback where one exists.
package tools

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/bniladridas/snapenhanceai/providers"
)

// Result is a tool invocation outcome. An "error" key marks failure; the
// model receives the map JSON-encoded either way.
type Result map[string]interface{}

// Tool is one callable integration.
type Tool interface {
	// Name returns the canonical function name advertised to the model
	Name() string

	// Definition returns the function schema for the tools array
	Definition() providers.ToolFunction

	// Invoke executes the tool with the model-supplied arguments
	Invoke(ctx context.Context, args map[string]interface{}) Result
}

// Config carries the keys gating the real-data integrations. Empty keys make
// the corresponding tool fall back to simulated data.
type Config struct {
	OpenWeatherMapKey string
	TimeZoneDBKey     string
	OpenCageKey       string

	// HTTPClient is used for all outbound tool calls. Nil selects a client
	// with a 5 second timeout.
	HTTPClient *http.Client
}

func (c Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 5 * time.Second}
}

// category groups a preferred tool with its aliases and simulated fallback.
// The model sometimes returns a description or paraphrase instead of the
// canonical function name, so matching is substring-based over aliases.
type category struct {
	name     string
	aliases  []string
	primary  Tool
	fallback Tool
}

// Dispatcher routes model-directed function calls to tools.
type Dispatcher struct {
	categories []category
	all        []Tool
}

// NewDispatcher creates a dispatcher with the full tool set.
func NewDispatcher(cfg Config) *Dispatcher {
	realWeather := &RealWeatherTool{cfg: cfg}
	simWeather := &SimulatedWeatherTool{}
	realTime := &RealTimeTool{cfg: cfg}
	simTime := &SimulatedTimeTool{}
	productSearch := &ProductSearchTool{}
	wikipedia := &WikipediaTool{cfg: cfg}

	return &Dispatcher{
		categories: []category{
			{
				name: "weather",
				aliases: []string{
					"weather", "get weather", "current weather", "get the current weather",
					"get_weather", "get_real_weather", "real weather", "real-time weather",
				},
				primary:  realWeather,
				fallback: simWeather,
			},
			{
				name: "time",
				aliases: []string{
					"time", "current time", "get time", "get the current time",
					"get_current_time", "get_real_time", "accurate time", "real time",
				},
				primary:  realTime,
				fallback: simTime,
			},
			{
				name: "products",
				aliases: []string{
					"products", "search products", "search for products", "get products",
					"find products", "search_products",
				},
				primary: productSearch,
			},
			{
				name: "wikipedia",
				aliases: []string{
					"wikipedia search", "search wikipedia", "wiki search", "search wiki",
					"search_wikipedia", "lookup wikipedia", "find on wikipedia", "wikipedia article",
				},
				primary: wikipedia,
			},
		},
		all: []Tool{realWeather, realTime, simWeather, simTime, productSearch, wikipedia},
	}
}

// Definitions returns the function schemas for the chat-completions tools
// array, real-data tools first so the model prefers them.
func (d *Dispatcher) Definitions() []providers.Tool {
	defs := make([]providers.Tool, 0, len(d.all))
	for _, tool := range d.all {
		defs = append(defs, providers.Tool{
			Type:     "function",
			Function: tool.Definition(),
		})
	}
	return defs
}

// greetingTerms are inputs that never warrant a tool call. Models
// occasionally emit a function call for "hi"; refuse those outright.
var greetingTerms = []string{
	"hi", "hello", "hey", "greetings", "good morning", "good afternoon",
	"good evening", "how are you", "what's up", "nice to meet you",
}

func isGreeting(args map[string]interface{}) bool {
	query := ""
	if q, ok := args["query"].(string); ok {
		query = strings.ToLower(q)
	} else if loc, ok := args["location"].(string); ok {
		query = strings.ToLower(loc)
	}
	for _, term := range greetingTerms {
		if term == query {
			return true
		}
	}
	return false
}

// match finds the category for a reported function name.
func (d *Dispatcher) match(functionName string) *category {
	name := strings.ToLower(functionName)
	for i := range d.categories {
		for _, alias := range d.categories[i].aliases {
			if strings.Contains(name, alias) {
				return &d.categories[i]
			}
		}
	}
	return nil
}

// Execute runs the tool the model asked for. It never returns a Go error:
// failures travel back to the model as an "error" key so the follow-up
// completion can explain them.
func (d *Dispatcher) Execute(ctx context.Context, functionName string, args map[string]interface{}) Result {
	if isGreeting(args) {
		log.Printf("[tools] prevented function call for simple greeting")
		return Result{
			"error":   "Function calls are not needed for simple greetings",
			"message": "This is a simple greeting that doesn't require API data",
		}
	}

	cat := d.match(functionName)
	if cat == nil {
		return Result{"error": "Function " + functionName + " not implemented"}
	}
	log.Printf("[tools] mapped function %q to category %q", functionName, cat.name)

	result := cat.primary.Invoke(ctx, args)

	// Real-data tools report a missing key as an error; fall back to the
	// simulated twin so the conversation still gets an answer.
	if cat.fallback != nil && missingKey(result) {
		log.Printf("[tools] falling back to simulated %s data (no API key)", cat.name)
		return cat.fallback.Invoke(ctx, args)
	}
	return result
}

// missingKey matches only the "error" key: tools that self-fall-back,
// like the time tool, explain themselves in "note" and already carry a
// usable result.
func missingKey(result Result) bool {
	msg, ok := result["error"].(string)
	return ok && strings.Contains(msg, "API key not provided")
}

// argString reads a string argument with a default.
func argString(args map[string]interface{}, key, def string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return def
}

// argInt reads a numeric argument with a default. JSON numbers decode as
// float64.
func argInt(args map[string]interface{}, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

func timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}
