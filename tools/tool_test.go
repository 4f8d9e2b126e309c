package tools

import (
	"context"
	"strings"
	"testing"
)

func TestDispatcherDefinitions(t *testing.T) {
	d := NewDispatcher(Config{})
	defs := d.Definitions()
	if len(defs) != 6 {
		t.Fatalf("definitions = %d, want 6", len(defs))
	}

	names := make(map[string]bool)
	for _, def := range defs {
		if def.Type != "function" {
			t.Errorf("definition type = %q", def.Type)
		}
		names[def.Function.Name] = true
	}
	for _, want := range []string{
		"get_real_weather", "get_weather", "get_real_time",
		"get_current_time", "search_products", "search_wikipedia",
	} {
		if !names[want] {
			t.Errorf("missing definition %q", want)
		}
	}
	// Real-data tools come first so the model prefers them.
	if defs[0].Function.Name != "get_real_weather" || defs[1].Function.Name != "get_real_time" {
		t.Errorf("real tools not listed first: %q, %q", defs[0].Function.Name, defs[1].Function.Name)
	}
}

func TestExecuteAliasMatching(t *testing.T) {
	d := NewDispatcher(Config{})
	ctx := context.Background()

	tests := []struct {
		reported string
		wantKey  string
	}{
		{"get_weather", "temperature"},
		{"get the current weather in a city", "temperature"},
		{"get_current_time", "time"},
		{"search_products", "results"},
	}
	for _, tc := range tests {
		result := d.Execute(ctx, tc.reported, map[string]interface{}{
			"location": "Tokyo", "query": "watch",
		})
		if _, ok := result[tc.wantKey]; !ok {
			t.Errorf("Execute(%q) = %v, missing %q", tc.reported, result, tc.wantKey)
		}
	}
}

func TestExecuteUnknownFunction(t *testing.T) {
	d := NewDispatcher(Config{})
	result := d.Execute(context.Background(), "launch_rocket", map[string]interface{}{"query": "moon"})
	errMsg, _ := result["error"].(string)
	if !strings.Contains(errMsg, "not implemented") {
		t.Errorf("result = %v", result)
	}
}

func TestExecuteGreetingGuard(t *testing.T) {
	d := NewDispatcher(Config{})
	for _, args := range []map[string]interface{}{
		{"query": "hello"},
		{"location": "hi"},
		{"query": "good morning"},
	} {
		result := d.Execute(context.Background(), "get_weather", args)
		errMsg, _ := result["error"].(string)
		if !strings.Contains(errMsg, "greeting") {
			t.Errorf("Execute(%v) = %v, want greeting refusal", args, result)
		}
	}

	// A real location is not a greeting.
	result := d.Execute(context.Background(), "get_weather", map[string]interface{}{"location": "Tokyo"})
	if _, ok := result["temperature"]; !ok {
		t.Errorf("Tokyo lookup blocked: %v", result)
	}
}

func TestExecuteFallsBackWithoutWeatherKey(t *testing.T) {
	d := NewDispatcher(Config{})
	result := d.Execute(context.Background(), "get_real_weather", map[string]interface{}{"location": "London"})

	if result["temperature"] != "18°C" {
		t.Errorf("temperature = %v, want simulated London value", result["temperature"])
	}
	if result["condition"] != "Rainy" {
		t.Errorf("condition = %v", result["condition"])
	}
}

func TestExecuteTimeKeepsFallbackNote(t *testing.T) {
	d := NewDispatcher(Config{})
	result := d.Execute(context.Background(), "get_real_time", map[string]interface{}{"location": "Paris"})

	note, _ := result["note"].(string)
	if !strings.Contains(note, "API key not provided") {
		t.Errorf("self-fallback note was discarded: %v", result)
	}
	if _, ok := result["time"]; !ok {
		t.Errorf("simulated time data missing: %v", result)
	}
}

func TestArgHelpers(t *testing.T) {
	args := map[string]interface{}{
		"s":     "value",
		"empty": "",
		"n":     float64(3),
	}
	if got := argString(args, "s", "d"); got != "value" {
		t.Errorf("argString = %q", got)
	}
	if got := argString(args, "empty", "d"); got != "d" {
		t.Errorf("empty string should fall back, got %q", got)
	}
	if got := argString(args, "missing", "d"); got != "d" {
		t.Errorf("missing key should fall back, got %q", got)
	}
	if got := argInt(args, "n", 7); got != 3 {
		t.Errorf("argInt = %d", got)
	}
	if got := argInt(args, "missing", 7); got != 7 {
		t.Errorf("argInt default = %d", got)
	}
}
