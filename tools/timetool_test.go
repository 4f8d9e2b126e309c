package tools

import (
	"context"
	"strings"
	"testing"
)

func TestSimulatedTimeKnownLocation(t *testing.T) {
	tool := &SimulatedTimeTool{}
	result := tool.Invoke(context.Background(), map[string]interface{}{"location": "Tokyo"})

	if result["location"] != "Tokyo" {
		t.Errorf("location = %v", result["location"])
	}
	if result["timezone"] != "UTC+9" {
		t.Errorf("timezone = %v", result["timezone"])
	}
	name, _ := result["timezone_name"].(string)
	if !strings.Contains(name, "JST") {
		t.Errorf("timezone_name = %v", name)
	}
	if _, ok := result["time"].(string); !ok {
		t.Errorf("time missing: %v", result)
	}
}

func TestSimulatedTimePartialMatch(t *testing.T) {
	tool := &SimulatedTimeTool{}
	// "new york city" should partial-match the "New York" fixture.
	result := tool.Invoke(context.Background(), map[string]interface{}{"location": "new york"})
	if result["timezone"] != "UTC-4" {
		t.Errorf("timezone = %v", result["timezone"])
	}
}

func TestSimulatedTimeUnknownLocationDefaultsToUTC(t *testing.T) {
	tool := &SimulatedTimeTool{}
	result := tool.Invoke(context.Background(), map[string]interface{}{"location": "Atlantis"})
	if result["timezone"] != "UTC+0" {
		t.Errorf("timezone = %v", result["timezone"])
	}
}

func TestSimulatedTime12HourFormat(t *testing.T) {
	tool := &SimulatedTimeTool{}
	result := tool.Invoke(context.Background(), map[string]interface{}{
		"location": "London", "format": "12h",
	})
	timeStr, _ := result["time"].(string)
	if !strings.HasSuffix(timeStr, "AM") && !strings.HasSuffix(timeStr, "PM") {
		t.Errorf("time = %q, want 12-hour clock", timeStr)
	}
}

func TestLookupOffsetAmbiguousMatchIsStable(t *testing.T) {
	// "south" partial-matches both South Africa and South Korea; the
	// alphabetically first fixture must win on every call.
	for i := 0; i < 10; i++ {
		offset, ok := lookupOffset("south")
		if !ok {
			t.Fatal("no match for ambiguous location")
		}
		if offset != 2 {
			t.Fatalf("call %d resolved to offset %v, want South Africa's UTC+2", i, offset)
		}
	}
}

func TestRealTimeFallsBackWithoutKeys(t *testing.T) {
	tool := &RealTimeTool{cfg: Config{}}
	result := tool.Invoke(context.Background(), map[string]interface{}{"location": "Paris"})

	note, _ := result["note"].(string)
	if !strings.Contains(note, "API key not provided") {
		t.Errorf("note = %q", note)
	}
	if result["timezone"] != "UTC+2" {
		t.Errorf("timezone = %v, want simulated Paris offset", result["timezone"])
	}
}
