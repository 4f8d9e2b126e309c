package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/bniladridas/snapenhanceai/providers"
)

const (
	openCageURL   = "https://api.opencagedata.com/geocode/v1/json"
	timeZoneDBURL = "https://api.timezonedb.com/v2.1/get-time-zone"
)

// RealTimeTool resolves a location to coordinates via OpenCage, then asks
// TimeZoneDB for the local time. Missing keys or upstream failures fall back
// to the simulated table, flagged with a "note" so the model can say so.
type RealTimeTool struct {
	cfg Config
}

func (t *RealTimeTool) Name() string { return "get_real_time" }

func (t *RealTimeTool) Definition() providers.ToolFunction {
	return providers.ToolFunction{
		Name:        t.Name(),
		Description: "Get accurate real-time data for a location using TimeZoneDB API with precise timezone information",
		Parameters:  timeParameters(),
	}
}

func timeParameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"location": map[string]interface{}{
				"type":        "string",
				"description": "The location to get the current time for, e.g. 'New York' or 'Tokyo'",
			},
			"format": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"12h", "24h"},
				"description": "The time format to use (12-hour or 24-hour)",
			},
		},
		"required": []string{"location"},
	}
}

func (t *RealTimeTool) Invoke(ctx context.Context, args map[string]interface{}) Result {
	location := argString(args, "location", "")
	format := argString(args, "format", "24h")
	sim := &SimulatedTimeTool{}

	if t.cfg.TimeZoneDBKey == "" {
		return withNote("Using simulated data (TimeZoneDB API key not provided)", sim.Invoke(ctx, args))
	}
	if t.cfg.OpenCageKey == "" {
		return withNote("Using simulated data (OpenCage API key not provided)", sim.Invoke(ctx, args))
	}

	lat, lng, formatted, err := t.geocode(ctx, location)
	if err != nil {
		log.Printf("[tools] geocoding %q failed: %v", location, err)
		return withNote("Error getting coordinates: "+err.Error(), sim.Invoke(ctx, args))
	}
	log.Printf("[tools] found coordinates for %q: %g, %g (%s)", location, lat, lng, formatted)

	query := url.Values{}
	query.Set("key", t.cfg.TimeZoneDBKey)
	query.Set("format", "json")
	query.Set("by", "position")
	query.Set("lat", fmt.Sprintf("%g", lat))
	query.Set("lng", fmt.Sprintf("%g", lng))

	req, err := http.NewRequestWithContext(ctx, "GET", timeZoneDBURL+"?"+query.Encode(), nil)
	if err != nil {
		return timeFallback(ctx, sim, args, "Error accessing timezone API: "+err.Error())
	}

	resp, err := t.cfg.httpClient().Do(req)
	if err != nil {
		return timeFallback(ctx, sim, args, "Error accessing timezone API: "+err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return timeFallback(ctx, sim, args, fmt.Sprintf("Could not retrieve timezone data: %d", resp.StatusCode))
	}

	var data struct {
		Status       string `json:"status"`
		Message      string `json:"message"`
		Timestamp    int64  `json:"timestamp"`
		GmtOffset    int    `json:"gmtOffset"`
		ZoneName     string `json:"zoneName"`
		Abbreviation string `json:"abbreviation"`
		Dst          string `json:"dst"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return timeFallback(ctx, sim, args, "Error accessing timezone API: "+err.Error())
	}

	if data.Status != "OK" {
		msg := data.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return timeFallback(ctx, sim, args, "TimeZoneDB API error: "+msg)
	}

	// TimeZoneDB's timestamp is the local epoch: UTC plus the zone offset.
	local := time.Unix(data.Timestamp, 0).UTC()
	timeStr := local.Format("15:04")
	if format == "12h" {
		timeStr = local.Format("03:04 PM")
	}

	offsetHours := float64(data.GmtOffset) / 3600
	sign := "+"
	if offsetHours < 0 {
		sign = ""
	}
	dst := "No"
	if data.Dst == "1" {
		dst = "Yes"
	}

	return Result{
		"location":              location,
		"time":                  timeStr,
		"date":                  local.Format("Monday, January 02, 2006"),
		"timezone":              data.ZoneName,
		"timezone_abbreviation": data.Abbreviation,
		"gmt_offset":            fmt.Sprintf("GMT%s%g", sign, offsetHours),
		"dst":                   dst,
		"format":                format,
	}
}

func (t *RealTimeTool) geocode(ctx context.Context, location string) (lat, lng float64, formatted string, err error) {
	query := url.Values{}
	query.Set("q", location)
	query.Set("key", t.cfg.OpenCageKey)
	query.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, "GET", openCageURL+"?"+query.Encode(), nil)
	if err != nil {
		return 0, 0, "", err
	}

	resp, err := t.cfg.httpClient().Do(req)
	if err != nil {
		return 0, 0, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, "", fmt.Errorf("status %d", resp.StatusCode)
	}

	var data struct {
		Results []struct {
			Geometry struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"geometry"`
			Formatted string `json:"formatted"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, 0, "", err
	}
	if len(data.Results) == 0 {
		return 0, 0, "", fmt.Errorf("no geocoding results found for %q", location)
	}

	result := data.Results[0]
	return result.Geometry.Lat, result.Geometry.Lng, result.Formatted, nil
}

func withNote(note string, result Result) Result {
	result["note"] = note
	return result
}

func timeFallback(ctx context.Context, sim *SimulatedTimeTool, args map[string]interface{}, errMsg string) Result {
	result := sim.Invoke(ctx, args)
	result["error"] = errMsg
	result["note"] = "Using simulated data as fallback"
	return result
}

// SimulatedTimeTool serves fixture timezone offsets.
type SimulatedTimeTool struct{}

func (t *SimulatedTimeTool) Name() string { return "get_current_time" }

func (t *SimulatedTimeTool) Definition() providers.ToolFunction {
	return providers.ToolFunction{
		Name:        t.Name(),
		Description: "Get simulated time data (only use if real-time data is unavailable)",
		Parameters:  timeParameters(),
	}
}

// simulatedOffsets maps locations to their UTC offset in hours. Daylight
// saving values approximate northern-hemisphere summer.
var simulatedOffsets = map[string]float64{
	// North America
	"New York": -4, "Los Angeles": -7, "Chicago": -5, "Toronto": -4,
	"Mexico City": -6, "USA": -5, "Canada": -5, "Mexico": -6,
	// Europe
	"London": 1, "Paris": 2, "Berlin": 2, "Rome": 2, "Madrid": 2,
	"Moscow": 3, "UK": 1, "France": 2, "Germany": 2, "Italy": 2,
	"Spain": 2, "Russia": 3,
	// Asia
	"Tokyo": 9, "Beijing": 8, "Shanghai": 8, "Mumbai": 5.5, "Delhi": 5.5,
	"Bangalore": 5.5, "Kolkata": 5.5, "Chennai": 5.5, "Hyderabad": 5.5,
	"Singapore": 8, "Hong Kong": 8, "Seoul": 9, "Dubai": 4, "Japan": 9,
	"China": 8, "India": 5.5, "South Korea": 9, "UAE": 4,
	// Oceania
	"Sydney": 10, "Melbourne": 10, "Brisbane": 10, "Perth": 8,
	"Auckland": 12, "Australia": 10, "New Zealand": 12,
	// South America
	"Sao Paulo": -3, "Rio de Janeiro": -3, "Buenos Aires": -3, "Lima": -5,
	"Bogota": -5, "Brazil": -3, "Argentina": -3, "Peru": -5, "Colombia": -5,
	// Africa
	"Cairo": 2, "Lagos": 1, "Johannesburg": 2, "Nairobi": 3, "Cape Town": 2,
	"Egypt": 2, "Nigeria": 1, "South Africa": 2, "Kenya": 3,
}

var timezoneNames = map[float64]string{
	-8:  "PST (Pacific Standard Time)",
	-7:  "PDT (Pacific Daylight Time)",
	-6:  "CST (Central Standard Time)",
	-5:  "EST (Eastern Standard Time)",
	-4:  "EDT (Eastern Daylight Time)",
	0:   "GMT (Greenwich Mean Time)",
	1:   "BST/CET (British Summer Time/Central European Time)",
	2:   "CEST (Central European Summer Time)",
	3:   "MSK (Moscow Standard Time)",
	4:   "GST (Gulf Standard Time)",
	5:   "PKT (Pakistan Standard Time)",
	5.5: "IST (Indian Standard Time)",
	8:   "CST/SGT (China Standard Time/Singapore Time)",
	9:   "JST (Japan Standard Time)",
	10:  "AEST (Australian Eastern Standard Time)",
	12:  "NZST (New Zealand Standard Time)",
}

// simulatedLocations fixes the lookup order; ranging over the map would
// make ambiguous partial matches nondeterministic.
var simulatedLocations = func() []string {
	keys := make([]string, 0, len(simulatedOffsets))
	for key := range simulatedOffsets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}()

// lookupOffset finds the offset for a location, trying an exact
// case-insensitive match before a partial one. Unknown locations get UTC.
func lookupOffset(location string) (float64, bool) {
	lower := strings.ToLower(location)
	for _, key := range simulatedLocations {
		if strings.ToLower(key) == lower {
			return simulatedOffsets[key], true
		}
	}
	for _, key := range simulatedLocations {
		keyLower := strings.ToLower(key)
		if strings.Contains(keyLower, lower) || strings.Contains(lower, keyLower) {
			return simulatedOffsets[key], true
		}
	}
	return 0, false
}

func (t *SimulatedTimeTool) Invoke(ctx context.Context, args map[string]interface{}) Result {
	location := argString(args, "location", "")
	format := argString(args, "format", "24h")

	offset, _ := lookupOffset(location)

	sign := "+"
	if offset < 0 {
		sign = ""
	}
	name, ok := timezoneNames[offset]
	if !ok {
		name = fmt.Sprintf("UTC%s%g", sign, offset)
	}

	local := time.Now().UTC().Add(time.Duration(offset * float64(time.Hour)))

	timeStr := local.Format("15:04")
	if format == "12h" {
		timeStr = local.Format("03:04 PM")
	}

	return Result{
		"location":      location,
		"time":          timeStr,
		"date":          local.Format("Monday, January 02, 2006"),
		"timezone":      fmt.Sprintf("UTC%s%g", sign, offset),
		"timezone_name": name,
		"format":        format,
	}
}
