package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bniladridas/snapenhanceai/providers"
)

const openWeatherMapURL = "https://api.openweathermap.org/data/2.5/weather"

// RealWeatherTool fetches current conditions from OpenWeatherMap.
type RealWeatherTool struct {
	cfg Config

	// baseURL overrides the live endpoint in tests.
	baseURL string
}

func (t *RealWeatherTool) endpoint() string {
	if t.baseURL != "" {
		return t.baseURL
	}
	return openWeatherMapURL
}

func (t *RealWeatherTool) Name() string { return "get_real_weather" }

func (t *RealWeatherTool) Definition() providers.ToolFunction {
	return providers.ToolFunction{
		Name:        t.Name(),
		Description: "Get real-time weather data for a location using OpenWeatherMap API with current conditions, temperature, humidity, wind, and more",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"location": map[string]interface{}{
					"type":        "string",
					"description": "The city name, e.g. London, Tokyo, New York",
				},
				"unit": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"celsius", "fahrenheit"},
					"description": "The unit of temperature to use. Infer this from the user's location.",
				},
			},
			"required": []string{"location"},
		},
	}
}

// openWeatherResponse is the subset of the OpenWeatherMap payload we render.
type openWeatherResponse struct {
	Name  string `json:"name"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Visibility int `json:"visibility"`
	Timezone   int `json:"timezone"`
	Message    string `json:"message"`
}

func (t *RealWeatherTool) Invoke(ctx context.Context, args map[string]interface{}) Result {
	location := argString(args, "location", "")
	unit := argString(args, "unit", "celsius")

	if t.cfg.OpenWeatherMapKey == "" {
		return Result{
			"error":     "OpenWeatherMap API key not provided",
			"location":  location,
			"timestamp": timestamp(),
		}
	}

	units := "metric"
	if unit == "fahrenheit" {
		units = "imperial"
	}

	query := url.Values{}
	query.Set("q", location)
	query.Set("units", units)
	query.Set("appid", t.cfg.OpenWeatherMapKey)

	req, err := http.NewRequestWithContext(ctx, "GET", t.endpoint()+"?"+query.Encode(), nil)
	if err != nil {
		return weatherError(location, err)
	}

	resp, err := t.cfg.httpClient().Do(req)
	if err != nil {
		return weatherError(location, err)
	}
	defer resp.Body.Close()

	var data openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return weatherError(location, err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := data.Message
		if msg == "" {
			msg = fmt.Sprintf("Error code: %d", resp.StatusCode)
		}
		return Result{
			"error":     "Could not retrieve weather data: " + msg,
			"location":  location,
			"timestamp": timestamp(),
		}
	}

	tempSymbol := "°C"
	speedUnit := "m/s"
	if unit == "fahrenheit" {
		tempSymbol = "°F"
		speedUnit = "mph"
	}

	condition := ""
	description := ""
	iconURL := ""
	if len(data.Weather) > 0 {
		condition = data.Weather[0].Main
		description = capitalize(data.Weather[0].Description)
		iconURL = fmt.Sprintf("https://openweathermap.org/img/wn/%s@2x.png", data.Weather[0].Icon)
	}

	sign := "+"
	if data.Timezone < 0 {
		sign = ""
	}

	return Result{
		"location":       fmt.Sprintf("%s, %s", data.Name, data.Sys.Country),
		"coordinates":    fmt.Sprintf("Lat: %g, Lon: %g", data.Coord.Lat, data.Coord.Lon),
		"temperature":    fmt.Sprintf("%d%s", int(math.Round(data.Main.Temp)), tempSymbol),
		"feels_like":     fmt.Sprintf("%d%s", int(math.Round(data.Main.FeelsLike)), tempSymbol),
		"condition":      condition,
		"description":    description,
		"icon_url":       iconURL,
		"humidity":       fmt.Sprintf("%d%%", data.Main.Humidity),
		"wind_speed":     fmt.Sprintf("%g %s", data.Wind.Speed, speedUnit),
		"wind_direction": windDirection(data.Wind.Deg),
		"pressure":       fmt.Sprintf("%d hPa", data.Main.Pressure),
		"visibility":     fmt.Sprintf("%g km", float64(data.Visibility)/1000),
		"sunrise":        time.Unix(data.Sys.Sunrise, 0).Format("15:04"),
		"sunset":         time.Unix(data.Sys.Sunset, 0).Format("15:04"),
		"timezone":       fmt.Sprintf("UTC%s%g", sign, float64(data.Timezone)/3600),
		"unit":           unit,
		"timestamp":      timestamp(),
		"data_source":    "OpenWeatherMap API (real-time data)",
	}
}

func weatherError(location string, err error) Result {
	return Result{
		"error":     "Error accessing weather API: " + err.Error(),
		"location":  location,
		"timestamp": timestamp(),
	}
}

// windDirection converts degrees to a cardinal direction.
func windDirection(degrees float64) string {
	directions := []string{
		"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
		"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
	}
	index := int(math.Round(degrees/(360/float64(len(directions))))) % len(directions)
	return directions[index]
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// SimulatedWeatherTool serves fixture weather when no real key is configured.
type SimulatedWeatherTool struct{}

func (t *SimulatedWeatherTool) Name() string { return "get_weather" }

func (t *SimulatedWeatherTool) Definition() providers.ToolFunction {
	return providers.ToolFunction{
		Name:        t.Name(),
		Description: "Get simulated weather data (only use if real-time data is unavailable)",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"location": map[string]interface{}{
					"type":        "string",
					"description": "The city and state, e.g. San Francisco, CA",
				},
				"unit": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"celsius", "fahrenheit"},
					"description": "The unit of temperature to use. Infer this from the user's location.",
				},
			},
			"required": []string{"location"},
		},
	}
}

type simulatedConditions struct {
	temp      float64
	condition string
	humidity  int
}

var simulatedWeather = map[string]simulatedConditions{
	"New York": {22, "Partly Cloudy", 65},
	"London":   {18, "Rainy", 80},
	"Tokyo":    {26, "Sunny", 70},
	"Sydney":   {24, "Clear", 60},
	"Paris":    {20, "Cloudy", 75},
}

func (t *SimulatedWeatherTool) Invoke(ctx context.Context, args map[string]interface{}) Result {
	location := argString(args, "location", "")
	unit := argString(args, "unit", "celsius")

	weather, ok := simulatedWeather[location]
	if !ok {
		weather = simulatedConditions{23, "Sunny", 68}
	}

	temp := weather.temp
	symbol := "C"
	if unit == "fahrenheit" {
		temp = temp*9/5 + 32
		symbol = "F"
	}

	return Result{
		"location":    location,
		"temperature": fmt.Sprintf("%d°%s", int(math.Round(temp)), symbol),
		"condition":   weather.condition,
		"humidity":    fmt.Sprintf("%d%%", weather.humidity),
		"unit":        unit,
		"timestamp":   timestamp(),
	}
}
