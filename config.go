package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Runtime configuration, resolved from the environment once at startup.
var (
	// HTTP_PORT is the port for the HTTP server (default: 5001, PORT to override)
	HTTP_PORT = "5001"

	// TOGETHER_API_KEY authenticates against the Together chat completions API.
	TOGETHER_API_KEY = ""

	// DEMO_MODE serves canned responses without contacting the upstream API.
	DEMO_MODE = false

	// ENABLE_CHAT_AUDIT controls the SQLite audit trail (default: enabled)
	ENABLE_CHAT_AUDIT = true
)

func loadEnvConfig() error {
	if port := os.Getenv("PORT"); port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		HTTP_PORT = port
	}

	DEMO_MODE = envBool("DEMO_MODE", false)
	ENABLE_CHAT_AUDIT = envBool("ENABLE_CHAT_AUDIT", true)

	TOGETHER_API_KEY = os.Getenv("TOGETHER_API_KEY")
	if TOGETHER_API_KEY == "" && !DEMO_MODE {
		return fmt.Errorf("TOGETHER_API_KEY is not set (set DEMO_MODE=true to run without an API key)")
	}

	if rps := os.Getenv("RATE_LIMIT_RPS"); rps != "" {
		v, err := strconv.ParseFloat(rps, 64)
		if err != nil || v <= 0 {
			return fmt.Errorf("invalid RATE_LIMIT_RPS %q", rps)
		}
		setRateLimit(v)
	}

	return nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.ToLower(os.Getenv(name))
	switch raw {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	return fallback
}
