package main

import (
	"crypto/sha256"
	"fmt"

	"github.com/google/uuid"
)

// generateRequestID returns a short unique ID for correlating log lines
// and audit rows belonging to one chat turn.
func generateRequestID() string {
	return "req_" + uuid.New().String()[:8]
}

// generateSignature produces a stable fingerprint of content for audit
// records, so prompts and responses are traceable without storing them.
func generateSignature(content string) string {
	hash := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%x", hash)[:16]
}
