package main

import (
	"path/filepath"
	"testing"
	"time"
)

func TestAuditRoundTrip(t *testing.T) {
	db, err := openAuditDB(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("openAuditDB: %v", err)
	}
	defer db.Close()

	entries := []ChatAuditEntry{
		{
			RequestID:         "req_aaaa1111",
			Model:             "meta-llama/Llama-3.3-70B-Instruct-Turbo-Free",
			PromptSignature:   generateSignature("what's the weather"),
			ResponseSignature: generateSignature("<p>sunny</p>"),
			PromptTokens:      14,
			CompletionTokens:  22,
			ToolName:          "get_weather",
		},
		{
			RequestID:       "req_aaaa1111",
			Model:           "meta-llama/Llama-3.3-70B-Instruct-Turbo-Free",
			PromptSignature: generateSignature("second turn"),
			Error:           "Together API error: rate limited",
		},
	}
	for _, e := range entries {
		if err := logTurnTo(db, e); err != nil {
			t.Fatalf("logTurnTo: %v", err)
		}
	}

	got, err := GetRequestAudit(db, "req_aaaa1111")
	if err != nil {
		t.Fatalf("GetRequestAudit: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("rows = %d, want 2", len(got))
	}
	if got[0].ToolName != "get_weather" || got[0].CompletionTokens != 22 {
		t.Errorf("first row = %+v", got[0])
	}
	if got[1].Error == "" {
		t.Error("error column not persisted")
	}
	if got[0].Timestamp.IsZero() {
		t.Error("timestamp not filled in")
	}
}

func TestAuditUnknownRequest(t *testing.T) {
	db, err := openAuditDB(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("openAuditDB: %v", err)
	}
	defer db.Close()

	got, err := GetRequestAudit(db, "req_missing")
	if err != nil {
		t.Fatalf("GetRequestAudit: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("rows = %d, want none", len(got))
	}
}

func TestAuditKeepsExplicitTimestamp(t *testing.T) {
	db, err := openAuditDB(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("openAuditDB: %v", err)
	}
	defer db.Close()

	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	entry := ChatAuditEntry{
		RequestID:       "req_ts",
		Model:           "m",
		PromptSignature: "sig",
		Timestamp:       ts,
	}
	if err := logTurnTo(db, entry); err != nil {
		t.Fatalf("logTurnTo: %v", err)
	}

	got, err := GetRequestAudit(db, "req_ts")
	if err != nil {
		t.Fatalf("GetRequestAudit: %v", err)
	}
	if len(got) != 1 || !got[0].Timestamp.Equal(ts) {
		t.Errorf("timestamp = %v, want %v", got[0].Timestamp, ts)
	}
}
