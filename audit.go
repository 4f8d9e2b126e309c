package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ChatAuditEntry is one completed chat turn. Prompts and responses are
// stored as signatures only.
type ChatAuditEntry struct {
	RequestID         string
	Model             string
	PromptSignature   string
	ResponseSignature string
	PromptTokens      int
	CompletionTokens  int
	ToolName          string
	Error             string
	Timestamp         time.Time
}

var (
	auditDB     *sql.DB
	auditDBOnce sync.Once
	auditDBErr  error
)

const auditSchema = `
CREATE TABLE IF NOT EXISTS chat_audit (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id TEXT NOT NULL,
	model TEXT NOT NULL,
	prompt_signature TEXT NOT NULL,
	response_signature TEXT,
	prompt_tokens INTEGER,
	completion_tokens INTEGER,
	tool_name TEXT,
	error TEXT,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_chat_audit_request ON chat_audit(request_id);
`

// openAuditDB opens (and migrates) the audit database at path.
func openAuditDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	if _, err := db.Exec(auditSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create audit schema: %w", err)
	}
	return db, nil
}

// InitAuditDB opens the process-wide audit database once. The path
// defaults to chat_audit.db and can be moved with CHAT_AUDIT_DB.
func InitAuditDB() error {
	auditDBOnce.Do(func() {
		path := os.Getenv("CHAT_AUDIT_DB")
		if path == "" {
			path = "chat_audit.db"
		}
		auditDB, auditDBErr = openAuditDB(path)
		if auditDBErr == nil {
			log.Printf("[audit] chat audit log at %s", path)
		}
	})
	return auditDBErr
}

// LogChatTurn records one turn in the audit log. Failures are logged
// and swallowed so auditing never breaks the chat path.
func LogChatTurn(entry ChatAuditEntry) {
	if !ENABLE_CHAT_AUDIT || auditDB == nil {
		return
	}
	if err := logTurnTo(auditDB, entry); err != nil {
		log.Printf("[audit] failed to record turn %s: %v", entry.RequestID, err)
	}
}

func logTurnTo(db *sql.DB, entry ChatAuditEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	_, err := db.Exec(`
		INSERT INTO chat_audit (request_id, model, prompt_signature, response_signature,
			prompt_tokens, completion_tokens, tool_name, error, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RequestID, entry.Model, entry.PromptSignature, entry.ResponseSignature,
		entry.PromptTokens, entry.CompletionTokens, entry.ToolName, entry.Error,
		entry.Timestamp)
	return err
}

// GetRequestAudit returns every audit row written for a request ID,
// oldest first.
func GetRequestAudit(db *sql.DB, requestID string) ([]ChatAuditEntry, error) {
	rows, err := db.Query(`
		SELECT request_id, model, prompt_signature, response_signature,
			prompt_tokens, completion_tokens, tool_name, error, timestamp
		FROM chat_audit WHERE request_id = ? ORDER BY id`, requestID)
	if err != nil {
		return nil, fmt.Errorf("query audit rows: %w", err)
	}
	defer rows.Close()

	var entries []ChatAuditEntry
	for rows.Next() {
		var e ChatAuditEntry
		if err := rows.Scan(&e.RequestID, &e.Model, &e.PromptSignature, &e.ResponseSignature,
			&e.PromptTokens, &e.CompletionTokens, &e.ToolName, &e.Error, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
