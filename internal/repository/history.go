package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/verdiscan/label-backend/internal/common"
)

// HistoryEntry is one recorded scan: the flattened OCR text, the extracted
// record as JSON, and the verdict when validation ran.
type HistoryEntry struct {
	ID        uuid.UUID       `json:"id"`
	UserEmail string          `json:"user_email,omitempty"`
	Kind      string          `json:"kind"`
	RawText   string          `json:"raw_text"`
	Parsed    json.RawMessage `json:"parsed"`
	Verdict   string          `json:"verdict,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// HistoryStore appends scans to a local SQLite file and lists them back.
type HistoryStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenHistory opens (and if needed initializes) the scan history database.
func OpenHistory(ctx context.Context, path string, logger *slog.Logger) (*HistoryStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, common.NewAppError("HISTORY_OPEN", "failed to open history database", err)
	}
	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS scans (
			id         TEXT PRIMARY KEY,
			user_email TEXT NOT NULL DEFAULT '',
			kind       TEXT NOT NULL,
			raw_text   TEXT NOT NULL,
			parsed     TEXT NOT NULL,
			verdict    TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`)
	if err != nil {
		_ = db.Close()
		return nil, common.NewAppError("HISTORY_INIT", "failed to initialize history schema", err)
	}
	logger.Info("history.open.ok", "path", path)
	return &HistoryStore{db: db, logger: logger}, nil
}

func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// Append records one scan. Failures are returned but callers treat history as
// best effort and only log them.
func (s *HistoryStore) Append(ctx context.Context, e HistoryEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scans (id, user_email, kind, raw_text, parsed, verdict, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.UserEmail, e.Kind, e.RawText, string(e.Parsed), e.Verdict, e.CreatedAt)
	if err != nil {
		s.logger.Error("history.append.failed", "error", err)
		return common.NewAppError("HISTORY_APPEND", "failed to append scan", err)
	}
	return nil
}

// List returns the most recent scans, newest first.
func (s *HistoryStore) List(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_email, kind, raw_text, parsed, verdict, created_at
		 FROM scans ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, common.NewAppError("HISTORY_LIST", "failed to list scans", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var id, parsed string
		if err := rows.Scan(&id, &e.UserEmail, &e.Kind, &e.RawText, &parsed, &e.Verdict, &e.CreatedAt); err != nil {
			return nil, common.NewAppError("HISTORY_LIST", "failed to scan history row", err)
		}
		e.ID, _ = uuid.Parse(id)
		e.Parsed = json.RawMessage(parsed)
		out = append(out, e)
	}
	return out, rows.Err()
}
