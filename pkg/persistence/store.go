// Package persistence provides SQLite-backed storage for conversation
// transcripts.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // driver

	"rudder/pkg/dialog"
	"rudder/pkg/logx"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	flow_name  TEXT NOT NULL,
	started_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	ended_at   TIMESTAMP
);

CREATE TABLE IF NOT EXISTS turns (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id   TEXT NOT NULL REFERENCES sessions(id),
	user_input   TEXT NOT NULL,
	state_in     TEXT NOT NULL,
	state_out    TEXT NOT NULL,
	bot_response TEXT NOT NULL,
	slots_json   TEXT NOT NULL DEFAULT '{}',
	created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id);
`

// ErrSessionNotFound is returned for operations on an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// SessionInfo summarizes one stored session.
type SessionInfo struct {
	ID        string
	FlowName  string
	StartedAt time.Time
	EndedAt   *time.Time
	TurnCount int
}

// Store persists sessions and their transcripts. It is safe for concurrent
// use; SQLite's single-writer constraint is handled by the connection pool.
type Store struct {
	db     *sql.DB
	logger *logx.Logger
}

// Open opens (creating if needed) a transcript database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf(
		"file:%s?_foreign_keys=ON&_journal_mode=WAL&_busy_timeout=5000",
		path,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	logger := logx.NewLogger("persistence")
	logger.Debug("Transcript database ready: %s", path)
	return &Store{db: db, logger: logger}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// CreateSession records the start of a conversation.
func (s *Store) CreateSession(ctx context.Context, sessionID, flowName string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, flow_name) VALUES (?, ?)`,
		sessionID, flowName,
	)
	if err != nil {
		return fmt.Errorf("failed to create session %s: %w", sessionID, err)
	}
	return nil
}

// EndSession stamps a session as finished.
func (s *Store) EndSession(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET ended_at = CURRENT_TIMESTAMP WHERE id = ? AND ended_at IS NULL`,
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to end session %s: %w", sessionID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return nil
}

// SaveTurn appends one turn to a session's transcript.
func (s *Store) SaveTurn(ctx context.Context, sessionID string, turn dialog.TurnRecord) error {
	slotsJSON, err := json.Marshal(turn.Slots)
	if err != nil {
		return fmt.Errorf("failed to marshal turn slots: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO turns (session_id, user_input, state_in, state_out, bot_response, slots_json)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, turn.Text, turn.StateIn, turn.StateOut, turn.BotResponse, string(slotsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save turn for session %s: %w", sessionID, err)
	}
	return nil
}

// GetTranscript returns a session's turns in order.
func (s *Store) GetTranscript(ctx context.Context, sessionID string) ([]dialog.TurnRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_input, state_in, state_out, bot_response, slots_json
		 FROM turns WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query transcript for session %s: %w", sessionID, err)
	}
	defer rows.Close()

	var transcript []dialog.TurnRecord
	for rows.Next() {
		var turn dialog.TurnRecord
		var slotsJSON string
		if err := rows.Scan(&turn.Text, &turn.StateIn, &turn.StateOut, &turn.BotResponse, &slotsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		if err := json.Unmarshal([]byte(slotsJSON), &turn.Slots); err != nil {
			return nil, fmt.Errorf("failed to parse turn slots: %w", err)
		}
		turn.Role = "user"
		transcript = append(transcript, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transcript: %w", err)
	}
	return transcript, nil
}

// ListSessions returns stored sessions, most recent first.
func (s *Store) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.flow_name, s.started_at, s.ended_at, COUNT(t.id)
		FROM sessions s LEFT JOIN turns t ON t.session_id = s.id
		GROUP BY s.id ORDER BY s.started_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var endedAt sql.NullTime
		if err := rows.Scan(&info.ID, &info.FlowName, &info.StartedAt, &endedAt, &info.TurnCount); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if endedAt.Valid {
			info.EndedAt = &endedAt.Time
		}
		sessions = append(sessions, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return sessions, nil
}
