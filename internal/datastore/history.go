package datastore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// HistoryDB wraps the SQL database connection holding tracking session history.
type HistoryDB struct {
	db     *sql.DB
	logger zerolog.Logger
}

// SessionHistoryEntry represents a record in the session_history table.
type SessionHistoryEntry struct {
	ID               int64
	SessionID        string
	StartTime        time.Time
	EndTime          sql.NullTime
	Status           string
	Ticks            int
	FramesSaved      int
	FramesClassified int
}

// NewHistoryDB initializes a new HistoryDB connection and ensures the schema is set up.
func NewHistoryDB(dataSourceName string, logger zerolog.Logger) (*HistoryDB, error) {
	dbDir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error().Err(err).Str("directory", dbDir).Msg("Failed to create history database directory")
		return nil, fmt.Errorf("failed to create history database directory %s: %w", dbDir, err)
	}

	dbInstance, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		logger.Error().Err(err).Str("db_path", dataSourceName).Msg("Failed to open history database")
		return nil, fmt.Errorf("sql.Open failed for %s: %w", dataSourceName, err)
	}

	db := &HistoryDB{
		db:     dbInstance,
		logger: logger.With().Str("component", "HistoryDB").Logger(),
	}

	if err := db.InitSchema(); err != nil {
		db.Close()
		logger.Error().Err(err).Msg("Failed to initialize history database schema")
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	logger.Debug().Str("path", dataSourceName).Msg("History database initialized")
	return db, nil
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	if h.db != nil {
		return h.db.Close()
	}
	return nil
}

// InitSchema creates the session_history table if it doesn't already exist.
func (h *HistoryDB) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS session_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT UNIQUE,
		start_time DATETIME NOT NULL,
		end_time DATETIME,
		status TEXT NOT NULL,
		ticks INTEGER DEFAULT 0,
		frames_saved INTEGER DEFAULT 0,
		frames_classified INTEGER DEFAULT 0
	);
	`
	_, err := h.db.Exec(query)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to initialize session_history schema")
		return err
	}
	return nil
}

// RecordSessionStart inserts a new record with status "STARTED" and returns
// the ID of the newly inserted row.
func (h *HistoryDB) RecordSessionStart(sessionID string, startTime time.Time) (int64, error) {
	query := `INSERT INTO session_history (session_id, start_time, status) VALUES (?, ?, ?)`
	result, err := h.db.Exec(query, sessionID, startTime, "STARTED")
	if err != nil {
		h.logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to record session start")
		return 0, fmt.Errorf("failed to insert session start record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	h.logger.Info().Int64("db_id", id).Str("session_id", sessionID).Msg("Recorded session start")
	return id, nil
}

// UpdateSessionCompletion updates an existing record with completion details.
func (h *HistoryDB) UpdateSessionCompletion(dbID int64, endTime time.Time, status string, ticks, framesSaved, framesClassified int) error {
	query := `UPDATE session_history SET end_time = ?, status = ?, ticks = ?, frames_saved = ?, frames_classified = ? WHERE id = ?`
	_, err := h.db.Exec(query, endTime, status, ticks, framesSaved, framesClassified, dbID)
	if err != nil {
		h.logger.Error().Err(err).Int64("db_id", dbID).Msg("Failed to update session completion")
		return fmt.Errorf("failed to update session completion for ID %d: %w", dbID, err)
	}
	h.logger.Info().Int64("db_id", dbID).Str("status", status).Msg("Recorded session completion")
	return nil
}

// GetLastSession retrieves the most recently started session, if any.
func (h *HistoryDB) GetLastSession() (*SessionHistoryEntry, error) {
	query := `SELECT id, session_id, start_time, end_time, status, ticks, frames_saved, frames_classified
		FROM session_history ORDER BY start_time DESC LIMIT 1`
	var entry SessionHistoryEntry
	err := h.db.QueryRow(query).Scan(
		&entry.ID, &entry.SessionID, &entry.StartTime, &entry.EndTime,
		&entry.Status, &entry.Ticks, &entry.FramesSaved, &entry.FramesClassified,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to query last session: %w", err)
	}
	return &entry, nil
}
