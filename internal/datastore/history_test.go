package datastore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryDB_SessionLifecycle(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history", "session_history.db")
	db, err := NewHistoryDB(dbPath, zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()

	start := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	id, err := db.RecordSessionStart("session-20260830-100000", start)
	require.NoError(t, err)
	require.NotZero(t, id)

	end := start.Add(30 * time.Minute)
	require.NoError(t, db.UpdateSessionCompletion(id, end, "COMPLETED", 360, 42, 40))

	entry, err := db.GetLastSession()
	require.NoError(t, err)
	assert.Equal(t, "session-20260830-100000", entry.SessionID)
	assert.Equal(t, "COMPLETED", entry.Status)
	assert.Equal(t, 360, entry.Ticks)
	assert.Equal(t, 42, entry.FramesSaved)
	assert.Equal(t, 40, entry.FramesClassified)
	assert.True(t, entry.EndTime.Valid)
}

func TestHistoryDB_GetLastSession_Empty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "session_history.db")
	db, err := NewHistoryDB(dbPath, zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()

	entry, err := db.GetLastSession()
	assert.Error(t, err)
	assert.Nil(t, entry)
}
