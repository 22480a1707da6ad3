package config

import (
	"os"
	"path/filepath"
)

// StorageConfig defines where screenshots, the change log and the session
// history database are persisted
type StorageConfig struct {
	BaseDir            string `json:"base_dir,omitempty" yaml:"base_dir,omitempty"`
	ScreenshotsDirName string `json:"screenshots_dir_name,omitempty" yaml:"screenshots_dir_name,omitempty"`
	EventsFileName     string `json:"events_file_name,omitempty" yaml:"events_file_name,omitempty"`
	HistoryDBName      string `json:"history_db_name,omitempty" yaml:"history_db_name,omitempty"`
}

// NewDefaultStorageConfig creates default storage configuration rooted at
// ~/.screentrack
func NewDefaultStorageConfig() StorageConfig {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return StorageConfig{
		BaseDir:            filepath.Join(home, ".screentrack"),
		ScreenshotsDirName: DefaultStorageScreenshotsDirName,
		EventsFileName:     DefaultStorageEventsFileName,
		HistoryDBName:      DefaultStorageHistoryDBName,
	}
}

// ScreenshotsDir returns the absolute screenshots directory
func (sc StorageConfig) ScreenshotsDir() string {
	return filepath.Join(sc.BaseDir, sc.ScreenshotsDirName)
}

// EventsFilePath returns the absolute path of the append-only change log
func (sc StorageConfig) EventsFilePath() string {
	return filepath.Join(sc.BaseDir, sc.EventsFileName)
}

// HistoryDBPath returns the absolute path of the session history database
func (sc StorageConfig) HistoryDBPath() string {
	return filepath.Join(sc.BaseDir, sc.HistoryDBName)
}
