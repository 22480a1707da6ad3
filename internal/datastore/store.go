// Package datastore persists tracking output: screenshot PNG files, the
// append-only change log, and session history.
package datastore

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/screentrack/internal/config"
	"github.com/aleister1102/screentrack/internal/errorwrapper"
)

const screenshotTimeLayout = "2006-01-02-15-04-05"

// Store owns the on-disk layout under the configured base directory
type Store struct {
	cfg    config.StorageConfig
	logger zerolog.Logger
}

// NewStore creates a Store and ensures the directory layout exists
func NewStore(cfg config.StorageConfig, logger zerolog.Logger) (*Store, error) {
	s := &Store{
		cfg:    cfg,
		logger: logger.With().Str("component", "Store").Logger(),
	}

	for _, dir := range []string{cfg.BaseDir, cfg.ScreenshotsDir(), filepath.Dir(cfg.HistoryDBPath())} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errorwrapper.NewStorageError(dir, "create directory", err)
		}
	}

	return s, nil
}

// ScreenshotsDir returns the directory screenshot files are written to
func (s *Store) ScreenshotsDir() string {
	return s.cfg.ScreenshotsDir()
}

// EventsFilePath returns the path of the change log
func (s *Store) EventsFilePath() string {
	return s.cfg.EventsFilePath()
}

// ScreenshotFileName builds the canonical screenshot file name for a frame
func ScreenshotFileName(ts time.Time, frame, monitor, width, height int) string {
	return fmt.Sprintf("%s_F%d_M%d_%dx%d.png",
		ts.UTC().Format(screenshotTimeLayout), frame, monitor, width, height)
}

// SaveScreenshot encodes the image as PNG and writes it to the screenshots
// directory, returning the absolute path of the written file.
func (s *Store) SaveScreenshot(img *image.RGBA, ts time.Time, frame, monitor int) (string, error) {
	bounds := img.Bounds()
	name := ScreenshotFileName(ts, frame, monitor, bounds.Dx(), bounds.Dy())
	path := filepath.Join(s.cfg.ScreenshotsDir(), name)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", errorwrapper.NewStorageError(path, "encode png", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", errorwrapper.NewStorageError(path, "write screenshot", err)
	}

	s.logger.Debug().Str("path", path).Int("monitor", monitor).Msg("Screenshot saved")
	return path, nil
}

// AppendChangeRecord appends one record to the change log. The line is
// marshaled first and written with a single append so an interrupted run
// never leaves a partial record behind.
func (s *Store) AppendChangeRecord(record ChangeRecord) error {
	path := s.cfg.EventsFilePath()

	data, err := json.Marshal(record)
	if err != nil {
		return errorwrapper.NewStorageError(path, "marshal change record", err)
	}
	data = append(data, '\n')

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errorwrapper.NewStorageError(path, "open change log", err)
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		return errorwrapper.NewStorageError(path, "append change record", err)
	}

	return nil
}

// ReadChangeRecords loads every record from the change log in append order.
// A missing log is an empty history, not an error.
func (s *Store) ReadChangeRecords() ([]ChangeRecord, error) {
	path := s.cfg.EventsFilePath()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errorwrapper.NewStorageError(path, "open change log", err)
	}
	defer file.Close()

	var records []ChangeRecord
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var record ChangeRecord
		if err := json.Unmarshal(line, &record); err != nil {
			s.logger.Warn().Err(err).Str("line", string(line)).Msg("Skipping malformed change record")
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, errorwrapper.NewStorageError(path, "read change log", err)
	}

	return records, nil
}

// RewriteChangeRecords replaces the change log with the given records. Used
// after backfilling classifications; the write goes through a temp file and
// rename so readers never observe a truncated log.
func (s *Store) RewriteChangeRecords(records []ChangeRecord) error {
	path := s.cfg.EventsFilePath()
	tmpPath := path + ".tmp"

	var buf bytes.Buffer
	for _, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			return errorwrapper.NewStorageError(path, "marshal change record", err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}

	if err := os.WriteFile(tmpPath, buf.Bytes(), 0644); err != nil {
		return errorwrapper.NewStorageError(tmpPath, "write change log", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errorwrapper.NewStorageError(path, "replace change log", err)
	}

	s.logger.Debug().Int("records", len(records)).Msg("Change log rewritten")
	return nil
}
