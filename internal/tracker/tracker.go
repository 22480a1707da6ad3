// Package tracker runs the periodic capture loop: screenshot every monitor,
// detect change against the previous frame, persist what changed, and
// optionally classify the activity shown.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/screentrack/internal/capture"
	"github.com/aleister1102/screentrack/internal/classifier"
	"github.com/aleister1102/screentrack/internal/config"
	"github.com/aleister1102/screentrack/internal/datastore"
	"github.com/aleister1102/screentrack/internal/differ"
	"github.com/aleister1102/screentrack/internal/errorwrapper"
)

// Snapshots of resource usage go out at debug level once per this many ticks.
const resourceLogEveryTicks = 12

// FrameSource produces one frame per connected monitor
type FrameSource interface {
	CaptureAll(ctx context.Context) ([]capture.Frame, error)
}

// Stats summarizes a completed tracking run
type Stats struct {
	Ticks            int
	FramesSaved      int
	FramesClassified int
}

// Tracker owns the capture loop state. Previous frames live in the loop and
// are passed to the differ explicitly; nothing is shared across runs.
type Tracker struct {
	cfg        config.TrackerConfig
	source     FrameSource
	differ     *differ.Differ
	store      *datastore.Store
	classifier classifier.Classifier
	history    *datastore.HistoryDB

	interval        time.Duration
	classifyTimeout time.Duration
	checkPerms      func() error
	logger          zerolog.Logger
}

// NewTracker creates a Tracker. The classifier and history database are
// optional: nil disables classification and session recording respectively.
func NewTracker(
	cfg config.TrackerConfig,
	source FrameSource,
	d *differ.Differ,
	store *datastore.Store,
	cls classifier.Classifier,
	history *datastore.HistoryDB,
	logger zerolog.Logger,
) *Tracker {
	// A ticker interval under one second would panic or spin; validation
	// rejects it, this is the backstop for programmatic construction.
	if cfg.IntervalSeconds < 1 {
		cfg.IntervalSeconds = config.DefaultTrackerIntervalSeconds
	}
	return &Tracker{
		cfg:             cfg,
		source:          source,
		differ:          d,
		store:           store,
		classifier:      cls,
		history:         history,
		interval:        time.Duration(cfg.IntervalSeconds) * time.Second,
		classifyTimeout: time.Duration(config.DefaultClassifierTimeoutSeconds) * time.Second,
		checkPerms:      capture.CheckPermissions,
		logger:          logger.With().Str("component", "Tracker").Logger(),
	}
}

// Run executes the tracking loop until the duration elapses or the context is
// cancelled. The first tick fires immediately. Capture failures skip the tick;
// storage failures end the run; classification failures leave the record
// unclassified and the loop running.
func (t *Tracker) Run(ctx context.Context) (Stats, error) {
	if !t.cfg.SkipPermissionCheck {
		if err := t.checkPerms(); err != nil {
			return Stats{}, err
		}
	}

	if t.cfg.DurationMinutes > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(t.cfg.DurationMinutes)*time.Minute)
		defer cancel()
	}

	sessionID := fmt.Sprintf("session-%s", time.Now().UTC().Format("20060102-150405"))
	startTime := time.Now().UTC()

	var historyID int64
	if t.history != nil {
		id, err := t.history.RecordSessionStart(sessionID, startTime)
		if err != nil {
			t.logger.Warn().Err(err).Msg("Failed to record session start, continuing without history")
		} else {
			historyID = id
		}
	}

	t.logger.Info().
		Str("session_id", sessionID).
		Dur("interval", t.interval).
		Int("duration_minutes", t.cfg.DurationMinutes).
		Bool("ai_enabled", t.cfg.AIEnabled).
		Msg("Tracking started")

	var stats Stats
	prevFrames := make(map[int]capture.Frame)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	runErr := func() error {
		for {
			if err := t.tick(ctx, &stats, prevFrames); err != nil {
				return err
			}
			if stats.Ticks > 0 && stats.Ticks%resourceLogEveryTicks == 0 {
				logResourceUsage(t.logger)
			}

			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	}()

	endTime := time.Now().UTC()
	status := "COMPLETED"
	if runErr != nil {
		status = "FAILED"
	}

	if t.history != nil && historyID != 0 {
		if err := t.history.UpdateSessionCompletion(historyID, endTime, status,
			stats.Ticks, stats.FramesSaved, stats.FramesClassified); err != nil {
			t.logger.Warn().Err(err).Msg("Failed to record session completion")
		}
	}

	t.logger.Info().
		Str("session_id", sessionID).
		Str("status", status).
		Int("ticks", stats.Ticks).
		Int("frames_saved", stats.FramesSaved).
		Int("frames_classified", stats.FramesClassified).
		Msg("Tracking finished")

	return stats, runErr
}

// tick captures all monitors and processes each frame. A capture failure
// skips the whole tick. Returns an error only for run-ending conditions.
func (t *Tracker) tick(ctx context.Context, stats *Stats, prevFrames map[int]capture.Frame) error {
	frames, err := t.source.CaptureAll(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		t.logger.Warn().Err(err).Msg("Capture failed, skipping tick")
		return nil
	}

	stats.Ticks++

	for _, frame := range frames {
		var prevImage *image.RGBA
		if prev, ok := prevFrames[frame.Monitor]; ok {
			prevImage = prev.Image
		}

		result := t.differ.Compare(prevImage, frame.Image)
		prevFrames[frame.Monitor] = frame

		record := datastore.ChangeRecord{
			Timestamp:     frame.Timestamp,
			Monitor:       frame.Monitor,
			Changed:       result.Changed,
			PixelsChanged: result.PixelsChanged,
		}

		if result.Changed {
			path, err := t.store.SaveScreenshot(frame.Image, frame.Timestamp, stats.Ticks, frame.Monitor)
			if err != nil {
				return errorwrapper.WrapError(err, "persisting changed frame")
			}
			record.ImagePath = path
			stats.FramesSaved++

			if t.cfg.AIEnabled && t.classifier != nil {
				t.classifyFrame(ctx, frame, &record, stats)
			}
		}

		if err := t.store.AppendChangeRecord(record); err != nil {
			return errorwrapper.WrapError(err, "appending change record")
		}
	}

	return nil
}

func (t *Tracker) classifyFrame(ctx context.Context, frame capture.Frame, record *datastore.ChangeRecord, stats *Stats) {
	data, err := capture.EncodePNG(frame.Image)
	if err != nil {
		t.logger.Warn().Err(err).Int("monitor", frame.Monitor).Msg("Failed to encode frame for classification")
		record.ClassifyError = err.Error()
		return
	}

	classifyCtx, cancel := context.WithTimeout(ctx, t.classifyTimeout)
	defer cancel()

	result, err := t.classifier.Classify(classifyCtx, data)
	if err != nil {
		t.logger.Warn().Err(err).Int("monitor", frame.Monitor).Msg("Classification failed, record stays unclassified")
		record.ClassifyError = err.Error()
		return
	}

	record.Label = result.Label
	record.Classified = true
	stats.FramesClassified++
}
