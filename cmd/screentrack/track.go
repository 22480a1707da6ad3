package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aleister1102/screentrack/internal/capture"
	"github.com/aleister1102/screentrack/internal/classifier"
	"github.com/aleister1102/screentrack/internal/config"
	"github.com/aleister1102/screentrack/internal/datastore"
	"github.com/aleister1102/screentrack/internal/differ"
	"github.com/aleister1102/screentrack/internal/tracker"
)

func runTrack(args []string) error {
	fs := flag.NewFlagSet("track", flag.ExitOnError)
	duration := fs.Int("duration", -1, "Duration in minutes to track screen activity (0 or unset: run forever)")
	interval := fs.Int("interval", -1, "Interval in seconds between screenshots")
	aiEnabled := fs.Bool("ai", false, "Enable AI classification of changed frames")
	noAI := fs.Bool("no-ai", false, "Disable AI classification even if enabled in config")
	minPixels := fs.Int("min-pixels", -1, "Minimum changed pixels for a frame to count as changed")
	skipPermCheck := fs.Bool("skip-permission-check", false, "Skip the startup screen capture permission check")
	configPath := fs.String("config", "", "Path to the YAML/JSON configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	gCfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	// flags override config
	if *duration >= 0 {
		gCfg.TrackerConfig.DurationMinutes = *duration
	}
	if *interval > 0 {
		gCfg.TrackerConfig.IntervalSeconds = *interval
	}
	if *minPixels > 0 {
		gCfg.TrackerConfig.MinPixelsChanged = *minPixels
	}
	if *aiEnabled {
		gCfg.TrackerConfig.AIEnabled = true
	}
	if *noAI {
		gCfg.TrackerConfig.AIEnabled = false
	}
	if *skipPermCheck {
		gCfg.TrackerConfig.SkipPermissionCheck = true
	}

	sessionID := fmt.Sprintf("track-%s", time.Now().UTC().Format("20060102-150405"))
	zLogger := newLogger(gCfg, sessionID)

	store, err := datastore.NewStore(gCfg.StorageConfig, zLogger)
	if err != nil {
		return err
	}

	history, err := datastore.NewHistoryDB(gCfg.StorageConfig.HistoryDBPath(), zLogger)
	if err != nil {
		zLogger.Warn().Err(err).Msg("Session history unavailable, continuing without it")
		history = nil
	} else {
		defer history.Close()
	}

	var cls classifier.Classifier
	if gCfg.TrackerConfig.AIEnabled {
		vc := classifier.NewVisionClient(gCfg.ClassifierConfig, zLogger)
		if !vc.Available() {
			zLogger.Warn().Msg("AI enabled but no API key configured (set SCREENTRACK_API_KEY), classification disabled")
			gCfg.TrackerConfig.AIEnabled = false
		} else {
			cls = vc
		}
	}

	capturer := capture.NewCapturer(zLogger)
	zLogger.Info().Str("platform", capturer.Platform().String()).Msg("Display environment detected")
	d := differ.NewDiffer(config.DefaultDifferChannelSumThreshold, gCfg.TrackerConfig.MinPixelsChanged, zLogger)
	tr := tracker.NewTracker(gCfg.TrackerConfig, capturer, d, store, cls, history, zLogger)

	if gCfg.TrackerConfig.DurationMinutes > 0 {
		fmt.Printf("Starting screen tracking for %d minutes...\n", gCfg.TrackerConfig.DurationMinutes)
	} else {
		fmt.Println("Starting screen tracking forever (press Ctrl+C to stop)...")
	}
	fmt.Printf("Taking screenshots every %d seconds\n", gCfg.TrackerConfig.IntervalSeconds)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := tr.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Tracking finished: %d ticks, %d frames saved, %d frames classified\n",
		stats.Ticks, stats.FramesSaved, stats.FramesClassified)
	return nil
}
