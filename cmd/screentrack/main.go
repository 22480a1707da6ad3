package main

import (
	"fmt"
	"log"
	"os"

	"github.com/rs/zerolog"

	"github.com/aleister1102/screentrack/internal/config"
	"github.com/aleister1102/screentrack/internal/logger"
)

var version = "dev"

const usage = `screentrack - local screen activity tracker

Usage:
  screentrack <command> [flags]

Commands:
  track                Start tracking screen activity
  analyze-screenshots  Classify stored screenshots and generate a report
  summary              Display a summary of a generated report
  check-permissions    Verify screen capture access
  screenshot           Capture every monitor once
  monitors             List connected monitors
  windows              List visible windows
  processes            List running processes
  version              Display version information

Run 'screentrack <command> -h' for command flags.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "track":
		err = runTrack(os.Args[2:])
	case "analyze-screenshots":
		err = runAnalyzeScreenshots(os.Args[2:])
	case "summary":
		err = runSummary(os.Args[2:])
	case "check-permissions":
		err = runCheckPermissions(os.Args[2:])
	case "screenshot":
		err = runScreenshot(os.Args[2:])
	case "monitors":
		err = runMonitors(os.Args[2:])
	case "windows":
		err = runWindows(os.Args[2:])
	case "processes":
		err = runProcesses(os.Args[2:])
	case "version":
		fmt.Printf("screentrack version: %s\n", version)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads, validates, and returns the global configuration
func loadConfig(configPath string) (*config.GlobalConfig, error) {
	gCfg, err := config.LoadGlobalConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}
	if err := config.ValidateConfig(gCfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return gCfg, nil
}

// newLogger builds the zerolog logger from the loaded configuration. Session
// loggers write into a per-session log subdirectory.
func newLogger(gCfg *config.GlobalConfig, sessionID string) zerolog.Logger {
	var zLogger zerolog.Logger
	var err error
	if sessionID != "" {
		zLogger, err = logger.NewWithSessionID(gCfg.LogConfig, sessionID)
	} else {
		zLogger, err = logger.New(gCfg.LogConfig)
	}
	if err != nil {
		log.Printf("[WARN] Could not initialize logger: %v, using console-only fallback", err)
		zLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	return zLogger
}
