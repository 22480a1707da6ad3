package config

const (
	// Tracker Defaults
	DefaultTrackerIntervalSeconds  = 5
	DefaultTrackerDurationMinutes  = 0 // 0 = run until interrupted
	DefaultTrackerMinPixelsChanged = 1000
	DefaultTrackerAIEnabled        = true

	// Differ Defaults
	// A pixel counts as changed when the sum of absolute per-channel
	// differences exceeds this value.
	DefaultDifferChannelSumThreshold = 50

	// Classifier Defaults
	DefaultClassifierBaseURL        = "https://openrouter.ai/api/v1"
	DefaultClassifierModel          = "openai/gpt-4o-mini"
	DefaultClassifierTimeoutSeconds = 30
	DefaultClassifierMaxTokens      = 300

	// Storage Defaults
	DefaultStorageScreenshotsDirName = "screenshots"
	DefaultStorageEventsFileName     = "events.jsonl"
	DefaultStorageHistoryDBName      = "history/session_history.db"

	// Reporter Defaults
	DefaultReporterOutputFile = "report.txt"

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3
)
