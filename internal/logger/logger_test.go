package logger

import (
	"path/filepath"
	"testing"

	"github.com/aleister1102/screentrack/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultLogger(t *testing.T) {
	cfg := config.NewDefaultLogConfig()
	log, err := New(cfg)
	require.NoError(t, err)
	log.Info().Msg("default logger ready")
}

func TestNewWithSessionID_FileLogging(t *testing.T) {
	cfg := config.NewDefaultLogConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "screentrack.log")

	log, err := NewWithSessionID(cfg, "20240101-120000")
	require.NoError(t, err)
	log.Info().Msg("session log line")
}

func TestLoggerBuilder_InvalidMaxSize(t *testing.T) {
	builder := NewLoggerBuilder()
	builder.config.MaxSizeMB = 0

	_, err := builder.Build()
	assert.Error(t, err)
}

func TestLogFormatParser(t *testing.T) {
	parser := NewLogFormatParser()

	assert.Equal(t, FormatJSON, parser.ParseFormat("json"))
	assert.Equal(t, FormatText, parser.ParseFormat("TEXT"))
	assert.Equal(t, FormatConsole, parser.ParseFormat("unknown"))
}

func TestLogLevelParser_Invalid(t *testing.T) {
	parser := NewLogLevelParser()

	_, err := parser.ParseLevel("verbose")
	assert.Error(t, err)
}
