package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// writerStrategy adapts a raw output sink to one of the configured formats
type writerStrategy interface {
	Wrap(out io.Writer) io.Writer
}

// jsonStrategy passes zerolog's native JSON through untouched, keeping file
// logs machine-parseable for the session log directories.
type jsonStrategy struct{}

func (jsonStrategy) Wrap(out io.Writer) io.Writer {
	return out
}

// consoleStrategy renders human-readable lines. Color is turned off for file
// sinks so rotated session logs stay grep-friendly.
type consoleStrategy struct {
	noColor bool
}

func (s consoleStrategy) Wrap(out io.Writer) io.Writer {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    s.noColor,
	}
}

// textStrategy is the color-free console rendering, used when plain text
// files are requested.
type textStrategy struct{}

func (textStrategy) Wrap(out io.Writer) io.Writer {
	return consoleStrategy{noColor: true}.Wrap(out)
}
