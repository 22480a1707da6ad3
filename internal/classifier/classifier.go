// Package classifier assigns an activity label to screenshot images using an
// external vision model. The capability is behind an interface so tracking
// works unchanged with classification disabled or substituted in tests.
package classifier

import (
	"context"
	"strings"
)

// Known activity labels. The model is prompted to answer with one of these;
// anything else is normalized to LabelOther.
const (
	LabelCoding   = "coding"
	LabelBrowsing = "browsing"
	LabelWriting  = "writing"
	LabelMeeting  = "meeting"
	LabelMedia    = "media"
	LabelTerminal = "terminal"
	LabelReading  = "reading"
	LabelIdle     = "idle"
	LabelOther    = "other"
)

// knownLabels fixes the vocabulary order so substring fallback matching is
// deterministic when an answer mentions more than one label.
var knownLabels = []string{
	LabelCoding,
	LabelBrowsing,
	LabelWriting,
	LabelMeeting,
	LabelMedia,
	LabelTerminal,
	LabelReading,
	LabelIdle,
	LabelOther,
}

// Result is the outcome of classifying one screenshot
type Result struct {
	Label  string
	Detail string
}

// Classifier labels the activity shown in a PNG-encoded screenshot
type Classifier interface {
	Classify(ctx context.Context, imagePNG []byte) (Result, error)
}

// Summarizer produces a narrative summary from a set of activity labels
type Summarizer interface {
	Summarize(ctx context.Context, labelCounts map[string]int) (string, error)
}

// NormalizeLabel maps a raw model answer onto the known label vocabulary.
// The first line is scanned for a known label; no match means LabelOther.
func NormalizeLabel(raw string) string {
	firstLine := raw
	if idx := strings.IndexByte(raw, '\n'); idx >= 0 {
		firstLine = raw[:idx]
	}
	firstLine = strings.ToLower(strings.TrimSpace(firstLine))

	for _, label := range knownLabels {
		if firstLine == label {
			return label
		}
	}
	for _, label := range knownLabels {
		if strings.Contains(firstLine, label) {
			return label
		}
	}
	return LabelOther
}
