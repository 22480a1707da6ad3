package reporter

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/screentrack/internal/classifier"
	"github.com/aleister1102/screentrack/internal/config"
	"github.com/aleister1102/screentrack/internal/datastore"
)

type stubClassifier struct {
	label string
	err   error
	calls int
}

func (s *stubClassifier) Classify(ctx context.Context, imagePNG []byte) (classifier.Result, error) {
	s.calls++
	if s.err != nil {
		return classifier.Result{}, s.err
	}
	return classifier.Result{Label: s.label}, nil
}

type stubSummarizer struct {
	summary string
	err     error
}

func (s *stubSummarizer) Summarize(ctx context.Context, labelCounts map[string]int) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.summary, nil
}

func newTestStore(t *testing.T) *datastore.Store {
	t.Helper()
	cfg := config.NewDefaultStorageConfig()
	cfg.BaseDir = t.TempDir()
	store, err := datastore.NewStore(cfg, zerolog.Nop())
	require.NoError(t, err)
	return store
}

func writeScreenshot(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("fake-png"), 0644))
	return path
}

func seedRecords(t *testing.T, store *datastore.Store) {
	t.Helper()
	dir := store.ScreenshotsDir()
	records := []datastore.ChangeRecord{
		{Timestamp: time.Now().UTC(), Monitor: 0, Changed: true, PixelsChanged: 5000,
			ImagePath: writeScreenshot(t, dir, "a.png"), Label: "coding", Classified: true},
		{Timestamp: time.Now().UTC(), Monitor: 0, Changed: true, PixelsChanged: 3000,
			ImagePath: writeScreenshot(t, dir, "b.png"), Label: "coding", Classified: true},
		{Timestamp: time.Now().UTC(), Monitor: 1, Changed: true, PixelsChanged: 2000,
			ImagePath: writeScreenshot(t, dir, "c.png"), Label: "browsing", Classified: true},
		{Timestamp: time.Now().UTC(), Monitor: 0, Changed: false},
		{Timestamp: time.Now().UTC(), Monitor: 1, Changed: true, PixelsChanged: 1500,
			ImagePath: writeScreenshot(t, dir, "d.png")},
	}
	for _, record := range records {
		require.NoError(t, store.AppendChangeRecord(record))
	}
}

func TestGenerateReport(t *testing.T) {
	store := newTestStore(t)
	seedRecords(t, store)

	sum := &stubSummarizer{summary: "Mostly coding with a little browsing."}
	r := NewReporter(store, nil, sum, zerolog.Nop())

	outputPath := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, r.GenerateReport(context.Background(), outputPath))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	report := string(data)

	assert.Contains(t, report, "Screen Activity Report")
	assert.Contains(t, report, "coding: 2")
	assert.Contains(t, report, "browsing: 1")
	assert.Contains(t, report, "Unclassified frames: 1")
	assert.Contains(t, report, "AI Summary")
	assert.Contains(t, report, "Mostly coding with a little browsing.")
}

func TestGenerateReport_NoRecords(t *testing.T) {
	store := newTestStore(t)
	r := NewReporter(store, nil, nil, zerolog.Nop())

	outputPath := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, r.GenerateReport(context.Background(), outputPath))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "No activities recorded.")
}

func TestGenerateReport_SummarizerFailureDegrades(t *testing.T) {
	store := newTestStore(t)
	seedRecords(t, store)

	sum := &stubSummarizer{err: errors.New("api down")}
	r := NewReporter(store, nil, sum, zerolog.Nop())

	outputPath := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, r.GenerateReport(context.Background(), outputPath))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Unable to generate AI summary")
}

func TestAnalyzeScreenshots_BackfillsUnclassified(t *testing.T) {
	store := newTestStore(t)
	seedRecords(t, store)

	cls := &stubClassifier{label: "terminal"}
	r := NewReporter(store, cls, nil, zerolog.Nop())

	outputPath := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, r.AnalyzeScreenshots(context.Background(), outputPath))

	// only the single unclassified changed record gets classified
	assert.Equal(t, 1, cls.calls)

	records, err := store.ReadChangeRecords()
	require.NoError(t, err)
	var terminalCount int
	for _, record := range records {
		if record.Label == "terminal" {
			terminalCount++
			assert.True(t, record.Classified)
		}
	}
	assert.Equal(t, 1, terminalCount)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "terminal: 1")
	assert.Contains(t, string(data), "Unclassified frames: 0")
}

func TestAnalyzeScreenshots_ClassifierFailureRecorded(t *testing.T) {
	store := newTestStore(t)
	seedRecords(t, store)

	cls := &stubClassifier{err: errors.New("timeout")}
	r := NewReporter(store, cls, nil, zerolog.Nop())

	outputPath := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, r.AnalyzeScreenshots(context.Background(), outputPath))

	records, err := store.ReadChangeRecords()
	require.NoError(t, err)
	var failed int
	for _, record := range records {
		if record.ClassifyError != "" {
			failed++
			assert.False(t, record.Classified)
		}
	}
	assert.Equal(t, 1, failed)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Unclassified frames: 1")
}

func TestParseReportAndRender(t *testing.T) {
	store := newTestStore(t)
	seedRecords(t, store)

	sum := &stubSummarizer{summary: "A focused coding session."}
	r := NewReporter(store, nil, sum, zerolog.Nop())

	outputPath := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, r.GenerateReport(context.Background(), outputPath))

	summary, err := ParseReport(outputPath)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"coding": 2, "browsing": 1}, summary.Counts)
	assert.Equal(t, []string{"coding", "browsing"}, summary.Labels)
	assert.Equal(t, 1, summary.Unclassified)
	assert.Equal(t, "A focused coding session.", summary.Narrative)
	assert.False(t, summary.Empty)

	var buf bytes.Buffer
	summary.Render(&buf)
	out := buf.String()
	assert.Contains(t, out, "coding")
	assert.Contains(t, out, "2")
	assert.Contains(t, out, "A focused coding session.")
}

func TestParseReport_Missing(t *testing.T) {
	_, err := ParseReport(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}

func TestParseReport_EmptyReport(t *testing.T) {
	store := newTestStore(t)
	r := NewReporter(store, nil, nil, zerolog.Nop())

	outputPath := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, r.GenerateReport(context.Background(), outputPath))

	summary, err := ParseReport(outputPath)
	require.NoError(t, err)
	assert.True(t, summary.Empty)

	var buf bytes.Buffer
	summary.Render(&buf)
	assert.Contains(t, buf.String(), "No activities found.")
}
