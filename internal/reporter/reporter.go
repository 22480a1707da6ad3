// Package reporter turns the change log into human-readable activity reports.
package reporter

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/screentrack/internal/classifier"
	"github.com/aleister1102/screentrack/internal/datastore"
	"github.com/aleister1102/screentrack/internal/errorwrapper"
)

const (
	reportHeader       = "Screen Activity Report"
	aiSummaryHeader    = "AI Summary"
	summaryUnavailable = "Unable to generate AI summary"
)

// Reporter generates and renders activity reports from stored change records.
// Both the classifier and the summarizer are optional; a nil classifier skips
// backfilling and a nil summarizer degrades the AI Summary section to a
// placeholder line.
type Reporter struct {
	store      *datastore.Store
	classifier classifier.Classifier
	summarizer classifier.Summarizer
	logger     zerolog.Logger
}

// NewReporter creates a Reporter
func NewReporter(store *datastore.Store, cls classifier.Classifier, sum classifier.Summarizer, logger zerolog.Logger) *Reporter {
	return &Reporter{
		store:      store,
		classifier: cls,
		summarizer: sum,
		logger:     logger.With().Str("component", "Reporter").Logger(),
	}
}

// AnalyzeScreenshots classifies every saved screenshot that has no label yet,
// persists the updated records, and writes the report to outputPath. Per-image
// classification failures are recorded and skipped, not fatal: the report is
// generated from whatever labels exist.
func (r *Reporter) AnalyzeScreenshots(ctx context.Context, outputPath string) error {
	records, err := r.store.ReadChangeRecords()
	if err != nil {
		return err
	}

	if r.classifier != nil {
		updated := false
		for i := range records {
			record := &records[i]
			if !record.Changed || record.Classified || record.ImagePath == "" {
				continue
			}

			data, err := os.ReadFile(record.ImagePath)
			if err != nil {
				r.logger.Warn().Err(err).Str("path", record.ImagePath).Msg("Screenshot unreadable, skipping classification")
				record.ClassifyError = err.Error()
				updated = true
				continue
			}

			result, err := r.classifier.Classify(ctx, data)
			if err != nil {
				r.logger.Warn().Err(err).Str("path", record.ImagePath).Msg("Classification failed")
				record.ClassifyError = err.Error()
				updated = true
				continue
			}

			record.Label = result.Label
			record.Classified = true
			record.ClassifyError = ""
			updated = true
		}

		if updated {
			if err := r.store.RewriteChangeRecords(records); err != nil {
				return err
			}
		}
	}

	return r.writeReport(ctx, records, outputPath)
}

// GenerateReport writes the report from the records as they stand, without
// backfilling any classifications.
func (r *Reporter) GenerateReport(ctx context.Context, outputPath string) error {
	records, err := r.store.ReadChangeRecords()
	if err != nil {
		return err
	}
	return r.writeReport(ctx, records, outputPath)
}

func (r *Reporter) writeReport(ctx context.Context, records []datastore.ChangeRecord, outputPath string) error {
	counts, unclassified := tally(records)

	var sb strings.Builder
	sb.WriteString(reportHeader + "\n")
	sb.WriteString(strings.Repeat("=", len(reportHeader)) + "\n\n")
	fmt.Fprintf(&sb, "Generated at: %s\n\n", time.Now().UTC().Format(time.RFC3339))

	if len(counts) == 0 && unclassified == 0 {
		sb.WriteString("No activities recorded.\n")
	} else {
		sb.WriteString("Activity counts:\n")
		for _, label := range sortedByCount(counts) {
			fmt.Fprintf(&sb, "%s: %d\n", label, counts[label])
		}
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "Unclassified frames: %d\n", unclassified)

		sb.WriteString("\n" + aiSummaryHeader + "\n")
		sb.WriteString(strings.Repeat("=", len(aiSummaryHeader)) + "\n\n")
		sb.WriteString(r.summarize(ctx, counts) + "\n")
	}

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0644); err != nil {
		return errorwrapper.NewStorageError(outputPath, "write report", err)
	}

	r.logger.Info().Str("path", outputPath).Int("labels", len(counts)).Msg("Report generated")
	return nil
}

func (r *Reporter) summarize(ctx context.Context, counts map[string]int) string {
	if len(counts) == 0 {
		return "No activities to summarize."
	}
	if r.summarizer == nil {
		return summaryUnavailable
	}
	summary, err := r.summarizer.Summarize(ctx, counts)
	if err != nil {
		r.logger.Warn().Err(err).Msg("AI summary failed")
		return summaryUnavailable
	}
	return summary
}

func tally(records []datastore.ChangeRecord) (map[string]int, int) {
	counts := make(map[string]int)
	unclassified := 0
	for _, record := range records {
		if !record.Changed {
			continue
		}
		if record.Classified && record.Label != "" {
			counts[record.Label]++
		} else {
			unclassified++
		}
	}
	return counts, unclassified
}

// sortedByCount orders labels by descending count, name ascending on ties
func sortedByCount(counts map[string]int) []string {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})
	return labels
}
