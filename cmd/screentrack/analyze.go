package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aleister1102/screentrack/internal/classifier"
	"github.com/aleister1102/screentrack/internal/datastore"
	"github.com/aleister1102/screentrack/internal/reporter"
)

func runAnalyzeScreenshots(args []string) error {
	fs := flag.NewFlagSet("analyze-screenshots", flag.ExitOnError)
	screenshotDir := fs.String("screenshot-dir", "", "Directory holding tracking data (default: configured base directory)")
	screenshotDirAlias := fs.String("s", "", "Alias for --screenshot-dir")
	output := fs.String("output", "", "Output file path for the analysis report")
	outputAlias := fs.String("o", "", "Alias for --output")
	configPath := fs.String("config", "", "Path to the YAML/JSON configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *screenshotDir == "" {
		*screenshotDir = *screenshotDirAlias
	}
	if *output == "" {
		*output = *outputAlias
	}

	gCfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *screenshotDir != "" {
		gCfg.StorageConfig.BaseDir = *screenshotDir
	}
	if *output == "" {
		*output = gCfg.ReporterConfig.OutputFile
	}

	if _, err := os.Stat(gCfg.StorageConfig.BaseDir); os.IsNotExist(err) {
		return fmt.Errorf("tracking data directory %s does not exist", gCfg.StorageConfig.BaseDir)
	}

	zLogger := newLogger(gCfg, "")

	store, err := datastore.NewStore(gCfg.StorageConfig, zLogger)
	if err != nil {
		return err
	}

	var cls classifier.Classifier
	var sum classifier.Summarizer
	vc := classifier.NewVisionClient(gCfg.ClassifierConfig, zLogger)
	if vc.Available() {
		cls = vc
		sum = vc
	} else {
		zLogger.Warn().Msg("No API key configured (set SCREENTRACK_API_KEY), report uses existing labels only")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Analyzing screenshots in %s...\n", store.ScreenshotsDir())
	r := reporter.NewReporter(store, cls, sum, zLogger)
	if err := r.AnalyzeScreenshots(ctx, *output); err != nil {
		return err
	}

	fmt.Printf("Analysis complete! Report saved to %s\n", *output)
	return nil
}

func runSummary(args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	reportFile := fs.String("report-file", "", "Report file to summarize")
	reportFileAlias := fs.String("r", "", "Alias for --report-file")
	configPath := fs.String("config", "", "Path to the YAML/JSON configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *reportFile == "" {
		*reportFile = *reportFileAlias
	}

	gCfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *reportFile == "" {
		*reportFile = gCfg.ReporterConfig.OutputFile
	}

	summary, err := reporter.ParseReport(*reportFile)
	if err != nil {
		return err
	}

	summary.Render(os.Stdout)
	return nil
}
