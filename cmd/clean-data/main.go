// cmd/clean-data/main.go
package main

import (
	"flag"

	"go.uber.org/zap"

	"credit-scoring/internal/cleaning"
	"credit-scoring/internal/common/config"
	"credit-scoring/internal/common/logger"
)

func main() {
	configPath := flag.String("config", "", "config file path (default: search from project root)")
	input := flag.String("input", "", "raw applicant CSV, overrides data.raw_path")
	output := flag.String("output", "", "processed CSV destination, overrides data.processed_path")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	rawPath := cfg.Data.RawPath
	if *input != "" {
		rawPath = *input
	}
	processedPath := cfg.Data.ProcessedPath
	if *output != "" {
		processedPath = *output
	}

	zapLog.Info("starting data cleaning",
		zap.String("input", rawPath),
		zap.String("output", processedPath),
	)

	result, err := cleaning.NewPipeline(rawPath, processedPath, log).Run()
	if err != nil {
		zapLog.Fatal("data cleaning failed", zap.Error(err))
	}

	zapLog.Info("data cleaning complete",
		zap.Int("rows", result.Rows),
		zap.Int("columns", result.Columns),
		zap.Int("duplicatesRemoved", result.DuplicatesRemoved),
		zap.Int("rowsDropped", result.RowsDropped),
		zap.String("processed", result.ProcessedPath),
		zap.String("mlReady", result.MLReadyPath),
		zap.String("summary", result.SummaryPath),
	)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}
