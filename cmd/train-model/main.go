// cmd/train-model/main.go
package main

import (
	"flag"
	"strings"

	"go.uber.org/zap"

	"credit-scoring/internal/common/config"
	"credit-scoring/internal/common/logger"
	"credit-scoring/internal/modelstore"
	"credit-scoring/internal/training"
)

func main() {
	configPath := flag.String("config", "", "config file path (default: search from project root)")
	input := flag.String("input", "", "ML-ready CSV, overrides the path derived from data.processed_path")
	storeDir := flag.String("models", "", "artifact bundle directory, overrides models.store_dir")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	inputPath := *input
	if inputPath == "" {
		inputPath = mlReadyPath(cfg.Data.ProcessedPath)
	}
	dir := cfg.Models.StoreDir
	if *storeDir != "" {
		dir = *storeDir
	}

	zapLog.Info("starting model training",
		zap.String("input", inputPath),
		zap.String("storeDir", dir),
		zap.Int64("seed", cfg.Training.Seed),
		zap.Float64("testFraction", cfg.Training.TestFraction),
	)

	store := modelstore.NewStore(dir, log)
	bundle, err := training.NewTrainer(cfg, store, log).Run(inputPath)
	if err != nil {
		zapLog.Fatal("model training failed", zap.Error(err))
	}

	zapLog.Info("model training complete",
		zap.String("version", bundle.Version),
		zap.String("bestModel", bundle.Info.BestModel),
		zap.Float64("bestROCAUC", bundle.Info.Metrics[bundle.Info.BestModel].ROCAUC),
		zap.Strings("features", bundle.Features),
	)
}

// mlReadyPath mirrors the cleaning stage's naming for its model input
// file.
func mlReadyPath(processedPath string) string {
	return strings.TrimSuffix(processedPath, ".csv") + "_ml_ready.csv"
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}
