// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Data     DataConfig     `mapstructure:"data"`
	Training TrainingConfig `mapstructure:"training"`
	Models   ModelsConfig   `mapstructure:"models"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// DataConfig holds the batch pipeline input/output locations.
type DataConfig struct {
	RawPath       string `mapstructure:"raw_path"`
	ProcessedPath string `mapstructure:"processed_path"`
	LabelColumn   string `mapstructure:"label_column"`
}

// TrainingConfig holds the trainer hyperparameters. The seed fixes the
// train/test split so reruns over the same dataset are reproducible.
type TrainingConfig struct {
	Seed         int64   `mapstructure:"seed"`
	TestFraction float64 `mapstructure:"test_fraction"`

	Logistic LogisticConfig `mapstructure:"logistic"`
	Tree     TreeConfig     `mapstructure:"tree"`
}

type LogisticConfig struct {
	Epochs       int     `mapstructure:"epochs"`
	LearningRate float64 `mapstructure:"learning_rate"`
	L2           float64 `mapstructure:"l2"`
}

type TreeConfig struct {
	MaxDepth    int `mapstructure:"max_depth"`
	MinLeafSize int `mapstructure:"min_leaf_size"`
}

// ModelsConfig holds the artifact bundle store location.
type ModelsConfig struct {
	StoreDir string `mapstructure:"store_dir"`
}

// ScoringConfig holds inference-side settings.
type ScoringConfig struct {
	// Threshold used when mapping a default probability to the
	// positive class during evaluation.
	DecisionThreshold float64 `mapstructure:"decision_threshold"`
}

// ServerConfig holds settings for the thin serving shim.
type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
