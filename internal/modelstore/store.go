// internal/modelstore/store.go

// Package modelstore persists and discovers versioned artifact bundles.
// A bundle is the complete output of one training run; it is immutable
// once written, and its model_info file doubles as the completion
// marker: a run that dies before writing it leaves nothing discoverable.
package modelstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"credit-scoring/internal/common/errors"
	"credit-scoring/internal/common/logger"
	"credit-scoring/internal/dataset"
	"credit-scoring/internal/ml"
)

// ModelInfo is the bundle index record.
type ModelInfo struct {
	Timestamp    string                `json:"timestamp"`
	Models       []string              `json:"models"`
	NumFeatures  int                   `json:"num_features"`
	FeatureNames []string              `json:"feature_names"`
	Metrics      map[string]ml.Metrics `json:"metrics"`
	BestModel    string                `json:"best_model"`
}

// NamedClassifier pairs a classifier with its bundle name. Order is the
// training order and is preserved through persistence.
type NamedClassifier struct {
	Name  string
	Model ml.Classifier
}

// Bundle is a complete training run ready to persist.
type Bundle struct {
	Version     string
	Info        ModelInfo
	Classifiers []NamedClassifier
	Scaler      *ml.StandardScaler
	Features    []string
}

// LoadedBundle is the inference-side view: only the best classifier is
// materialized.
type LoadedBundle struct {
	Version  string
	Info     ModelInfo
	BestName string
	Best     ml.Classifier
	Scaler   *ml.StandardScaler
	Features []string
}

// Store reads and writes bundles under one directory.
type Store struct {
	dir    string
	logger logger.Logger
}

func NewStore(dir string, log logger.Logger) *Store {
	return &Store{
		dir:    dir,
		logger: log.WithFields(map[string]interface{}{"component": "modelstore"}),
	}
}

func (s *Store) Dir() string { return s.dir }

// NewVersion returns a fresh timestamp-shaped version token. Tokens are
// string-sortable, so lexicographic max equals most recent.
func NewVersion(now time.Time) string {
	return now.Format("20060102_150405")
}

func (s *Store) infoPath(version string) string {
	return filepath.Join(s.dir, fmt.Sprintf("model_info_%s.json", version))
}

func (s *Store) artifactPath(name, version string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", name, version))
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return dataset.WriteFileAtomic(path, data)
}

// Save persists every artifact of the bundle, writing model_info last.
func (s *Store) Save(b *Bundle) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.NewOutputWriteFailedError(s.dir, err)
	}

	for _, nc := range b.Classifiers {
		path := s.artifactPath(nc.Name, b.Version)
		if err := writeJSON(path, nc.Model); err != nil {
			return errors.NewOutputWriteFailedError(path, err)
		}
	}

	scalerPath := s.artifactPath("scaler", b.Version)
	if err := writeJSON(scalerPath, b.Scaler); err != nil {
		return errors.NewOutputWriteFailedError(scalerPath, err)
	}

	featuresPath := s.artifactPath("features", b.Version)
	if err := writeJSON(featuresPath, map[string][]string{"features": b.Features}); err != nil {
		return errors.NewOutputWriteFailedError(featuresPath, err)
	}

	// Completion marker: once this exists, discovery can see the bundle.
	if err := writeJSON(s.infoPath(b.Version), b.Info); err != nil {
		return errors.NewOutputWriteFailedError(s.infoPath(b.Version), err)
	}

	s.logger.Info("artifact bundle saved", map[string]interface{}{
		"version":   b.Version,
		"models":    b.Info.Models,
		"bestModel": b.Info.BestModel,
	})
	return nil
}

// Versions lists all complete bundle versions, ascending.
func (s *Store) Versions() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNoModelVersionsError(s.dir)
		}
		return nil, errors.NewModelLoadFailedError("", err)
	}

	var versions []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "model_info_") && strings.HasSuffix(name, ".json") {
			versions = append(versions, strings.TrimSuffix(strings.TrimPrefix(name, "model_info_"), ".json"))
		}
	}
	if len(versions) == 0 {
		return nil, errors.NewNoModelVersionsError(s.dir)
	}

	sort.Strings(versions)
	return versions, nil
}

// LatestVersion picks the lexicographically greatest version token.
func (s *Store) LatestVersion() (string, error) {
	versions, err := s.Versions()
	if err != nil {
		return "", err
	}
	return versions[len(versions)-1], nil
}

// Load materializes the best classifier, scaler and manifest of one
// bundle version.
func (s *Store) Load(version string) (*LoadedBundle, error) {
	var info ModelInfo
	if err := readJSON(s.infoPath(version), &info); err != nil {
		return nil, errors.NewArtifactCorruptError(s.infoPath(version), err)
	}
	if info.BestModel == "" {
		return nil, errors.NewArtifactCorruptError(s.infoPath(version), fmt.Errorf("no best model recorded"))
	}

	modelPath := s.artifactPath(info.BestModel, version)
	modelData, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, errors.NewArtifactCorruptError(modelPath, err)
	}
	best, err := ml.DecodeClassifier(info.BestModel, modelData)
	if err != nil {
		return nil, errors.NewArtifactCorruptError(modelPath, err)
	}

	scaler := &ml.StandardScaler{}
	if err := readJSON(s.artifactPath("scaler", version), scaler); err != nil {
		return nil, errors.NewArtifactCorruptError(s.artifactPath("scaler", version), err)
	}

	var manifest struct {
		Features []string `json:"features"`
	}
	if err := readJSON(s.artifactPath("features", version), &manifest); err != nil {
		return nil, errors.NewArtifactCorruptError(s.artifactPath("features", version), err)
	}
	if len(manifest.Features) == 0 {
		return nil, errors.NewArtifactCorruptError(s.artifactPath("features", version), fmt.Errorf("empty feature manifest"))
	}

	return &LoadedBundle{
		Version:  version,
		Info:     info,
		BestName: info.BestModel,
		Best:     best,
		Scaler:   scaler,
		Features: manifest.Features,
	}, nil
}

// LoadLatest loads the most recent complete bundle.
func (s *Store) LoadLatest() (*LoadedBundle, error) {
	version, err := s.LatestVersion()
	if err != nil {
		return nil, err
	}
	return s.Load(version)
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
