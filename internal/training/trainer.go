// internal/training/trainer.go

// Package training turns a processed ML-ready dataset into a versioned
// artifact bundle: fitted classifiers, the scaler, the feature manifest
// and evaluation metrics.
package training

import (
	"fmt"
	"os"
	"time"

	"gonum.org/v1/gonum/mat"

	"credit-scoring/internal/common/config"
	"credit-scoring/internal/common/errors"
	"credit-scoring/internal/common/logger"
	"credit-scoring/internal/common/metrics"
	"credit-scoring/internal/dataset"
	"credit-scoring/internal/ml"
	"credit-scoring/internal/modelstore"
)

// Trainer runs the full training pass over one ML-ready dataset.
type Trainer struct {
	cfg    config.TrainingConfig
	label  string
	thresh float64
	store  *modelstore.Store
	logger logger.Logger
	now    func() time.Time
}

func NewTrainer(cfg *config.Config, store *modelstore.Store, log logger.Logger) *Trainer {
	return &Trainer{
		cfg:    cfg.Training,
		label:  cfg.Data.LabelColumn,
		thresh: cfg.Scoring.DecisionThreshold,
		store:  store,
		logger: log.WithFields(map[string]interface{}{"component": "trainer"}),
		now:    time.Now,
	}
}

// Run trains all classifiers, evaluates them on the held-out split,
// selects the best by ROC-AUC and persists the bundle. The returned
// bundle carries everything that was written.
func (t *Trainer) Run(inputPath string) (*modelstore.Bundle, error) {
	bundle, err := t.run(inputPath)
	if err != nil {
		metrics.TrainingRuns.WithLabelValues("failure").Inc()
		return nil, err
	}
	metrics.TrainingRuns.WithLabelValues("success").Inc()
	return bundle, nil
}

func (t *Trainer) run(inputPath string) (*modelstore.Bundle, error) {
	X, y, featureNames, err := t.loadDataset(inputPath)
	if err != nil {
		return nil, err
	}

	rows, _ := X.Dims()
	t.logger.Info("dataset loaded", map[string]interface{}{
		"path":     inputPath,
		"rows":     rows,
		"features": len(featureNames),
	})

	split, err := ml.StratifiedSplit(X, y, t.cfg.TestFraction, t.cfg.Seed)
	if err != nil {
		return nil, errors.NewDataQualityError(err.Error(), -1)
	}

	scaler := &ml.StandardScaler{}
	scaler.Fit(split.XTrain)
	xTrain, err := scaler.Transform(split.XTrain)
	if err != nil {
		return nil, errors.NewInferenceFailedError(err)
	}
	xTest, err := scaler.Transform(split.XTest)
	if err != nil {
		return nil, errors.NewInferenceFailedError(err)
	}

	classifiers := []modelstore.NamedClassifier{
		{Name: ml.NameLogisticRegression, Model: ml.NewLogisticRegression(
			t.cfg.Logistic.Epochs, t.cfg.Logistic.LearningRate, t.cfg.Logistic.L2)},
		{Name: ml.NameDecisionTree, Model: ml.NewDecisionTree(
			t.cfg.Tree.MaxDepth, t.cfg.Tree.MinLeafSize)},
	}

	allMetrics := make(map[string]ml.Metrics, len(classifiers))
	names := make([]string, 0, len(classifiers))

	for _, nc := range classifiers {
		names = append(names, nc.Name)

		if err := nc.Model.Fit(xTrain, split.YTrain); err != nil {
			return nil, errors.NewInferenceFailedError(fmt.Errorf("training %s: %w", nc.Name, err))
		}

		m, err := t.evaluate(nc.Model, xTest, split.YTest)
		if err != nil {
			return nil, err
		}
		allMetrics[nc.Name] = m

		t.logger.Info("model evaluated", map[string]interface{}{
			"model":     nc.Name,
			"accuracy":  m.Accuracy,
			"precision": m.Precision,
			"recall":    m.Recall,
			"f1_score":  m.F1,
			"roc_auc":   m.ROCAUC,
		})
	}

	bestName := bestByAUC(names, allMetrics)

	t.logFeatureImportance(classifiers, featureNames)

	version := modelstore.NewVersion(t.now())
	bundle := &modelstore.Bundle{
		Version: version,
		Info: modelstore.ModelInfo{
			Timestamp:    version,
			Models:       names,
			NumFeatures:  len(featureNames),
			FeatureNames: featureNames,
			Metrics:      allMetrics,
			BestModel:    bestName,
		},
		Classifiers: classifiers,
		Scaler:      scaler,
		Features:    featureNames,
	}

	if err := t.store.Save(bundle); err != nil {
		return nil, err
	}

	t.logger.Info("training complete", map[string]interface{}{
		"version":   version,
		"bestModel": bestName,
		"bestAUC":   allMetrics[bestName].ROCAUC,
	})
	return bundle, nil
}

// bestByAUC reduces evaluation results to the winning model name by
// held-out ROC-AUC. Only a strictly greater AUC displaces the current
// winner, so on a tie the earlier-trained model keeps the slot.
func bestByAUC(names []string, results map[string]ml.Metrics) string {
	best := ""
	bestAUC := -1.0
	for _, name := range names {
		if m := results[name]; m.ROCAUC > bestAUC {
			bestAUC = m.ROCAUC
			best = name
		}
	}
	return best
}

// loadDataset reads the ML-ready CSV and splits it into a feature
// matrix and label vector. Every non-label column becomes a feature in
// file order, which fixes the manifest order for inference.
func (t *Trainer) loadDataset(path string) (*mat.Dense, []float64, []string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, nil, errors.NewInputNotFoundError(path)
	}

	table, err := dataset.LoadCSV(path)
	if err != nil {
		return nil, nil, nil, errors.NewDataQualityError(err.Error(), -1)
	}
	if table.NumRows() == 0 {
		return nil, nil, nil, errors.NewDatasetEmptyError(path)
	}

	labelCol := table.ColumnIndex(t.label)
	if labelCol < 0 {
		return nil, nil, nil, errors.NewLabelMissingError(t.label)
	}

	featureNames := make([]string, 0, table.NumCols()-1)
	featureCols := make([]int, 0, table.NumCols()-1)
	for i, name := range table.Columns {
		if i == labelCol {
			continue
		}
		featureNames = append(featureNames, name)
		featureCols = append(featureCols, i)
	}
	if len(featureNames) == 0 {
		return nil, nil, nil, errors.NewDataQualityError("no feature columns besides label", -1)
	}

	X := mat.NewDense(table.NumRows(), len(featureCols), nil)
	y := make([]float64, table.NumRows())
	for r := 0; r < table.NumRows(); r++ {
		for j, c := range featureCols {
			v, ok := table.Float(r, c)
			if !ok {
				return nil, nil, nil, errors.NewDataQualityError(
					fmt.Sprintf("non-numeric value in column %s", table.Columns[c]), r)
			}
			X.Set(r, j, v)
		}
		lv, ok := table.Float(r, labelCol)
		if !ok || (lv != 0 && lv != 1) {
			return nil, nil, nil, errors.NewDataQualityError(
				fmt.Sprintf("label %s must be 0 or 1", t.label), r)
		}
		y[r] = lv
	}
	return X, y, featureNames, nil
}

func (t *Trainer) evaluate(model ml.Classifier, X *mat.Dense, y []float64) (ml.Metrics, error) {
	rows, cols := X.Dims()
	probs := make([]float64, rows)
	row := make([]float64, cols)
	for r := 0; r < rows; r++ {
		mat.Row(row, r, X)
		p, err := model.PredictProba(row)
		if err != nil {
			return ml.Metrics{}, errors.NewInferenceFailedError(err)
		}
		probs[r] = p
	}
	return ml.EvaluateBinary(probs, y, t.thresh), nil
}

func (t *Trainer) logFeatureImportance(classifiers []modelstore.NamedClassifier, featureNames []string) {
	for _, nc := range classifiers {
		tree, ok := nc.Model.(*ml.DecisionTree)
		if !ok {
			continue
		}
		importance := tree.FeatureImportance()
		fields := make(map[string]interface{}, len(featureNames))
		for i, name := range featureNames {
			if i < len(importance) && importance[i] > 0 {
				fields[name] = importance[i]
			}
		}
		if len(fields) > 0 {
			t.logger.Info("feature importance", fields)
		}
	}
}
