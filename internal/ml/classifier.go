// internal/ml/classifier.go

// Package ml holds the numeric building blocks of the trainer and the
// scoring engine: the feature scaler, the classifier implementations,
// the stratified splitter, and held-out evaluation metrics.
package ml

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Classifier is a binary classifier producing a default probability.
type Classifier interface {
	// Name identifies the algorithm inside an artifact bundle.
	Name() string
	// Fit trains on the scaled feature matrix and 0/1 labels.
	Fit(X *mat.Dense, y []float64) error
	// PredictProba returns P(label=1) for one scaled feature row.
	PredictProba(x []float64) (float64, error)
}

// Classifier names as persisted in artifact bundles. Renaming either
// invalidates every stored bundle.
const (
	NameLogisticRegression = "logistic_regression"
	NameDecisionTree       = "decision_tree"
)

var decoders = map[string]func() Classifier{
	NameLogisticRegression: func() Classifier { return &LogisticRegression{} },
	NameDecisionTree:       func() Classifier { return &DecisionTree{} },
}

// DecodeClassifier reconstructs a persisted classifier by name.
func DecodeClassifier(name string, data []byte) (Classifier, error) {
	newFn, ok := decoders[name]
	if !ok {
		return nil, fmt.Errorf("unknown classifier %q", name)
	}
	c := newFn()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("decode classifier %q: %w", name, err)
	}
	return c, nil
}
