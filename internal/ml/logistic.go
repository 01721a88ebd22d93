// internal/ml/logistic.go
package ml

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// LogisticRegression is a binary classifier trained with full-batch
// gradient descent. Weights start at zero, so training is deterministic
// for a given dataset and hyperparameters.
type LogisticRegression struct {
	Epochs       int     `json:"epochs"`
	LearningRate float64 `json:"learning_rate"`
	L2           float64 `json:"l2"`

	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

func NewLogisticRegression(epochs int, learningRate, l2 float64) *LogisticRegression {
	return &LogisticRegression{
		Epochs:       epochs,
		LearningRate: learningRate,
		L2:           l2,
	}
}

func (l *LogisticRegression) Name() string { return NameLogisticRegression }

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func (l *LogisticRegression) Fit(X *mat.Dense, y []float64) error {
	rows, cols := X.Dims()
	if rows == 0 || rows != len(y) {
		return fmt.Errorf("logistic regression: %d rows, %d labels", rows, len(y))
	}

	l.Weights = make([]float64, cols)
	l.Bias = 0

	gradW := make([]float64, cols)
	for epoch := 0; epoch < l.Epochs; epoch++ {
		for j := range gradW {
			gradW[j] = 0
		}
		gradB := 0.0

		for i := 0; i < rows; i++ {
			row := X.RawRowView(i)
			z := l.Bias
			for j, w := range l.Weights {
				z += w * row[j]
			}
			err := sigmoid(z) - y[i]
			for j := range gradW {
				gradW[j] += err * row[j]
			}
			gradB += err
		}

		n := float64(rows)
		for j := range l.Weights {
			l.Weights[j] -= l.LearningRate * (gradW[j]/n + l.L2*l.Weights[j])
		}
		l.Bias -= l.LearningRate * (gradB / n)
	}

	return nil
}

func (l *LogisticRegression) PredictProba(x []float64) (float64, error) {
	if len(x) != len(l.Weights) {
		return 0, fmt.Errorf("logistic regression: trained on %d features, got %d", len(l.Weights), len(x))
	}
	z := l.Bias
	for j, w := range l.Weights {
		z += w * x[j]
	}
	return sigmoid(z), nil
}
