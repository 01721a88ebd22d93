// internal/ml/split.go
package ml

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// SplitResult holds the train/test partitions of a stratified split.
type SplitResult struct {
	XTrain *mat.Dense
	XTest  *mat.Dense
	YTrain []float64
	YTest  []float64
}

// StratifiedSplit partitions (X, y) preserving the label ratio in both
// partitions. Selection is driven by a rand.Rand seeded with seed, so
// identical inputs always produce identical partitions.
func StratifiedSplit(X *mat.Dense, y []float64, testFraction float64, seed int64) (*SplitResult, error) {
	rows, cols := X.Dims()
	if rows != len(y) {
		return nil, fmt.Errorf("split: %d rows, %d labels", rows, len(y))
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, fmt.Errorf("split: test fraction %v out of range", testFraction)
	}

	byClass := map[float64][]int{}
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}

	classes := make([]float64, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Float64s(classes)

	rng := rand.New(rand.NewSource(seed))
	var testIdx, trainIdx []int
	for _, c := range classes {
		idx := byClass[c]
		rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })

		nTest := int(math.Round(float64(len(idx)) * testFraction))
		if nTest >= len(idx) && len(idx) > 1 {
			nTest = len(idx) - 1
		}
		testIdx = append(testIdx, idx[:nTest]...)
		trainIdx = append(trainIdx, idx[nTest:]...)
	}

	// Keep partitions in dataset order.
	sort.Ints(trainIdx)
	sort.Ints(testIdx)

	if len(trainIdx) == 0 || len(testIdx) == 0 {
		return nil, fmt.Errorf("split: partition empty (rows=%d, fraction=%v)", rows, testFraction)
	}

	return &SplitResult{
		XTrain: subMatrix(X, trainIdx, cols),
		XTest:  subMatrix(X, testIdx, cols),
		YTrain: subLabels(y, trainIdx),
		YTest:  subLabels(y, testIdx),
	}, nil
}

func subMatrix(X *mat.Dense, idx []int, cols int) *mat.Dense {
	out := mat.NewDense(len(idx), cols, nil)
	for i, row := range idx {
		out.SetRow(i, X.RawRowView(row))
	}
	return out
}

func subLabels(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, row := range idx {
		out[i] = y[row]
	}
	return out
}
