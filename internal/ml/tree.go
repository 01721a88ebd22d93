// internal/ml/tree.go
package ml

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// DecisionTree is a CART binary classifier using gini impurity. Split
// search scans features in index order and only accepts a strictly
// better split, so a fixed dataset always grows the same tree.
type DecisionTree struct {
	MaxDepth    int `json:"max_depth"`
	MinLeafSize int `json:"min_leaf_size"`

	Root *treeNode `json:"root"`

	// Importance accumulates the impurity decrease per feature index
	// during fitting. Reporting only.
	Importance []float64 `json:"importance,omitempty"`
}

type treeNode struct {
	Leaf      bool      `json:"leaf"`
	Prob      float64   `json:"prob,omitempty"`
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *treeNode `json:"left,omitempty"`
	Right     *treeNode `json:"right,omitempty"`
}

func NewDecisionTree(maxDepth, minLeafSize int) *DecisionTree {
	return &DecisionTree{MaxDepth: maxDepth, MinLeafSize: minLeafSize}
}

func (t *DecisionTree) Name() string { return NameDecisionTree }

func (t *DecisionTree) Fit(X *mat.Dense, y []float64) error {
	rows, cols := X.Dims()
	if rows == 0 || rows != len(y) {
		return fmt.Errorf("decision tree: %d rows, %d labels", rows, len(y))
	}

	idx := make([]int, rows)
	for i := range idx {
		idx[i] = i
	}

	t.Importance = make([]float64, cols)
	t.Root = t.grow(X, y, idx, 0)
	return nil
}

func (t *DecisionTree) grow(X *mat.Dense, y []float64, idx []int, depth int) *treeNode {
	prob := meanLabel(y, idx)

	if depth >= t.MaxDepth || len(idx) < 2*t.MinLeafSize || prob == 0 || prob == 1 {
		return &treeNode{Leaf: true, Prob: prob}
	}

	feature, threshold, gain, ok := t.bestSplit(X, y, idx)
	if !ok {
		return &treeNode{Leaf: true, Prob: prob}
	}
	t.Importance[feature] += gain

	var left, right []int
	for _, i := range idx {
		if X.At(i, feature) <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &treeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      t.grow(X, y, left, depth+1),
		Right:     t.grow(X, y, right, depth+1),
	}
}

// bestSplit scans all features for the threshold minimizing weighted
// gini impurity. Candidate thresholds are midpoints between distinct
// consecutive sorted values.
func (t *DecisionTree) bestSplit(X *mat.Dense, y []float64, idx []int) (feature int, threshold, gain float64, ok bool) {
	_, cols := X.Dims()
	parent := giniOf(y, idx)
	best := parent
	n := float64(len(idx))

	type pair struct {
		value float64
		label float64
	}
	pairs := make([]pair, len(idx))

	for f := 0; f < cols; f++ {
		for i, row := range idx {
			pairs[i] = pair{X.At(row, f), y[row]}
		}
		sort.Slice(pairs, func(a, b int) bool { return pairs[a].value < pairs[b].value })

		// Running left-side counts over the sorted order.
		leftCount, leftPos := 0.0, 0.0
		totalPos := 0.0
		for _, p := range pairs {
			totalPos += p.label
		}

		for i := 0; i < len(pairs)-1; i++ {
			leftCount++
			leftPos += pairs[i].label
			if pairs[i].value == pairs[i+1].value {
				continue
			}
			rightCount := n - leftCount
			if int(leftCount) < t.MinLeafSize || int(rightCount) < t.MinLeafSize {
				continue
			}

			rightPos := totalPos - leftPos
			impurity := (leftCount*gini(leftPos/leftCount) + rightCount*gini(rightPos/rightCount)) / n
			if impurity < best {
				best = impurity
				feature = f
				threshold = (pairs[i].value + pairs[i+1].value) / 2
				ok = true
			}
		}
	}

	return feature, threshold, parent - best, ok
}

func gini(p float64) float64 {
	return 2 * p * (1 - p)
}

func giniOf(y []float64, idx []int) float64 {
	return gini(meanLabel(y, idx))
}

func meanLabel(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func (t *DecisionTree) PredictProba(x []float64) (float64, error) {
	if t.Root == nil {
		return 0, fmt.Errorf("decision tree: not fitted")
	}

	node := t.Root
	for !node.Leaf {
		if node.Feature >= len(x) {
			return 0, fmt.Errorf("decision tree: split on feature %d, row has %d", node.Feature, len(x))
		}
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Prob, nil
}

// FeatureImportance returns the accumulated impurity decrease per
// feature index, normalized to sum to 1 when any split occurred.
func (t *DecisionTree) FeatureImportance() []float64 {
	total := 0.0
	for _, v := range t.Importance {
		total += v
	}
	out := make([]float64, len(t.Importance))
	if total == 0 {
		return out
	}
	for i, v := range t.Importance {
		out[i] = v / total
	}
	return out
}
