// internal/ml/metrics.go
package ml

import "sort"

// Metrics holds held-out evaluation results for one classifier.
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1_score"`
	ROCAUC    float64 `json:"roc_auc"`
}

// EvaluateBinary computes accuracy, precision, recall, F1 and ROC-AUC
// for predicted probabilities against 0/1 labels. Zero-division cases
// score 0; a single-class label set yields ROC-AUC 0 rather than an
// undefined metric.
func EvaluateBinary(probs, y []float64, threshold float64) Metrics {
	var tp, fp, tn, fn float64
	for i, p := range probs {
		predicted := p >= threshold
		actual := y[i] == 1
		switch {
		case predicted && actual:
			tp++
		case predicted && !actual:
			fp++
		case !predicted && actual:
			fn++
		default:
			tn++
		}
	}

	m := Metrics{}
	total := tp + fp + tn + fn
	if total > 0 {
		m.Accuracy = (tp + tn) / total
	}
	if tp+fp > 0 {
		m.Precision = tp / (tp + fp)
	}
	if tp+fn > 0 {
		m.Recall = tp / (tp + fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	m.ROCAUC = rocAUC(probs, y)
	return m
}

// rocAUC computes the area under the ROC curve via the rank-sum
// (Mann-Whitney) formulation, with average ranks for tied scores.
func rocAUC(probs, y []float64) float64 {
	nPos, nNeg := 0.0, 0.0
	for _, label := range y {
		if label == 1 {
			nPos++
		} else {
			nNeg++
		}
	}
	if nPos == 0 || nNeg == 0 {
		return 0
	}

	order := make([]int, len(probs))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return probs[order[a]] < probs[order[b]] })

	ranks := make([]float64, len(probs))
	for i := 0; i < len(order); {
		j := i
		for j < len(order) && probs[order[j]] == probs[order[i]] {
			j++
		}
		// Average rank across the tie group; ranks are 1-based.
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[order[k]] = avg
		}
		i = j
	}

	rankSumPos := 0.0
	for i, label := range y {
		if label == 1 {
			rankSumPos += ranks[i]
		}
	}

	return (rankSumPos - nPos*(nPos+1)/2) / (nPos * nNeg)
}
